package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"collectible-sale-gateway/config"
	"collectible-sale-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// ListingRegistry implements ports.ListingRegistry over the marketplace's
// approval endpoint. The marketplace acts on the approval out of band.
type ListingRegistry struct {
	url        string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewListingRegistry creates a new HTTP listing registry client.
func NewListingRegistry(cfg config.GatewayConfig, httpClient HTTPClient, log zerolog.Logger) *ListingRegistry {
	return &ListingRegistry{
		url:        cfg.ListingURL,
		httpClient: httpClient,
		log:        log,
	}
}

// NotifyApproval posts a listing approval to the marketplace.
func (r *ListingRegistry) NotifyApproval(ctx context.Context, approval ports.ListingApproval) error {
	body, err := json.Marshal(approval)
	if err != nil {
		return fmt.Errorf("marshal listing approval: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create listing request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify listing registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("listing registry rejected approval: status %d", resp.StatusCode)
	}

	r.log.Info().
		Int64("item_id", approval.ItemID).
		Int64("approval_id", approval.ApprovalID).
		Msg("listing approval delivered")
	return nil
}
