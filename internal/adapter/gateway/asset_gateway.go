package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"collectible-sale-gateway/config"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// AssetGateway implements ports.AssetGateway over the external transfer
// interface. Base currency moves through /transfer on the base URL; fungible
// tokens move through /contracts/{contract}/ft_transfer.
type AssetGateway struct {
	baseURL    string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewAssetGateway creates a new HTTP asset gateway.
func NewAssetGateway(cfg config.GatewayConfig, httpClient HTTPClient, log zerolog.Logger) *AssetGateway {
	return &AssetGateway{
		baseURL:    cfg.AssetBaseURL,
		httpClient: httpClient,
		log:        log,
	}
}

type transferRequest struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Memo      string `json:"memo,omitempty"`
}

func (g *AssetGateway) post(ctx context.Context, url string, payload transferRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal transfer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch transfer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("transfer rejected: status %d", resp.StatusCode)
	}
	return nil
}

// TransferBase moves base currency to recipient.
func (g *AssetGateway) TransferBase(ctx context.Context, recipient string, amount int64, memo string) error {
	err := g.post(ctx, g.baseURL+"/transfer", transferRequest{
		Recipient: recipient,
		Amount:    amount,
		Memo:      memo,
	})
	if err != nil {
		g.log.Warn().Err(err).
			Str("recipient", recipient).
			Int64("amount", amount).
			Msg("base transfer failed")
		return err
	}

	g.log.Info().
		Str("recipient", recipient).
		Int64("amount", amount).
		Msg("base transfer dispatched")
	return nil
}

// TransferToken invokes ft_transfer on the given asset contract.
func (g *AssetGateway) TransferToken(ctx context.Context, assetContract string, recipient string, amount int64, memo string) error {
	url := fmt.Sprintf("%s/contracts/%s/ft_transfer", g.baseURL, assetContract)
	err := g.post(ctx, url, transferRequest{
		Recipient: recipient,
		Amount:    amount,
		Memo:      memo,
	})
	if err != nil {
		g.log.Warn().Err(err).
			Str("asset_contract", assetContract).
			Str("recipient", recipient).
			Int64("amount", amount).
			Msg("token transfer failed")
		return err
	}

	g.log.Info().
		Str("asset_contract", assetContract).
		Str("recipient", recipient).
		Int64("amount", amount).
		Msg("token transfer dispatched")
	return nil
}
