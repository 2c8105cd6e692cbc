package handler

import (
	"strconv"

	"collectible-sale-gateway/internal/adapter/http/dto"
	"collectible-sale-gateway/internal/adapter/http/middleware"
	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports"
	"collectible-sale-gateway/pkg/apperror"
	"collectible-sale-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// MintHandler handles mint, burn and listing-approval endpoints.
type MintHandler struct {
	mintSvc ports.MintService
}

// NewMintHandler creates a new MintHandler.
func NewMintHandler(mintSvc ports.MintService) *MintHandler {
	return &MintHandler{mintSvc: mintSvc}
}

// Mint handles POST /api/v1/mint.
func (h *MintHandler) Mint(c *gin.Context) {
	username, ok := callerUsername(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	deposits := make([]domain.TokenDeposit, 0, len(req.Deposits))
	for _, d := range req.Deposits {
		deposits = append(deposits, domain.TokenDeposit{
			AssetContract: d.AssetContract,
			Amount:        d.Amount,
		})
	}

	result, err := h.mintSvc.Mint(c.Request.Context(), ports.MintRequest{
		Buyer:         username,
		Signer:        username,
		Quantity:      req.Quantity,
		AttachedValue: req.AttachedValue,
		BaseEscrow:    req.BaseEscrow,
		Deposits:      deposits,
		ReferenceID:   req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toMintResponse(result))
}

// Burn handles DELETE /api/v1/items/:id.
func (h *MintHandler) Burn(c *gin.Context) {
	username, ok := callerUsername(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	itemID, err := parseItemID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.mintSvc.Burn(c.Request.Context(), ports.BurnRequest{
		Caller: username,
		ItemID: itemID,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"item_id": itemID, "burned": true})
}

// ApproveListing handles POST /api/v1/items/:id/approve.
func (h *MintHandler) ApproveListing(c *gin.Context) {
	username, ok := callerUsername(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	itemID, err := parseItemID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.ApproveListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	item, err := h.mintSvc.ApproveListing(c.Request.Context(), ports.ApproveRequest{
		Caller:    username,
		ItemID:    itemID,
		SaleTerms: req.SaleTerms,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toItemResponse(item))
}

// callerUsername extracts the authenticated account from the JWT context.
func callerUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.CtxUsername)
	if !exists {
		return "", false
	}
	username, ok := v.(string)
	return username, ok && username != ""
}

// parseItemID parses the :id path parameter.
func parseItemID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.Validation("invalid item id")
	}
	return id, nil
}

// toItemResponse converts domain.Item to DTO.
func toItemResponse(item *domain.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:         item.ID,
		Owner:      item.Owner,
		Title:      item.Title,
		Media:      item.Media,
		ApprovalID: item.ApprovalID,
		IssuedAt:   item.IssuedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// toMintResponse converts the mint result to DTO.
func toMintResponse(result *ports.MintResult) dto.MintResponse {
	items := make([]dto.ItemResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toItemResponse(&result.Items[i]))
	}
	return dto.MintResponse{Items: items, Quantity: result.Quantity}
}
