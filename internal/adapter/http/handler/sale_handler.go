package handler

import (
	"strconv"

	"collectible-sale-gateway/internal/adapter/http/dto"
	"collectible-sale-gateway/internal/adapter/http/middleware"
	"collectible-sale-gateway/internal/core/ports"
	"collectible-sale-gateway/pkg/apperror"
	"collectible-sale-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

const maxEventListLimit = 100

// SaleHandler exposes the read-only sale views.
type SaleHandler struct {
	viewSvc   ports.ViewService
	itemRepo  ports.ItemRepository
	eventRepo ports.EventRepository
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(viewSvc ports.ViewService, itemRepo ports.ItemRepository, eventRepo ports.EventRepository) *SaleHandler {
	return &SaleHandler{viewSvc: viewSvc, itemRepo: itemRepo, eventRepo: eventRepo}
}

// Status handles GET /api/v1/sale/status.
func (h *SaleHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	phase, err := h.viewSvc.Status(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	minted, maxSupply, err := h.viewSvc.Supply(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	rateLimit, err := h.viewSvc.MintRateLimit(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SaleStatusResponse{
		Phase:         string(phase),
		Minted:        minted,
		MaxSupply:     maxSupply,
		MintRateLimit: rateLimit,
	})
}

// Cost handles GET /api/v1/sale/cost?num=N. The minter defaults to the
// authenticated account when present, so owner pricing applies automatically.
func (h *SaleHandler) Cost(c *gin.Context) {
	num := 1
	if raw := c.Query("num"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, apperror.Validation("invalid num"))
			return
		}
		num = parsed
	}

	minter := c.Query("minter")
	if minter == "" {
		if username, exists := c.Get(middleware.CtxUsername); exists {
			minter, _ = username.(string)
		}
	}

	unit, err := h.viewSvc.CostPerUnit(c.Request.Context(), minter)
	if err != nil {
		response.Error(c, err)
		return
	}
	total, err := h.viewSvc.TotalCost(c.Request.Context(), num, minter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CostResponse{Num: num, CostPerUnit: unit, TotalCost: total})
}

// Allowance handles GET /api/v1/sale/allowance/:account.
func (h *SaleHandler) Allowance(c *gin.Context) {
	account := c.Param("account")
	if account == "" {
		response.Error(c, apperror.Validation("account is required"))
		return
	}

	remaining, err := h.viewSvc.RemainingAllowance(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AllowanceResponse{Account: account, Remaining: remaining})
}

// GetItem handles GET /api/v1/items/:id.
func (h *SaleHandler) GetItem(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.itemRepo.GetByID(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	if item == nil {
		response.Error(c, apperror.ErrItemNotFound())
		return
	}

	response.OK(c, toItemResponse(item))
}

// ListItems handles GET /api/v1/items?owner=account.
func (h *SaleHandler) ListItems(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		response.Error(c, apperror.Validation("owner is required"))
		return
	}

	items, err := h.itemRepo.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toItemResponse(&items[i]))
	}
	response.OK(c, out)
}

// ListEvents handles GET /api/v1/events?limit=N.
func (h *SaleHandler) ListEvents(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Error(c, apperror.Validation("invalid limit"))
			return
		}
		limit = parsed
	}
	if limit > maxEventListLimit {
		limit = maxEventListLimit
	}

	events, err := h.eventRepo.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	out := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.EventResponse{
			ID:        e.ID.String(),
			Kind:      string(e.Kind),
			ItemID:    e.ItemID,
			Account:   e.Account,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	response.OK(c, out)
}
