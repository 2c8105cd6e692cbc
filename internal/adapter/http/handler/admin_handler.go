package handler

import (
	"collectible-sale-gateway/internal/adapter/http/dto"
	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports"
	"collectible-sale-gateway/pkg/apperror"
	"collectible-sale-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles sale administration endpoints.
type AdminHandler struct {
	adminSvc ports.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc ports.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// UpdateSale handles PUT /api/v1/admin/sale.
func (h *AdminHandler) UpdateSale(c *gin.Context) {
	caller, ok := callerUsername(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	sale, err := h.adminSvc.UpdateSale(c.Request.Context(), caller, domain.Sale{
		PresaleStart:   req.PresaleStart,
		PublicStart:    req.PublicStart,
		Price:          req.Price,
		PresalePrice:   req.PresalePrice,
		Allowance:      req.Allowance,
		MintRateLimit:  req.MintRateLimit,
		MaxSupply:      req.MaxSupply,
		RoyaltyAccount: req.RoyaltyAccount,
		RoyaltyBps:     req.RoyaltyBps,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SaleResponse{
		PresaleStart:   sale.PresaleStart,
		PublicStart:    sale.PublicStart,
		Price:          sale.Price,
		PresalePrice:   sale.PresalePrice,
		Allowance:      sale.Allowance,
		MintRateLimit:  sale.MintRateLimit,
		MaxSupply:      sale.MaxSupply,
		RoyaltyAccount: sale.RoyaltyAccount,
		RoyaltyBps:     sale.RoyaltyBps,
		UpdatedAt:      sale.UpdatedAt,
	})
}

// AddWhitelist handles POST /api/v1/admin/whitelist.
func (h *AdminHandler) AddWhitelist(c *gin.Context) {
	caller, ok := callerUsername(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WhitelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.adminSvc.AddWhitelist(c.Request.Context(), caller, req.Accounts, req.Allowance); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"accounts": len(req.Accounts), "allowance": req.Allowance})
}

// AddAdmin handles POST /api/v1/admin/admins.
func (h *AdminHandler) AddAdmin(c *gin.Context) {
	caller, ok := callerUsername(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.adminSvc.AddAdmin(c.Request.Context(), caller, req.Account); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"account": req.Account})
}

// RemoveAdmin handles DELETE /api/v1/admin/admins/:account.
func (h *AdminHandler) RemoveAdmin(c *gin.Context) {
	caller, ok := callerUsername(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	account := c.Param("account")
	if account == "" {
		response.Error(c, apperror.Validation("account is required"))
		return
	}

	if err := h.adminSvc.RemoveAdmin(c.Request.Context(), caller, account); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"account": account, "removed": true})
}

// ListAdmins handles GET /api/v1/admin/admins.
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	caller, ok := callerUsername(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	admins, err := h.adminSvc.ListAdmins(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.AdminResponse, 0, len(admins))
	for _, a := range admins {
		out = append(out, dto.AdminResponse{
			Account:   a.Account,
			AddedBy:   a.AddedBy,
			CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	response.OK(c, out)
}
