package handler

import (
	"collectible-sale-gateway/internal/adapter/http/dto"
	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports"
	"collectible-sale-gateway/pkg/apperror"
	"collectible-sale-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// VaultHandler handles escrow vault endpoints.
type VaultHandler struct {
	vaultSvc ports.VaultService
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(vaultSvc ports.VaultService) *VaultHandler {
	return &VaultHandler{vaultSvc: vaultSvc}
}

// Info handles GET /api/v1/vaults/:id.
func (h *VaultHandler) Info(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	vault, err := h.vaultSvc.Info(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toVaultResponse(vault))
}

// DepositBase handles POST /api/v1/vaults/:id/deposit.
func (h *VaultHandler) DepositBase(c *gin.Context) {
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

	var req dto.DepositBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.vaultSvc.DepositBase(c.Request.Context(), ports.DepositBaseRequest{
		ItemID:        itemID,
		Sender:        username,
		AttachedValue: req.AttachedValue,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.DepositResponse{
		Accepted: result.Accepted,
		Unused:   result.Unused,
	})
}

// OnAssetTransfer handles POST /api/v1/vaults/:id/transfers. The route is
// guarded by the HMAC notification middleware; the response carries the
// unused portion of the transfer (the full amount when nothing matched).
func (h *VaultHandler) OnAssetTransfer(c *gin.Context) {
	itemID, err := parseItemID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.TransferNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	unused, err := h.vaultSvc.OnAssetTransfer(c.Request.Context(), ports.TransferNotice{
		ItemID:        itemID,
		AssetContract: req.AssetContract,
		Sender:        req.Sender,
		Amount:        req.Amount,
		Msg:           req.Msg,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TransferNoticeResponse{Unused: unused})
}

// Release handles POST /api/v1/vaults/:id/release.
func (h *VaultHandler) Release(c *gin.Context) {
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

	var req dto.ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	claimant := req.Claimant
	if claimant == "" {
		claimant = username
	}

	result, err := h.vaultSvc.Release(c.Request.Context(), ports.ReleaseRequest{
		Caller:   username,
		ItemID:   itemID,
		Claimant: claimant,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	tokens := make([]dto.VaultDepositResponse, 0, len(result.TokensReleased))
	for _, t := range result.TokensReleased {
		tokens = append(tokens, toVaultDepositResponse(t))
	}
	response.OK(c, dto.ReleaseResponse{
		BaseReleased:   result.BaseReleased,
		TokensReleased: tokens,
	})
}

func toVaultDepositResponse(d domain.TokenDeposit) dto.VaultDepositResponse {
	return dto.VaultDepositResponse{
		AssetContract: d.AssetContract,
		Amount:        d.Amount,
		Confirmed:     d.Confirmed,
	}
}

func toVaultResponse(v *domain.Vault) dto.VaultResponse {
	deposits := make([]dto.VaultDepositResponse, 0, len(v.Deposits))
	for _, d := range v.Deposits {
		deposits = append(deposits, toVaultDepositResponse(d))
	}
	return dto.VaultResponse{
		ItemID:        v.ItemID,
		Owner:         v.Owner,
		BaseAmount:    v.BaseAmount,
		BaseConfirmed: v.BaseConfirmed,
		Deposits:      deposits,
		CreatedAt:     v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
