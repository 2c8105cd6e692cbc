package service

import (
	"context"
	"fmt"
	"time"

	"collectible-sale-gateway/config"
	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports"
	"collectible-sale-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// VaultServiceImpl implements ports.VaultService. All state transitions lock
// the vault row first, so deposits, matches and the release are serialized
// per vault.
type VaultServiceImpl struct {
	vaultRepo  ports.VaultRepository
	eventRepo  ports.EventRepository
	gateway    ports.AssetGateway
	transactor ports.DBTransactor
	cfg        config.VaultConfig
	log        zerolog.Logger
}

// NewVaultService creates a new VaultServiceImpl.
func NewVaultService(
	vaultRepo ports.VaultRepository,
	eventRepo ports.EventRepository,
	gateway ports.AssetGateway,
	transactor ports.DBTransactor,
	cfg config.VaultConfig,
	log zerolog.Logger,
) *VaultServiceImpl {
	return &VaultServiceImpl{
		vaultRepo:  vaultRepo,
		eventRepo:  eventRepo,
		gateway:    gateway,
		transactor: transactor,
		cfg:        cfg,
		log:        log,
	}
}

// Provision seeds a vault for a freshly minted item. Every declaration starts
// unconfirmed regardless of what the caller sent.
func (s *VaultServiceImpl) Provision(ctx context.Context, req ports.ProvisionRequest) error {
	vault, err := domain.NewVault(req.ItemID, req.Owner, req.BaseAmount, req.Deposits, time.Now().UTC())
	if err != nil {
		return err
	}

	if err := s.vaultRepo.Create(ctx, vault); err != nil {
		return apperror.InternalError(fmt.Errorf("create vault: %w", err))
	}

	s.log.Info().
		Int64("item_id", req.ItemID).
		Str("owner", req.Owner).
		Int64("base_amount", req.BaseAmount).
		Int("declarations", len(req.Deposits)).
		Msg("vault provisioned")

	return nil
}

// Info returns the vault state for an item.
func (s *VaultServiceImpl) Info(ctx context.Context, itemID int64) (*domain.Vault, error) {
	vault, err := s.vaultRepo.GetByItemID(ctx, itemID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get vault: %w", err))
	}
	if vault == nil {
		return nil, apperror.ErrVaultNotFound()
	}
	return vault, nil
}

// DepositBase accepts a base-currency deposit against the vault. The attached
// value must equal the declared base amount plus the fee skim exactly; any
// other amount is reported unaccepted with the whole value unused, so the
// sender can retry with the right amount.
func (s *VaultServiceImpl) DepositBase(ctx context.Context, req ports.DepositBaseRequest) (*ports.DepositResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	vault, err := s.vaultRepo.GetByItemIDForUpdate(ctx, dbTx, req.ItemID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock vault: %w", err))
	}
	if vault == nil {
		return nil, apperror.ErrVaultNotFound()
	}

	fee, ok := vault.ConfirmBase(req.AttachedValue, s.cfg.FeeBps)
	if !ok {
		return &ports.DepositResult{Accepted: false, Unused: req.AttachedValue}, nil
	}

	if err := s.vaultRepo.SetBaseConfirmed(ctx, dbTx, req.ItemID, true); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("confirm base deposit: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.forwardFee(ctx, "", fee, req.ItemID)

	s.log.Info().
		Int64("item_id", req.ItemID).
		Str("sender", req.Sender).
		Int64("amount", vault.BaseAmount).
		Int64("fee", fee).
		Msg("base deposit confirmed")

	return &ports.DepositResult{Accepted: true, Unused: 0}, nil
}

// OnAssetTransfer handles an inbound fungible-asset transfer notification.
// Returns the unused amount: 0 when the transfer matched a declaration, the
// full amount otherwise.
func (s *VaultServiceImpl) OnAssetTransfer(ctx context.Context, notice ports.TransferNotice) (int64, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	vault, err := s.vaultRepo.GetByItemIDForUpdate(ctx, dbTx, notice.ItemID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock vault: %w", err))
	}
	if vault == nil {
		return 0, apperror.ErrVaultNotFound()
	}

	idx, fee, ok := vault.MatchTokenDeposit(notice.AssetContract, notice.Amount, s.cfg.FeeBps)
	if !ok {
		s.log.Debug().
			Int64("item_id", notice.ItemID).
			Str("asset_contract", notice.AssetContract).
			Int64("amount", notice.Amount).
			Msg("asset transfer did not match a declaration, returning unused")
		return notice.Amount, nil
	}

	if err := s.vaultRepo.SetDepositConfirmed(ctx, dbTx, notice.ItemID, idx, true); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("confirm token deposit: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.forwardFee(ctx, notice.AssetContract, fee, notice.ItemID)

	s.log.Info().
		Int64("item_id", notice.ItemID).
		Str("asset_contract", notice.AssetContract).
		Str("sender", notice.Sender).
		Int64("amount", notice.Amount).
		Int64("fee", fee).
		Msg("token deposit confirmed")

	return 0, nil
}

// Release settles the vault to the claimant. State is cleared and the vault
// row deleted in one transaction before any transfer is dispatched, so a
// concurrent or repeated release observes VaultNotFound instead of paying
// twice. Transfers themselves are best-effort.
func (s *VaultServiceImpl) Release(ctx context.Context, req ports.ReleaseRequest) (*ports.ReleaseResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	vault, err := s.vaultRepo.GetByItemIDForUpdate(ctx, dbTx, req.ItemID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock vault: %w", err))
	}
	if vault == nil {
		return nil, apperror.ErrVaultNotFound()
	}
	if vault.Owner != req.Caller {
		return nil, apperror.ErrUnauthorized()
	}

	if s.cfg.RequireFullConfirmation && !vault.AllConfirmed() {
		return nil, apperror.ErrVaultIncomplete()
	}

	base, tokens := vault.ConfirmedHoldings()

	if err := s.vaultRepo.Delete(ctx, dbTx, req.ItemID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("delete vault: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	memo := fmt.Sprintf("vault release for item %d", req.ItemID)
	if base > 0 {
		if err := s.gateway.TransferBase(ctx, req.Claimant, base, memo); err != nil {
			s.log.Error().Err(err).
				Int64("item_id", req.ItemID).
				Int64("amount", base).
				Msg("release: base transfer failed")
		}
	}
	for _, t := range tokens {
		if err := s.gateway.TransferToken(ctx, t.AssetContract, req.Claimant, t.Amount, memo); err != nil {
			s.log.Error().Err(err).
				Int64("item_id", req.ItemID).
				Str("asset_contract", t.AssetContract).
				Int64("amount", t.Amount).
				Msg("release: token transfer failed")
		}
	}

	e := &domain.SaleEvent{
		ID:        uuid.New(),
		Kind:      domain.EventRelease,
		ItemID:    &req.ItemID,
		Account:   req.Claimant,
		Payload:   fmt.Sprintf(`{"base":%d,"tokens":%d}`, base, len(tokens)),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Warn().Err(err).Int64("item_id", req.ItemID).Msg("failed to append release event")
	}

	s.log.Info().
		Int64("item_id", req.ItemID).
		Str("claimant", req.Claimant).
		Int64("base_released", base).
		Int("tokens_released", len(tokens)).
		Msg("vault released")

	return &ports.ReleaseResult{BaseReleased: base, TokensReleased: tokens}, nil
}

// forwardFee sends a confirmed deposit's fee skim to the fee recipient.
// Best-effort: a failed forward never unwinds the confirmation.
func (s *VaultServiceImpl) forwardFee(ctx context.Context, assetContract string, fee int64, itemID int64) {
	if fee <= 0 || s.cfg.FeeRecipient == "" {
		return
	}

	memo := fmt.Sprintf("deposit fee for item %d", itemID)
	var err error
	if assetContract == "" {
		err = s.gateway.TransferBase(ctx, s.cfg.FeeRecipient, fee, memo)
	} else {
		err = s.gateway.TransferToken(ctx, assetContract, s.cfg.FeeRecipient, fee, memo)
	}
	if err != nil {
		s.log.Error().Err(err).
			Int64("item_id", itemID).
			Int64("fee", fee).
			Msg("fee forward failed")
	}
}
