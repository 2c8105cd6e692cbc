package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"collectible-sale-gateway/config"
	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports"
	"collectible-sale-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const (
	receiptTTL = 24 * time.Hour

	// provisionTimeout bounds one async vault provisioning attempt plus its
	// completion bookkeeping.
	provisionTimeout = 30 * time.Second
)

// MintServiceImpl implements ports.MintService. Admission, pricing, item
// creation and quota debit happen in one database transaction; vault
// provisioning is dispatched asynchronously and compensated through the
// pending-op table when it fails.
type MintServiceImpl struct {
	saleRepo      ports.SaleRepository
	allowanceRepo ports.AllowanceRepository
	itemRepo      ports.ItemRepository
	pendingRepo   ports.PendingOpRepository
	eventRepo     ports.EventRepository
	vaults        ports.VaultService
	gateway       ports.AssetGateway
	listings      ports.ListingRegistry
	receipts      ports.ReceiptCache
	transactor    ports.DBTransactor
	owner         config.OwnerConfig
	vaultCfg      config.VaultConfig
	log           zerolog.Logger
}

// NewMintService creates a new MintServiceImpl.
func NewMintService(
	saleRepo ports.SaleRepository,
	allowanceRepo ports.AllowanceRepository,
	itemRepo ports.ItemRepository,
	pendingRepo ports.PendingOpRepository,
	eventRepo ports.EventRepository,
	vaults ports.VaultService,
	gateway ports.AssetGateway,
	listings ports.ListingRegistry,
	receipts ports.ReceiptCache,
	transactor ports.DBTransactor,
	owner config.OwnerConfig,
	vaultCfg config.VaultConfig,
	log zerolog.Logger,
) *MintServiceImpl {
	return &MintServiceImpl{
		saleRepo:      saleRepo,
		allowanceRepo: allowanceRepo,
		itemRepo:      itemRepo,
		pendingRepo:   pendingRepo,
		eventRepo:     eventRepo,
		vaults:        vaults,
		gateway:       gateway,
		listings:      listings,
		receipts:      receipts,
		transactor:    transactor,
		owner:         owner,
		vaultCfg:      vaultCfg,
		log:           log,
	}
}

// isOwner reports whether account is the sale owner or the backup owner.
// Both mint free of charge and without quota.
func (s *MintServiceImpl) isOwner(account string) bool {
	return account != "" && (account == s.owner.Account || account == s.owner.BackupAccount)
}

// Mint admits the buyer, creates the items and seeds their vaults.
func (s *MintServiceImpl) Mint(ctx context.Context, req ports.MintRequest) (*ports.MintResult, error) {
	if req.Quantity < 1 {
		return nil, apperror.Validation("quantity must be at least 1")
	}

	// Best-effort idempotency: a retried reference replays the receipt.
	receiptKey := ""
	if req.ReferenceID != "" {
		receiptKey = req.Buyer + ":" + req.ReferenceID
		cached, err := s.receipts.Get(ctx, receiptKey)
		if err != nil {
			s.log.Warn().Err(err).Str("key", receiptKey).Msg("receipt cache check failed, continuing")
		}
		if cached != nil {
			result := &ports.MintResult{}
			if err := json.Unmarshal(cached, result); err != nil {
				return nil, apperror.InternalError(fmt.Errorf("unmarshal cached receipt: %w", err))
			}
			return result, nil
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Locking the sale row serializes every mint, so the supply check and
	// the id sequence stay consistent without further coordination.
	sale, err := s.saleRepo.GetForUpdate(ctx, dbTx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock sale config: %w", err))
	}
	if sale == nil {
		return nil, apperror.ErrNotMintable("sale is not configured")
	}

	if sale.MintRateLimit != nil && req.Quantity > *sale.MintRateLimit {
		return nil, apperror.ErrRateLimitExceeded(*sale.MintRateLimit)
	}

	minted, err := s.itemRepo.Count(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("count items: %w", err))
	}

	now := time.Now().UTC()
	phase := sale.Status(now, minted)
	if phase == domain.PhaseSoldOut {
		return nil, apperror.ErrNotMintable("supply is exhausted")
	}
	if sale.MaxSupply != nil && minted+int64(req.Quantity) > *sale.MaxSupply {
		return nil, apperror.ErrNotMintable("requested quantity exceeds remaining supply")
	}

	owner := s.isOwner(req.Buyer)
	num := req.Quantity
	var allowance *domain.Allowance

	if !owner {
		num, allowance, err = s.admit(ctx, dbTx, sale, req.Buyer, phase, req.Quantity)
		if err != nil {
			return nil, err
		}
	}

	unitPrice := int64(0)
	if !owner {
		unitPrice = sale.UnitPrice(phase)
	}
	unitSlice := unitPrice + s.vaultCfg.ProvisionDeposit
	required := int64(num) * unitSlice
	if req.AttachedValue < required {
		return nil, apperror.ErrInsufficientDeposit(required)
	}

	items := make([]domain.Item, 0, num)
	opIDs := make([]uuid.UUID, 0, num)
	for i := 0; i < num; i++ {
		id, err := s.itemRepo.NextID(ctx, dbTx)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("allocate item id: %w", err))
		}

		item := domain.NewItem(id, req.Buyer, now)
		if err := s.itemRepo.Create(ctx, dbTx, item); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create item: %w", err))
		}

		op := &domain.PendingOp{
			ID:           uuid.New(),
			ItemID:       id,
			Buyer:        req.Buyer,
			Signer:       req.Signer,
			RefundAmount: unitSlice,
			QuotaClaimed: allowance != nil,
			CreatedAt:    now,
		}
		if err := s.pendingRepo.Create(ctx, dbTx, op); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("record pending op: %w", err))
		}

		items = append(items, *item)
		opIDs = append(opIDs, op.ID)
	}

	if allowance != nil {
		if err := allowance.UseNum(num); err != nil {
			return nil, err
		}
		if err := s.allowanceRepo.Upsert(ctx, dbTx, *allowance); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("debit allowance: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Vault provisioning runs after the mint commits. Each failure is
	// compensated through its pending op: quota rollback + signer refund.
	for i := range items {
		go s.provisionVault(opIDs[i], items[i], req.BaseEscrow, req.Deposits)
	}

	result := &ports.MintResult{Items: items, Quantity: num}

	if receiptKey != "" {
		if data, err := json.Marshal(result); err == nil {
			if err := s.receipts.Set(ctx, receiptKey, data, receiptTTL); err != nil {
				s.log.Warn().Err(err).Str("key", receiptKey).Msg("failed to cache mint receipt")
			}
		}
	}

	s.appendEvent(ctx, domain.EventMint, &items[0].ID, req.Buyer, fmt.Sprintf(`{"quantity":%d}`, num))

	s.log.Info().
		Str("buyer", req.Buyer).
		Int("quantity", num).
		Int64("first_item", items[0].ID).
		Str("phase", string(phase)).
		Msg("mint processed")

	return result, nil
}

// admit resolves the buyer's admissible quantity for the phase. Presale never
// creates quota; the open phase widens (or creates) quota up to the public cap.
func (s *MintServiceImpl) admit(ctx context.Context, dbTx pgx.Tx, sale *domain.Sale, buyer string, phase domain.Phase, qty int) (int, *domain.Allowance, error) {
	switch phase {
	case domain.PhaseClosed:
		return 0, nil, apperror.ErrNotMintable("sale has not started")

	case domain.PhasePresale:
		a, err := s.allowanceRepo.GetForUpdate(ctx, dbTx, buyer)
		if err != nil {
			return 0, nil, apperror.InternalError(fmt.Errorf("lock allowance: %w", err))
		}
		if a == nil || a.Left() == 0 {
			return 0, nil, apperror.ErrNoAllowanceLeft()
		}
		num := qty
		if num > a.Left() {
			num = a.Left()
		}
		return num, a, nil

	default: // PhaseOpen
		if sale.Allowance == nil {
			return qty, nil, nil
		}
		a, err := s.allowanceRepo.GetForUpdate(ctx, dbTx, buyer)
		if err != nil {
			return 0, nil, apperror.InternalError(fmt.Errorf("lock allowance: %w", err))
		}
		if a == nil {
			fresh := domain.NewAllowance(buyer, *sale.Allowance)
			a = &fresh
		} else {
			raised := a.RaiseMax(*sale.Allowance)
			a = &raised
		}
		if a.Left() == 0 {
			return 0, nil, apperror.ErrNoAllowanceLeft()
		}
		num := qty
		if num > a.Left() {
			num = a.Left()
		}
		return num, a, nil
	}
}

// provisionVault runs one async vault provisioning and resolves its pending
// op. The op record is consumed exactly once; a failed provisioning rolls the
// claimed quota back and refunds the unit slice to the signer.
func (s *MintServiceImpl) provisionVault(opID uuid.UUID, item domain.Item, baseEscrow int64, deposits []domain.TokenDeposit) {
	ctx, cancel := context.WithTimeout(context.Background(), provisionTimeout)
	defer cancel()

	provErr := s.vaults.Provision(ctx, ports.ProvisionRequest{
		ItemID:     item.ID,
		Owner:      item.Owner,
		BaseAmount: baseEscrow,
		Deposits:   deposits,
	})

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		s.log.Error().Err(err).Int64("item_id", item.ID).Msg("provision resolution: begin tx failed")
		return
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	op, err := s.pendingRepo.Take(ctx, dbTx, opID)
	if err != nil {
		s.log.Error().Err(err).Int64("item_id", item.ID).Msg("provision resolution: take pending op failed")
		return
	}
	if op == nil {
		// Already resolved.
		return
	}

	if provErr == nil {
		if err := dbTx.Commit(ctx); err != nil {
			s.log.Error().Err(err).Int64("item_id", item.ID).Msg("provision resolution: commit failed")
		}
		return
	}

	s.log.Warn().Err(provErr).
		Int64("item_id", item.ID).
		Str("buyer", op.Buyer).
		Msg("vault provisioning failed, compensating")

	// Roll back the claimed quota, but only when this unit actually debited
	// it. An uncapped open mint claims none, and the buyer may still hold an
	// unrelated presale allowance that must not be credited here.
	if op.QuotaClaimed {
		a, err := s.allowanceRepo.GetForUpdate(ctx, dbTx, op.Buyer)
		if err != nil {
			s.log.Error().Err(err).Str("buyer", op.Buyer).Msg("compensation: lock allowance failed")
			return
		}
		if a != nil {
			a.Rollback(1)
			if err := s.allowanceRepo.Upsert(ctx, dbTx, *a); err != nil {
				s.log.Error().Err(err).Str("buyer", op.Buyer).Msg("compensation: quota rollback failed")
				return
			}
		}
	}

	if err := s.itemRepo.Delete(ctx, dbTx, op.ItemID); err != nil {
		s.log.Error().Err(err).Int64("item_id", op.ItemID).Msg("compensation: item removal failed")
		return
	}

	if err := dbTx.Commit(ctx); err != nil {
		s.log.Error().Err(err).Int64("item_id", op.ItemID).Msg("compensation: commit failed")
		return
	}

	// Refund after the compensation committed. The refund itself is
	// best-effort; the event trail records it either way.
	if err := s.gateway.TransferBase(ctx, op.Signer, op.RefundAmount, fmt.Sprintf("mint refund for item %d", op.ItemID)); err != nil {
		s.log.Error().Err(err).
			Str("signer", op.Signer).
			Int64("amount", op.RefundAmount).
			Msg("compensation: refund transfer failed")
	}

	s.appendEvent(ctx, domain.EventRefund, &op.ItemID, op.Signer, fmt.Sprintf(`{"amount":%d}`, op.RefundAmount))
}

// Burn destroys an owned item and asks its vault to settle to the burner.
func (s *MintServiceImpl) Burn(ctx context.Context, req ports.BurnRequest) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	item, err := s.itemRepo.GetByIDForUpdate(ctx, dbTx, req.ItemID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock item: %w", err))
	}
	if item == nil {
		return apperror.ErrItemNotFound()
	}
	if !item.OwnedBy(req.Caller) {
		return apperror.ErrUnauthorized()
	}

	if err := s.itemRepo.Delete(ctx, dbTx, req.ItemID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete item: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.appendEvent(ctx, domain.EventBurn, &req.ItemID, req.Caller, "")

	s.log.Info().
		Int64("item_id", req.ItemID).
		Str("owner", req.Caller).
		Msg("item burned")

	// The vault settles to the burner asynchronously. A missing vault means
	// there is nothing to unwind.
	go func() {
		relCtx, cancel := context.WithTimeout(context.Background(), provisionTimeout)
		defer cancel()

		_, err := s.vaults.Release(relCtx, ports.ReleaseRequest{
			Caller:   req.Caller,
			ItemID:   req.ItemID,
			Claimant: req.Caller,
		})
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Code == "VAULT_003" {
				return
			}
			s.log.Error().Err(err).Int64("item_id", req.ItemID).Msg("burn: vault release failed")
		}
	}()

	return nil
}

// ApproveListing bumps the item's approval id and notifies the marketplace.
func (s *MintServiceImpl) ApproveListing(ctx context.Context, req ports.ApproveRequest) (*domain.Item, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	item, err := s.itemRepo.GetByIDForUpdate(ctx, dbTx, req.ItemID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock item: %w", err))
	}
	if item == nil {
		return nil, apperror.ErrItemNotFound()
	}
	if !item.OwnedBy(req.Caller) {
		return nil, apperror.ErrUnauthorized()
	}

	approvalID, err := s.itemRepo.BumpApproval(ctx, dbTx, req.ItemID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("bump approval: %w", err))
	}
	item.ApprovalID = approvalID

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if err := s.listings.NotifyApproval(ctx, ports.ListingApproval{
		ItemID:     item.ID,
		Owner:      item.Owner,
		ApprovalID: approvalID,
		SaleTerms:  req.SaleTerms,
	}); err != nil {
		s.log.Warn().Err(err).Int64("item_id", item.ID).Msg("listing registry notification failed")
	}

	s.appendEvent(ctx, domain.EventListing, &item.ID, item.Owner, req.SaleTerms)

	return item, nil
}

// appendEvent records a sale event, best-effort.
func (s *MintServiceImpl) appendEvent(ctx context.Context, kind domain.EventKind, itemID *int64, account, payload string) {
	e := &domain.SaleEvent{
		ID:        uuid.New(),
		Kind:      kind,
		ItemID:    itemID,
		Account:   account,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to append sale event")
	}
}
