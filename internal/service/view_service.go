package service

import (
	"context"
	"fmt"
	"time"

	"collectible-sale-gateway/config"
	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports"
	"collectible-sale-gateway/pkg/apperror"
)

// ViewServiceImpl implements ports.ViewService, the read side of the sale.
type ViewServiceImpl struct {
	saleRepo      ports.SaleRepository
	allowanceRepo ports.AllowanceRepository
	itemRepo      ports.ItemRepository
	owner         config.OwnerConfig
}

// NewViewService creates a new ViewServiceImpl.
func NewViewService(
	saleRepo ports.SaleRepository,
	allowanceRepo ports.AllowanceRepository,
	itemRepo ports.ItemRepository,
	owner config.OwnerConfig,
) *ViewServiceImpl {
	return &ViewServiceImpl{
		saleRepo:      saleRepo,
		allowanceRepo: allowanceRepo,
		itemRepo:      itemRepo,
		owner:         owner,
	}
}

func (s *ViewServiceImpl) sale(ctx context.Context) (*domain.Sale, error) {
	sale, err := s.saleRepo.Get(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get sale config: %w", err))
	}
	if sale == nil {
		return nil, apperror.ErrNotMintable("sale is not configured")
	}
	return sale, nil
}

// Status resolves the current phase including the sold-out overlay.
func (s *ViewServiceImpl) Status(ctx context.Context) (domain.Phase, error) {
	sale, err := s.sale(ctx)
	if err != nil {
		return "", err
	}
	minted, err := s.itemRepo.Count(ctx)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("count items: %w", err))
	}
	return sale.Status(time.Now().UTC(), minted), nil
}

// CostPerUnit returns the price of one item for minter. Owner mints are free.
func (s *ViewServiceImpl) CostPerUnit(ctx context.Context, minter string) (int64, error) {
	if minter != "" && (minter == s.owner.Account || minter == s.owner.BackupAccount) {
		return 0, nil
	}
	sale, err := s.sale(ctx)
	if err != nil {
		return 0, err
	}
	phase := domain.CurrentPhase(time.Now().UTC(), sale.PresaleStart, sale.PublicStart)
	return sale.UnitPrice(phase), nil
}

// TotalCost returns the cost of num items for minter.
func (s *ViewServiceImpl) TotalCost(ctx context.Context, num int, minter string) (int64, error) {
	if num < 0 {
		return 0, apperror.Validation("num must not be negative")
	}
	unit, err := s.CostPerUnit(ctx, minter)
	if err != nil {
		return 0, err
	}
	return int64(num) * unit, nil
}

// RemainingAllowance returns the quota left for account, or nil when the
// account is unrestricted in the current phase.
func (s *ViewServiceImpl) RemainingAllowance(ctx context.Context, account string) (*int, error) {
	if account != "" && (account == s.owner.Account || account == s.owner.BackupAccount) {
		return nil, nil
	}

	sale, err := s.sale(ctx)
	if err != nil {
		return nil, err
	}

	a, err := s.allowanceRepo.Get(ctx, account)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get allowance: %w", err))
	}

	phase := domain.CurrentPhase(time.Now().UTC(), sale.PresaleStart, sale.PublicStart)
	switch phase {
	case domain.PhaseOpen:
		if sale.Allowance == nil {
			return nil, nil
		}
		cap := *sale.Allowance
		if a == nil {
			return &cap, nil
		}
		widened := a.RaiseMax(cap)
		left := widened.Left()
		return &left, nil
	default:
		// Presale and closed phases never grant implicit quota.
		left := 0
		if a != nil {
			left = a.Left()
		}
		return &left, nil
	}
}

// MintRateLimit returns the per-request quantity cap, nil for unlimited.
func (s *ViewServiceImpl) MintRateLimit(ctx context.Context) (*int, error) {
	sale, err := s.sale(ctx)
	if err != nil {
		return nil, err
	}
	return sale.MintRateLimit, nil
}

// Supply returns the minted count and the configured cap (nil = unlimited).
func (s *ViewServiceImpl) Supply(ctx context.Context) (int64, *int64, error) {
	sale, err := s.sale(ctx)
	if err != nil {
		return 0, nil, err
	}
	minted, err := s.itemRepo.Count(ctx)
	if err != nil {
		return 0, nil, apperror.InternalError(fmt.Errorf("count items: %w", err))
	}
	return minted, sale.MaxSupply, nil
}
