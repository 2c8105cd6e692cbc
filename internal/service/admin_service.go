package service

import (
	"context"
	"fmt"
	"time"

	"collectible-sale-gateway/config"
	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports"
	"collectible-sale-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// AdminServiceImpl implements ports.AdminService. Every operation checks the
// caller against the configured owner, the backup owner and the admins table.
type AdminServiceImpl struct {
	saleRepo      ports.SaleRepository
	allowanceRepo ports.AllowanceRepository
	adminRepo     ports.AdminRepository
	transactor    ports.DBTransactor
	owner         config.OwnerConfig
	log           zerolog.Logger
}

// NewAdminService creates a new AdminServiceImpl.
func NewAdminService(
	saleRepo ports.SaleRepository,
	allowanceRepo ports.AllowanceRepository,
	adminRepo ports.AdminRepository,
	transactor ports.DBTransactor,
	owner config.OwnerConfig,
	log zerolog.Logger,
) *AdminServiceImpl {
	return &AdminServiceImpl{
		saleRepo:      saleRepo,
		allowanceRepo: allowanceRepo,
		adminRepo:     adminRepo,
		transactor:    transactor,
		owner:         owner,
		log:           log,
	}
}

// authorize verifies caller may administer the sale.
func (s *AdminServiceImpl) authorize(ctx context.Context, caller string) error {
	if caller == "" {
		return apperror.ErrUnauthorized()
	}
	if caller == s.owner.Account || caller == s.owner.BackupAccount {
		return nil
	}
	isAdmin, err := s.adminRepo.Exists(ctx, caller)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check admin: %w", err))
	}
	if !isAdmin {
		return apperror.ErrUnauthorized()
	}
	return nil
}

// UpdateSale replaces the sale configuration after validation.
func (s *AdminServiceImpl) UpdateSale(ctx context.Context, caller string, sale domain.Sale) (*domain.Sale, error) {
	if err := s.authorize(ctx, caller); err != nil {
		return nil, err
	}
	if err := sale.Validate(); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.saleRepo.Save(ctx, dbTx, &sale); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save sale config: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("caller", caller).Msg("sale configuration updated")
	return &sale, nil
}

// AddWhitelist grants (or raises) presale quota for the given accounts.
// Raise-only: an account that already earned a wider quota keeps it.
func (s *AdminServiceImpl) AddWhitelist(ctx context.Context, caller string, accounts []string, allowance int) error {
	if err := s.authorize(ctx, caller); err != nil {
		return err
	}
	if allowance <= 0 {
		return apperror.Validation("allowance must be positive")
	}
	if len(accounts) == 0 {
		return apperror.Validation("accounts must not be empty")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	for _, account := range accounts {
		a, err := s.allowanceRepo.GetForUpdate(ctx, dbTx, account)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock allowance: %w", err))
		}
		if a == nil {
			fresh := domain.NewAllowance(account, allowance)
			a = &fresh
		} else {
			raised := a.RaiseMax(allowance)
			a = &raised
		}
		if err := s.allowanceRepo.Upsert(ctx, dbTx, *a); err != nil {
			return apperror.InternalError(fmt.Errorf("upsert allowance: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("caller", caller).
		Int("accounts", len(accounts)).
		Int("allowance", allowance).
		Msg("whitelist updated")
	return nil
}

// AddAdmin records a new sale administrator.
func (s *AdminServiceImpl) AddAdmin(ctx context.Context, caller string, account string) error {
	if err := s.authorize(ctx, caller); err != nil {
		return err
	}
	if account == "" {
		return apperror.Validation("account must not be empty")
	}

	admin := domain.Admin{
		Account:   account,
		AddedBy:   caller,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.adminRepo.Add(ctx, admin); err != nil {
		return apperror.InternalError(fmt.Errorf("add admin: %w", err))
	}

	s.log.Info().Str("caller", caller).Str("account", account).Msg("admin added")
	return nil
}

// RemoveAdmin removes a sale administrator. The configured owner and backup
// owner are not stored in the table and cannot be removed.
func (s *AdminServiceImpl) RemoveAdmin(ctx context.Context, caller string, account string) error {
	if err := s.authorize(ctx, caller); err != nil {
		return err
	}

	if err := s.adminRepo.Remove(ctx, account); err != nil {
		return apperror.InternalError(fmt.Errorf("remove admin: %w", err))
	}

	s.log.Info().Str("caller", caller).Str("account", account).Msg("admin removed")
	return nil
}

// ListAdmins returns the capability table.
func (s *AdminServiceImpl) ListAdmins(ctx context.Context, caller string) ([]domain.Admin, error) {
	if err := s.authorize(ctx, caller); err != nil {
		return nil, err
	}

	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list admins: %w", err))
	}
	return admins, nil
}
