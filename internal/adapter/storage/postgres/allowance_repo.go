package postgres

import (
	"context"
	"errors"
	"fmt"

	"collectible-sale-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AllowanceRepo implements ports.AllowanceRepository.
type AllowanceRepo struct {
	pool Pool
}

// NewAllowanceRepo creates a new AllowanceRepo.
func NewAllowanceRepo(pool Pool) *AllowanceRepo {
	return &AllowanceRepo{pool: pool}
}

// Get fetches an account's allowance (non-locking read).
// Returns nil, nil when the account has no allowance record.
func (r *AllowanceRepo) Get(ctx context.Context, account string) (*domain.Allowance, error) {
	query := `SELECT account, claimed, max_allowed FROM allowances WHERE account = $1`

	a := &domain.Allowance{}
	err := r.pool.QueryRow(ctx, query, account).Scan(&a.Account, &a.Claimed, &a.Max)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allowance: %w", err)
	}
	return a, nil
}

// GetForUpdate fetches an account's allowance with pessimistic locking.
// This MUST be called within a transaction.
func (r *AllowanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, account string) (*domain.Allowance, error) {
	query := `SELECT account, claimed, max_allowed FROM allowances WHERE account = $1 FOR UPDATE`

	a := &domain.Allowance{}
	err := tx.QueryRow(ctx, query, account).Scan(&a.Account, &a.Claimed, &a.Max)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allowance for update: %w", err)
	}
	return a, nil
}

// Upsert writes an allowance within a transaction.
func (r *AllowanceRepo) Upsert(ctx context.Context, tx pgx.Tx, a domain.Allowance) error {
	query := `INSERT INTO allowances (account, claimed, max_allowed)
		VALUES ($1, $2, $3)
		ON CONFLICT (account) DO UPDATE SET claimed = $2, max_allowed = $3`

	_, err := tx.Exec(ctx, query, a.Account, a.Claimed, a.Max)
	if err != nil {
		return fmt.Errorf("upsert allowance: %w", err)
	}
	return nil
}
