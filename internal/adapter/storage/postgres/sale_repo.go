package postgres

import (
	"context"
	"errors"
	"fmt"

	"collectible-sale-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// SaleRepo implements ports.SaleRepository over the single sale_config row.
type SaleRepo struct {
	pool Pool
}

// NewSaleRepo creates a new SaleRepo.
func NewSaleRepo(pool Pool) *SaleRepo {
	return &SaleRepo{pool: pool}
}

const saleColumns = `presale_start, public_start, price, presale_price, allowance,
		mint_rate_limit, max_supply, royalty_account, royalty_bps, updated_at`

func scanSale(row pgx.Row) (*domain.Sale, error) {
	s := &domain.Sale{}
	err := row.Scan(
		&s.PresaleStart, &s.PublicStart, &s.Price, &s.PresalePrice, &s.Allowance,
		&s.MintRateLimit, &s.MaxSupply, &s.RoyaltyAccount, &s.RoyaltyBps, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan sale config: %w", err)
	}
	return s, nil
}

// Get fetches the sale configuration (non-locking read).
func (r *SaleRepo) Get(ctx context.Context) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sale_config WHERE id = 1`
	return scanSale(r.pool.QueryRow(ctx, query))
}

// GetForUpdate fetches the sale configuration with pessimistic locking.
// The mint path locks this row first, serializing supply accounting.
func (r *SaleRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sale_config WHERE id = 1 FOR UPDATE`
	return scanSale(tx.QueryRow(ctx, query))
}

// Save overwrites the sale configuration within a transaction.
func (r *SaleRepo) Save(ctx context.Context, tx pgx.Tx, s *domain.Sale) error {
	query := `UPDATE sale_config SET presale_start = $1, public_start = $2, price = $3,
		presale_price = $4, allowance = $5, mint_rate_limit = $6, max_supply = $7,
		royalty_account = $8, royalty_bps = $9, updated_at = NOW()
		WHERE id = 1`

	tag, err := tx.Exec(ctx, query,
		s.PresaleStart, s.PublicStart, s.Price, s.PresalePrice, s.Allowance,
		s.MintRateLimit, s.MaxSupply, s.RoyaltyAccount, s.RoyaltyBps,
	)
	if err != nil {
		return fmt.Errorf("update sale config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sale config not bootstrapped")
	}
	return nil
}

// Bootstrap inserts the seed configuration if no row exists yet.
func (r *SaleRepo) Bootstrap(ctx context.Context, s *domain.Sale) error {
	query := `INSERT INTO sale_config (id, presale_start, public_start, price, presale_price,
		allowance, mint_rate_limit, max_supply, royalty_account, royalty_bps, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query,
		s.PresaleStart, s.PublicStart, s.Price, s.PresalePrice, s.Allowance,
		s.MintRateLimit, s.MaxSupply, s.RoyaltyAccount, s.RoyaltyBps,
	)
	if err != nil {
		return fmt.Errorf("bootstrap sale config: %w", err)
	}
	return nil
}
