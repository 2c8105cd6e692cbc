package postgres

import (
	"context"
	"errors"
	"fmt"

	"collectible-sale-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// VaultRepo implements ports.VaultRepository. A vault is one row in vaults
// plus its ordered declarations in vault_deposits.
type VaultRepo struct {
	pool Pool
}

// NewVaultRepo creates a new VaultRepo.
func NewVaultRepo(pool Pool) *VaultRepo {
	return &VaultRepo{pool: pool}
}

// Create inserts a vault and its declarations atomically.
func (r *VaultRepo) Create(ctx context.Context, v *domain.Vault) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin vault create: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `INSERT INTO vaults (item_id, owner, base_amount, base_confirmed, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(ctx, query, v.ItemID, v.Owner, v.BaseAmount, v.BaseConfirmed, v.CreatedAt); err != nil {
		return fmt.Errorf("insert vault: %w", err)
	}

	depositQuery := `INSERT INTO vault_deposits (item_id, idx, asset_contract, amount, confirmed)
		VALUES ($1, $2, $3, $4, $5)`
	for i, d := range v.Deposits {
		if _, err := tx.Exec(ctx, depositQuery, v.ItemID, i, d.AssetContract, d.Amount, d.Confirmed); err != nil {
			return fmt.Errorf("insert vault deposit: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit vault create: %w", err)
	}
	return nil
}

func (r *VaultRepo) loadDeposits(ctx context.Context, q interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, itemID int64) ([]domain.TokenDeposit, error) {
	rows, err := q.Query(ctx,
		`SELECT asset_contract, amount, confirmed FROM vault_deposits WHERE item_id = $1 ORDER BY idx`,
		itemID)
	if err != nil {
		return nil, fmt.Errorf("query vault deposits: %w", err)
	}
	defer rows.Close()

	var deposits []domain.TokenDeposit
	for rows.Next() {
		var d domain.TokenDeposit
		if err := rows.Scan(&d.AssetContract, &d.Amount, &d.Confirmed); err != nil {
			return nil, fmt.Errorf("scan vault deposit: %w", err)
		}
		deposits = append(deposits, d)
	}
	return deposits, rows.Err()
}

// GetByItemID fetches a vault with its declarations (non-locking read).
func (r *VaultRepo) GetByItemID(ctx context.Context, itemID int64) (*domain.Vault, error) {
	query := `SELECT item_id, owner, base_amount, base_confirmed, created_at
		FROM vaults WHERE item_id = $1`

	v := &domain.Vault{}
	err := r.pool.QueryRow(ctx, query, itemID).Scan(
		&v.ItemID, &v.Owner, &v.BaseAmount, &v.BaseConfirmed, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vault: %w", err)
	}

	if v.Deposits, err = r.loadDeposits(ctx, r.pool, itemID); err != nil {
		return nil, err
	}
	return v, nil
}

// GetByItemIDForUpdate fetches a vault with pessimistic locking. Locking the
// vaults row serializes all deposit confirmations and the release.
func (r *VaultRepo) GetByItemIDForUpdate(ctx context.Context, tx pgx.Tx, itemID int64) (*domain.Vault, error) {
	query := `SELECT item_id, owner, base_amount, base_confirmed, created_at
		FROM vaults WHERE item_id = $1 FOR UPDATE`

	v := &domain.Vault{}
	err := tx.QueryRow(ctx, query, itemID).Scan(
		&v.ItemID, &v.Owner, &v.BaseAmount, &v.BaseConfirmed, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vault for update: %w", err)
	}

	if v.Deposits, err = r.loadDeposits(ctx, tx, itemID); err != nil {
		return nil, err
	}
	return v, nil
}

// SetBaseConfirmed updates the base deposit's confirmed flag.
func (r *VaultRepo) SetBaseConfirmed(ctx context.Context, tx pgx.Tx, itemID int64, confirmed bool) error {
	tag, err := tx.Exec(ctx, `UPDATE vaults SET base_confirmed = $1 WHERE item_id = $2`, confirmed, itemID)
	if err != nil {
		return fmt.Errorf("set base confirmed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vault not found: %d", itemID)
	}
	return nil
}

// SetDepositConfirmed updates one declaration's confirmed flag.
func (r *VaultRepo) SetDepositConfirmed(ctx context.Context, tx pgx.Tx, itemID int64, index int, confirmed bool) error {
	tag, err := tx.Exec(ctx,
		`UPDATE vault_deposits SET confirmed = $1 WHERE item_id = $2 AND idx = $3`,
		confirmed, itemID, index)
	if err != nil {
		return fmt.Errorf("set deposit confirmed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vault deposit not found: %d[%d]", itemID, index)
	}
	return nil
}

// Delete removes a vault and its declarations within a transaction.
func (r *VaultRepo) Delete(ctx context.Context, tx pgx.Tx, itemID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM vault_deposits WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete vault deposits: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM vaults WHERE item_id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete vault: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vault not found: %d", itemID)
	}
	return nil
}
