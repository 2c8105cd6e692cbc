package postgres

import (
	"context"
	"fmt"

	"collectible-sale-gateway/internal/core/domain"
)

// AdminRepo implements ports.AdminRepository, the capability table of sale
// administrators.
type AdminRepo struct {
	pool Pool
}

// NewAdminRepo creates a new AdminRepo.
func NewAdminRepo(pool Pool) *AdminRepo {
	return &AdminRepo{pool: pool}
}

// Add records an administrator. Re-adding is a no-op.
func (r *AdminRepo) Add(ctx context.Context, a domain.Admin) error {
	query := `INSERT INTO admins (account, added_by, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, a.Account, a.AddedBy, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

// Remove deletes an administrator.
func (r *AdminRepo) Remove(ctx context.Context, account string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM admins WHERE account = $1`, account)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	return nil
}

// Exists reports whether account is an administrator.
func (r *AdminRepo) Exists(ctx context.Context, account string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins WHERE account = $1)`, account).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check admin exists: %w", err)
	}
	return exists, nil
}

// List returns all administrators.
func (r *AdminRepo) List(ctx context.Context) ([]domain.Admin, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT account, added_by, created_at FROM admins ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []domain.Admin
	for rows.Next() {
		var a domain.Admin
		if err := rows.Scan(&a.Account, &a.AddedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}
