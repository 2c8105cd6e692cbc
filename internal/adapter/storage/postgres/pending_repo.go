package postgres

import (
	"context"
	"errors"
	"fmt"

	"collectible-sale-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PendingOpRepo implements ports.PendingOpRepository.
type PendingOpRepo struct {
	pool Pool
}

// NewPendingOpRepo creates a new PendingOpRepo.
func NewPendingOpRepo(pool Pool) *PendingOpRepo {
	return &PendingOpRepo{pool: pool}
}

// Create records an issued provisioning intent within a transaction.
func (r *PendingOpRepo) Create(ctx context.Context, tx pgx.Tx, op *domain.PendingOp) error {
	query := `INSERT INTO pending_ops (id, item_id, buyer, signer, refund_amount, quota_claimed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query, op.ID, op.ItemID, op.Buyer, op.Signer, op.RefundAmount, op.QuotaClaimed, op.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pending op: %w", err)
	}
	return nil
}

// Take atomically removes and returns the record. Returns nil, nil when the
// record was already cleared, guaranteeing exactly-once completion handling.
func (r *PendingOpRepo) Take(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PendingOp, error) {
	query := `DELETE FROM pending_ops WHERE id = $1
		RETURNING id, item_id, buyer, signer, refund_amount, quota_claimed, created_at`

	op := &domain.PendingOp{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&op.ID, &op.ItemID, &op.Buyer, &op.Signer, &op.RefundAmount, &op.QuotaClaimed, &op.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("take pending op: %w", err)
	}
	return op, nil
}
