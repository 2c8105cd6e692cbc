package postgres

import (
	"context"
	"errors"
	"fmt"

	"collectible-sale-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ItemRepo implements ports.ItemRepository.
type ItemRepo struct {
	pool Pool
}

// NewItemRepo creates a new ItemRepo.
func NewItemRepo(pool Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

// NextID allocates the next item identifier from the sequence.
// Sequence values are never reused, including across burns.
func (r *ItemRepo) NextID(ctx context.Context, tx pgx.Tx) (int64, error) {
	var id int64
	if err := tx.QueryRow(ctx, `SELECT nextval('item_id_seq')`).Scan(&id); err != nil {
		return 0, fmt.Errorf("next item id: %w", err)
	}
	return id, nil
}

// Create inserts a new item within a transaction.
func (r *ItemRepo) Create(ctx context.Context, tx pgx.Tx, item *domain.Item) error {
	query := `INSERT INTO items (id, owner, title, media, issued_at, approval_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		item.ID, item.Owner, item.Title, item.Media,
		item.IssuedAt, item.ApprovalID, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

const itemColumns = `id, owner, title, media, issued_at, approval_id, created_at`

func scanItem(row pgx.Row) (*domain.Item, error) {
	i := &domain.Item{}
	err := row.Scan(&i.ID, &i.Owner, &i.Title, &i.Media, &i.IssuedAt, &i.ApprovalID, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return i, nil
}

// GetByID fetches an item (non-locking read).
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return scanItem(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches an item with pessimistic locking.
func (r *ItemRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return scanItem(tx.QueryRow(ctx, query, id))
}

// Delete removes an item within a transaction.
func (r *ItemRepo) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item not found: %d", id)
	}
	return nil
}

// Count returns the number of existing items.
func (r *ItemRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// ListByOwner returns the items an account currently owns.
func (r *ItemRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("list items by owner: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var i domain.Item
		if err := rows.Scan(&i.ID, &i.Owner, &i.Title, &i.Media, &i.IssuedAt, &i.ApprovalID, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// BumpApproval increments and returns the item's approval id.
func (r *ItemRepo) BumpApproval(ctx context.Context, tx pgx.Tx, id int64) (int64, error) {
	var approvalID int64
	query := `UPDATE items SET approval_id = approval_id + 1 WHERE id = $1 RETURNING approval_id`
	if err := tx.QueryRow(ctx, query, id).Scan(&approvalID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("item not found: %d", id)
		}
		return 0, fmt.Errorf("bump approval id: %w", err)
	}
	return approvalID, nil
}
