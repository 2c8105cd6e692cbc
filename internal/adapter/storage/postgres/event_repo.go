package postgres

import (
	"context"
	"fmt"

	"collectible-sale-gateway/internal/core/domain"
)

// EventRepo implements ports.EventRepository.
type EventRepo struct {
	pool Pool
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(pool Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// Append persists a sale event.
func (r *EventRepo) Append(ctx context.Context, e *domain.SaleEvent) error {
	query := `INSERT INTO sale_events (id, kind, item_id, account, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, e.ID, e.Kind, e.ItemID, e.Account, e.Payload, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale event: %w", err)
	}
	return nil
}

// List returns the most recent events, newest first.
func (r *EventRepo) List(ctx context.Context, limit int) ([]domain.SaleEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, kind, item_id, account, payload, created_at
		FROM sale_events ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sale events: %w", err)
	}
	defer rows.Close()

	var events []domain.SaleEvent
	for rows.Next() {
		var e domain.SaleEvent
		if err := rows.Scan(&e.ID, &e.Kind, &e.ItemID, &e.Account, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
