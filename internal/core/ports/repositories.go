package ports

import (
	"context"

	"collectible-sale-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaleRepository persists the single sale configuration row.
// GetForUpdate also serializes the mint path: every mint locks the row first.
type SaleRepository interface {
	Get(ctx context.Context) (*domain.Sale, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.Sale, error)
	Save(ctx context.Context, tx pgx.Tx, sale *domain.Sale) error
	// Bootstrap inserts the seed configuration if no row exists yet.
	Bootstrap(ctx context.Context, sale *domain.Sale) error
}

// AllowanceRepository persists per-account admission quotas.
// No row exists for an account that never minted under a gated phase.
type AllowanceRepository interface {
	Get(ctx context.Context, account string) (*domain.Allowance, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, account string) (*domain.Allowance, error)
	Upsert(ctx context.Context, tx pgx.Tx, allowance domain.Allowance) error
}

// ItemRepository persists minted items. Identifiers come from a database
// sequence and are never reused, including across burns.
type ItemRepository interface {
	NextID(ctx context.Context, tx pgx.Tx) (int64, error)
	Create(ctx context.Context, tx pgx.Tx, item *domain.Item) error
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Item, error)
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
	Count(ctx context.Context) (int64, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.Item, error)
	// BumpApproval increments and returns the item's approval id.
	BumpApproval(ctx context.Context, tx pgx.Tx, id int64) (int64, error)
}

// VaultRepository persists the vault arena, keyed by item id.
type VaultRepository interface {
	Create(ctx context.Context, vault *domain.Vault) error
	GetByItemID(ctx context.Context, itemID int64) (*domain.Vault, error)
	GetByItemIDForUpdate(ctx context.Context, tx pgx.Tx, itemID int64) (*domain.Vault, error)
	SetBaseConfirmed(ctx context.Context, tx pgx.Tx, itemID int64, confirmed bool) error
	SetDepositConfirmed(ctx context.Context, tx pgx.Tx, itemID int64, index int, confirmed bool) error
	Delete(ctx context.Context, tx pgx.Tx, itemID int64) error
}

// PendingOpRepository persists issued-but-unresolved provisioning intents.
type PendingOpRepository interface {
	Create(ctx context.Context, tx pgx.Tx, op *domain.PendingOp) error
	// Take atomically removes and returns the record, or nil if it was
	// already cleared. Guarantees exactly-once completion handling.
	Take(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PendingOp, error)
}

// AccountRepository persists registered identities.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
}

// AdminRepository is the capability table of sale administrators.
type AdminRepository interface {
	Add(ctx context.Context, admin domain.Admin) error
	Remove(ctx context.Context, account string) error
	Exists(ctx context.Context, account string) (bool, error)
	List(ctx context.Context) ([]domain.Admin, error)
}

// EventRepository persists sale events for external observers.
type EventRepository interface {
	Append(ctx context.Context, event *domain.SaleEvent) error
	List(ctx context.Context, limit int) ([]domain.SaleEvent, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
