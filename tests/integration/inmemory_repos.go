package integration

import (
	"context"
	"fmt"
	"sync"

	"collectible-sale-gateway/internal/core/domain"
	"collectible-sale-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Sale Repo ---

type inMemorySaleRepo struct {
	mu   sync.Mutex
	sale *domain.Sale
}

func newInMemorySaleRepo() *inMemorySaleRepo {
	return &inMemorySaleRepo{}
}

func (r *inMemorySaleRepo) Get(ctx context.Context) (*domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sale == nil {
		return nil, nil
	}
	s := *r.sale
	return &s, nil
}

func (r *inMemorySaleRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.Sale, error) {
	return r.Get(ctx)
}

func (r *inMemorySaleRepo) Save(ctx context.Context, tx pgx.Tx, sale *domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := *sale
	r.sale = &s
	return nil
}

func (r *inMemorySaleRepo) Bootstrap(ctx context.Context, sale *domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sale == nil {
		s := *sale
		r.sale = &s
	}
	return nil
}

// --- In-Memory Allowance Repo ---

type inMemoryAllowanceRepo struct {
	mu         sync.Mutex
	allowances map[string]domain.Allowance
}

func newInMemoryAllowanceRepo() *inMemoryAllowanceRepo {
	return &inMemoryAllowanceRepo{allowances: make(map[string]domain.Allowance)}
}

func (r *inMemoryAllowanceRepo) Get(ctx context.Context, account string) (*domain.Allowance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.allowances[account]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *inMemoryAllowanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, account string) (*domain.Allowance, error) {
	return r.Get(ctx, account)
}

func (r *inMemoryAllowanceRepo) Upsert(ctx context.Context, tx pgx.Tx, allowance domain.Allowance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allowances[allowance.Account] = allowance
	return nil
}

// --- In-Memory Item Repo ---

type inMemoryItemRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*domain.Item
}

func newInMemoryItemRepo() *inMemoryItemRepo {
	return &inMemoryItemRepo{items: make(map[int64]*domain.Item)}
}

func (r *inMemoryItemRepo) NextID(ctx context.Context, tx pgx.Tx) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return r.nextID, nil
}

func (r *inMemoryItemRepo) Create(ctx context.Context, tx pgx.Tx, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := *item
	r.items[item.ID] = &i
	return nil
}

func (r *inMemoryItemRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	i := *item
	return &i, nil
}

func (r *inMemoryItemRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryItemRepo) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *inMemoryItemRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *inMemoryItemRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Item
	for _, item := range r.items {
		if item.Owner == owner {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *inMemoryItemRepo) BumpApproval(ctx context.Context, tx pgx.Tx, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return 0, fmt.Errorf("item not found")
	}
	item.ApprovalID++
	return item.ApprovalID, nil
}

// --- In-Memory Vault Repo ---

type inMemoryVaultRepo struct {
	mu     sync.Mutex
	vaults map[int64]*domain.Vault
}

func newInMemoryVaultRepo() *inMemoryVaultRepo {
	return &inMemoryVaultRepo{vaults: make(map[int64]*domain.Vault)}
}

func cloneVault(v *domain.Vault) *domain.Vault {
	c := *v
	c.Deposits = make([]domain.TokenDeposit, len(v.Deposits))
	copy(c.Deposits, v.Deposits)
	return &c
}

func (r *inMemoryVaultRepo) Create(ctx context.Context, v *domain.Vault) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.vaults[v.ItemID]; exists {
		return fmt.Errorf("vault already exists for item %d", v.ItemID)
	}
	r.vaults[v.ItemID] = cloneVault(v)
	return nil
}

func (r *inMemoryVaultRepo) GetByItemID(ctx context.Context, itemID int64) (*domain.Vault, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vaults[itemID]
	if !ok {
		return nil, nil
	}
	return cloneVault(v), nil
}

func (r *inMemoryVaultRepo) GetByItemIDForUpdate(ctx context.Context, tx pgx.Tx, itemID int64) (*domain.Vault, error) {
	return r.GetByItemID(ctx, itemID)
}

func (r *inMemoryVaultRepo) SetBaseConfirmed(ctx context.Context, tx pgx.Tx, itemID int64, confirmed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vaults[itemID]
	if !ok {
		return fmt.Errorf("vault not found")
	}
	v.BaseConfirmed = confirmed
	return nil
}

func (r *inMemoryVaultRepo) SetDepositConfirmed(ctx context.Context, tx pgx.Tx, itemID int64, index int, confirmed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vaults[itemID]
	if !ok {
		return fmt.Errorf("vault not found")
	}
	if index < 0 || index >= len(v.Deposits) {
		return fmt.Errorf("deposit index out of range")
	}
	v.Deposits[index].Confirmed = confirmed
	return nil
}

func (r *inMemoryVaultRepo) Delete(ctx context.Context, tx pgx.Tx, itemID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.vaults, itemID)
	return nil
}

// --- In-Memory Pending Op Repo ---

type inMemoryPendingOpRepo struct {
	mu  sync.Mutex
	ops map[uuid.UUID]*domain.PendingOp
}

func newInMemoryPendingOpRepo() *inMemoryPendingOpRepo {
	return &inMemoryPendingOpRepo{ops: make(map[uuid.UUID]*domain.PendingOp)}
}

func (r *inMemoryPendingOpRepo) Create(ctx context.Context, tx pgx.Tx, op *domain.PendingOp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := *op
	r.ops[op.ID] = &o
	return nil
}

func (r *inMemoryPendingOpRepo) Take(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PendingOp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.ops[id]
	if !ok {
		return nil, nil
	}
	delete(r.ops, id)
	return op, nil
}

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[a.Username]; exists {
		return fmt.Errorf("username already exists")
	}
	acc := *a
	r.accounts[a.Username] = &acc
	return nil
}

func (r *inMemoryAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[username]
	if !ok {
		return nil, nil
	}
	acc := *a
	return &acc, nil
}

// --- In-Memory Admin Repo ---

type inMemoryAdminRepo struct {
	mu     sync.Mutex
	admins map[string]domain.Admin
}

func newInMemoryAdminRepo() *inMemoryAdminRepo {
	return &inMemoryAdminRepo{admins: make(map[string]domain.Admin)}
}

func (r *inMemoryAdminRepo) Add(ctx context.Context, a domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.admins[a.Account]; !exists {
		r.admins[a.Account] = a
	}
	return nil
}

func (r *inMemoryAdminRepo) Remove(ctx context.Context, account string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.admins, account)
	return nil
}

func (r *inMemoryAdminRepo) Exists(ctx context.Context, account string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.admins[account]
	return ok, nil
}

func (r *inMemoryAdminRepo) List(ctx context.Context) ([]domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Admin, 0, len(r.admins))
	for _, a := range r.admins {
		out = append(out, a)
	}
	return out, nil
}

// --- In-Memory Event Repo ---

type inMemoryEventRepo struct {
	mu     sync.Mutex
	events []domain.SaleEvent
}

func newInMemoryEventRepo() *inMemoryEventRepo {
	return &inMemoryEventRepo{}
}

func (r *inMemoryEventRepo) Append(ctx context.Context, e *domain.SaleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *inMemoryEventRepo) List(ctx context.Context, limit int) ([]domain.SaleEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Newest first.
	out := make([]domain.SaleEvent, 0, limit)
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.events[i])
	}
	return out, nil
}

// --- Recording Asset Gateway ---

type recordedTransfer struct {
	AssetContract string // empty = base currency
	Recipient     string
	Amount        int64
	Memo          string
}

type recordingAssetGateway struct {
	mu        sync.Mutex
	transfers []recordedTransfer
}

func newRecordingAssetGateway() *recordingAssetGateway {
	return &recordingAssetGateway{}
}

func (g *recordingAssetGateway) TransferBase(ctx context.Context, recipient string, amount int64, memo string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transfers = append(g.transfers, recordedTransfer{Recipient: recipient, Amount: amount, Memo: memo})
	return nil
}

func (g *recordingAssetGateway) TransferToken(ctx context.Context, assetContract string, recipient string, amount int64, memo string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transfers = append(g.transfers, recordedTransfer{AssetContract: assetContract, Recipient: recipient, Amount: amount, Memo: memo})
	return nil
}

func (g *recordingAssetGateway) all() []recordedTransfer {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]recordedTransfer, len(g.transfers))
	copy(out, g.transfers)
	return out
}

// --- Recording Listing Registry ---

type recordingListingRegistry struct {
	mu        sync.Mutex
	approvals []int64
}

func newRecordingListingRegistry() *recordingListingRegistry {
	return &recordingListingRegistry{}
}

func (r *recordingListingRegistry) NotifyApproval(ctx context.Context, approval ports.ListingApproval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.approvals = append(r.approvals, approval.ItemID)
	return nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
