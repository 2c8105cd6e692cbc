package ports

import (
	"context"
	"time"

	"collectible-sale-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// --- Sale admission & minting ---

// MintService is the mint orchestrator: admission, pricing, item creation
// and vault provisioning.
type MintService interface {
	Mint(ctx context.Context, req MintRequest) (*MintResult, error)
	Burn(ctx context.Context, req BurnRequest) error
	ApproveListing(ctx context.Context, req ApproveRequest) (*domain.Item, error)
}

// MintRequest holds validated input for a mint.
type MintRequest struct {
	Buyer         string // admission account, charged quota
	Signer        string // refund recipient on provisioning failure
	Quantity      int
	AttachedValue int64 // base currency sent with the request
	BaseEscrow    int64 // declared base amount to lock in each vault
	Deposits      []domain.TokenDeposit
	ReferenceID   string // optional idempotency reference
}

// MintResult is the outcome of a mint.
type MintResult struct {
	Items    []domain.Item `json:"items"`
	Quantity int           `json:"quantity"` // after clamping
}

// BurnRequest destroys an owned item and unwinds its vault.
type BurnRequest struct {
	Caller string
	ItemID int64
}

// ApproveRequest approves an item for listing on the marketplace registry.
type ApproveRequest struct {
	Caller    string
	ItemID    int64
	SaleTerms string
}

// --- Escrow vault ---

// VaultService owns all vault state transitions.
type VaultService interface {
	VaultProvisioner
	Info(ctx context.Context, itemID int64) (*domain.Vault, error)
	DepositBase(ctx context.Context, req DepositBaseRequest) (*DepositResult, error)
	OnAssetTransfer(ctx context.Context, notice TransferNotice) (int64, error)
	Release(ctx context.Context, req ReleaseRequest) (*ReleaseResult, error)
}

// VaultProvisioner creates a vault instance for a freshly minted item.
// Split out so the mint orchestrator depends only on provisioning.
type VaultProvisioner interface {
	Provision(ctx context.Context, req ProvisionRequest) error
}

// ProvisionRequest seeds a new vault, every declaration unconfirmed.
type ProvisionRequest struct {
	ItemID     int64
	Owner      string
	BaseAmount int64
	Deposits   []domain.TokenDeposit
}

// DepositBaseRequest is a base-currency deposit attempt against a vault.
type DepositBaseRequest struct {
	ItemID        int64
	Sender        string
	AttachedValue int64
}

// DepositResult reports whether a deposit attempt was accepted. A mismatch
// is unaccepted, not an error, so the caller can retry with the right amount.
type DepositResult struct {
	Accepted bool  `json:"accepted"`
	Unused   int64 `json:"unused"`
}

// TransferNotice is an inbound fungible-asset transfer notification.
type TransferNotice struct {
	ItemID        int64
	AssetContract string
	Sender        string
	Amount        int64
	Msg           string
}

// ReleaseRequest asks a vault to settle to the claimant.
type ReleaseRequest struct {
	Caller   string
	ItemID   int64
	Claimant string
}

// ReleaseResult lists what the vault dispatched before deleting itself.
type ReleaseResult struct {
	BaseReleased   int64                 `json:"base_released"`
	TokensReleased []domain.TokenDeposit `json:"tokens_released"`
}

// --- Views ---

// ViewService exposes read accessors over the sale state.
type ViewService interface {
	Status(ctx context.Context) (domain.Phase, error)
	CostPerUnit(ctx context.Context, minter string) (int64, error)
	TotalCost(ctx context.Context, num int, minter string) (int64, error)
	// RemainingAllowance returns nil for unlimited.
	RemainingAllowance(ctx context.Context, account string) (*int, error)
	MintRateLimit(ctx context.Context) (*int, error)
	Supply(ctx context.Context) (minted int64, max *int64, err error)
}

// --- Administration ---

// AdminService mutates sale configuration through the capability check.
type AdminService interface {
	UpdateSale(ctx context.Context, caller string, sale domain.Sale) (*domain.Sale, error)
	AddWhitelist(ctx context.Context, caller string, accounts []string, allowance int) error
	AddAdmin(ctx context.Context, caller string, account string) error
	RemoveAdmin(ctx context.Context, caller string, account string) error
	ListAdmins(ctx context.Context, caller string) ([]domain.Admin, error)
}

// --- Identity ---

// AuthService registers accounts and issues session tokens.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}

// TokenService handles JWT session tokens.
type TokenService interface {
	Generate(accountID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AccountID uuid.UUID
	Username  string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// SignatureService handles HMAC-SHA256 signing for transfer notifications.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error)
}

// ReceiptCache is the best-effort mint idempotency layer.
type ReceiptCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil = miss
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
