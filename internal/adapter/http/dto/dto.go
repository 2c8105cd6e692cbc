package dto

import "time"

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for account login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// TokenDepositRequest is one declared fungible-asset deposit in a mint.
type TokenDepositRequest struct {
	AssetContract string `json:"asset_contract" binding:"required,asset_contract"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
}

// MintRequest is the request body for minting items.
type MintRequest struct {
	Quantity      int                   `json:"quantity" binding:"required,gt=0"`
	AttachedValue int64                 `json:"attached_value" binding:"gte=0"`
	BaseEscrow    int64                 `json:"base_escrow" binding:"gte=0"`
	Deposits      []TokenDepositRequest `json:"deposits,omitempty" binding:"omitempty,dive"`
	ReferenceID   string                `json:"reference_id,omitempty" binding:"omitempty,max=100,safe_id"`
}

// ItemResponse is one minted item.
type ItemResponse struct {
	ID         int64  `json:"id"`
	Owner      string `json:"owner"`
	Title      string `json:"title"`
	Media      string `json:"media"`
	ApprovalID int64  `json:"approval_id"`
	IssuedAt   string `json:"issued_at"`
}

// MintResponse is the response body for a processed mint.
type MintResponse struct {
	Items    []ItemResponse `json:"items"`
	Quantity int            `json:"quantity"`
}

// ApproveListingRequest is the request body for a marketplace listing approval.
type ApproveListingRequest struct {
	SaleTerms string `json:"sale_terms,omitempty" binding:"omitempty,max=4096"`
}

// DepositBaseRequest is the request body for a base-currency vault deposit.
type DepositBaseRequest struct {
	AttachedValue int64 `json:"attached_value" binding:"required,gt=0"`
}

// DepositResponse reports whether a deposit attempt was accepted.
type DepositResponse struct {
	Accepted bool  `json:"accepted"`
	Unused   int64 `json:"unused"`
}

// TransferNoticeRequest is the signed inbound asset-transfer notification.
type TransferNoticeRequest struct {
	Sender        string `json:"sender" binding:"required"`
	AssetContract string `json:"asset_contract" binding:"required,asset_contract"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Msg           string `json:"msg,omitempty"`
}

// TransferNoticeResponse returns the unused portion of a transfer.
type TransferNoticeResponse struct {
	Unused int64 `json:"unused"`
}

// ReleaseRequest is the request body for a vault release. An empty claimant
// defaults to the caller.
type ReleaseRequest struct {
	Claimant string `json:"claimant,omitempty" binding:"omitempty,safe_id"`
}

// ReleaseResponse lists what the vault dispatched.
type ReleaseResponse struct {
	BaseReleased   int64                  `json:"base_released"`
	TokensReleased []VaultDepositResponse `json:"tokens_released"`
}

// VaultDepositResponse is one declared deposit with its confirmation state.
type VaultDepositResponse struct {
	AssetContract string `json:"asset_contract"`
	Amount        int64  `json:"amount"`
	Confirmed     bool   `json:"confirmed"`
}

// VaultResponse is the escrow state for one item.
type VaultResponse struct {
	ItemID        int64                  `json:"item_id"`
	Owner         string                 `json:"owner"`
	BaseAmount    int64                  `json:"base_amount"`
	BaseConfirmed bool                   `json:"base_confirmed"`
	Deposits      []VaultDepositResponse `json:"deposits"`
	CreatedAt     string                 `json:"created_at"`
}

// SaleStatusResponse is the current sale phase plus supply counters.
type SaleStatusResponse struct {
	Phase         string `json:"phase"`
	Minted        int64  `json:"minted"`
	MaxSupply     *int64 `json:"max_supply,omitempty"`
	MintRateLimit *int   `json:"mint_rate_limit,omitempty"`
}

// CostResponse is the mint cost for a given quantity and minter.
type CostResponse struct {
	Num         int   `json:"num"`
	CostPerUnit int64 `json:"cost_per_unit"`
	TotalCost   int64 `json:"total_cost"`
}

// AllowanceResponse is the remaining quota for an account. A null remaining
// means unlimited.
type AllowanceResponse struct {
	Account   string `json:"account"`
	Remaining *int   `json:"remaining"`
}

// UpdateSaleRequest is the request body for a sale configuration update.
type UpdateSaleRequest struct {
	PresaleStart   *time.Time `json:"presale_start,omitempty"`
	PublicStart    *time.Time `json:"public_start,omitempty"`
	Price          int64      `json:"price" binding:"gte=0"`
	PresalePrice   *int64     `json:"presale_price,omitempty"`
	Allowance      *int       `json:"allowance,omitempty"`
	MintRateLimit  *int       `json:"mint_rate_limit,omitempty"`
	MaxSupply      *int64     `json:"max_supply,omitempty"`
	RoyaltyAccount *string    `json:"royalty_account,omitempty"`
	RoyaltyBps     *int       `json:"royalty_bps,omitempty"`
}

// SaleResponse echoes the persisted sale configuration.
type SaleResponse struct {
	PresaleStart   *time.Time `json:"presale_start,omitempty"`
	PublicStart    *time.Time `json:"public_start,omitempty"`
	Price          int64      `json:"price"`
	PresalePrice   *int64     `json:"presale_price,omitempty"`
	Allowance      *int       `json:"allowance,omitempty"`
	MintRateLimit  *int       `json:"mint_rate_limit,omitempty"`
	MaxSupply      *int64     `json:"max_supply,omitempty"`
	RoyaltyAccount *string    `json:"royalty_account,omitempty"`
	RoyaltyBps     *int       `json:"royalty_bps,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// WhitelistRequest grants presale allowance to accounts.
type WhitelistRequest struct {
	Accounts  []string `json:"accounts" binding:"required,min=1,max=100,dive,safe_id"`
	Allowance int      `json:"allowance" binding:"required,gt=0"`
}

// AdminRequest names an account for admin add/remove.
type AdminRequest struct {
	Account string `json:"account" binding:"required,safe_id"`
}

// AdminResponse is one entry of the admin capability table.
type AdminResponse struct {
	Account   string `json:"account"`
	AddedBy   string `json:"added_by"`
	CreatedAt string `json:"created_at"`
}

// EventResponse is one persisted sale event.
type EventResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	ItemID    *int64 `json:"item_id,omitempty"`
	Account   string `json:"account"`
	Payload   string `json:"payload,omitempty"`
	CreatedAt string `json:"created_at"`
}
