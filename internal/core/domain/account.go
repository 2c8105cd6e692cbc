package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered buyer or administrator identity. The username is
// the ledger account key used by allowances, items and vaults.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Admin is one entry in the capability table of accounts allowed to
// administer the sale alongside the configured owner.
type Admin struct {
	Account   string    `json:"account"`
	AddedBy   string    `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}
