package domain

import (
	"time"

	"collectible-sale-gateway/pkg/apperror"
)

// Phase is the current admission stage of the sale.
type Phase string

const (
	PhaseClosed  Phase = "CLOSED"
	PhasePresale Phase = "PRESALE"
	PhaseOpen    Phase = "OPEN"
	PhaseSoldOut Phase = "SOLD_OUT"
)

// CurrentPhase resolves the admission phase from the clock and the configured
// phase boundaries. It is a pure function and must be re-evaluated on every
// admission check. An unset public start means the sale never opens.
//
// PhaseSoldOut is not derived from time; callers overlay it from remaining
// supply (see Sale.SoldOut).
func CurrentPhase(now time.Time, presaleStart, publicStart *time.Time) Phase {
	if publicStart != nil && publicStart.Before(now) {
		return PhaseOpen
	}
	if presaleStart != nil && presaleStart.Before(now) {
		return PhasePresale
	}
	return PhaseClosed
}

// Sale is the persisted sale configuration. Immutable except through the
// owner/admin update path, which re-validates before persisting.
type Sale struct {
	PresaleStart   *time.Time `json:"presale_start,omitempty"`
	PublicStart    *time.Time `json:"public_start,omitempty"`
	Price          int64      `json:"price"`
	PresalePrice   *int64     `json:"presale_price,omitempty"`
	Allowance      *int       `json:"allowance,omitempty"`       // public per-account cap
	MintRateLimit  *int       `json:"mint_rate_limit,omitempty"` // per-request cap
	MaxSupply      *int64     `json:"max_supply,omitempty"`
	RoyaltyAccount *string    `json:"royalty_account,omitempty"`
	RoyaltyBps     *int       `json:"royalty_bps,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Validate checks the configuration invariants.
func (s *Sale) Validate() error {
	if s.Price < 0 {
		return errInvalidSale("price must not be negative")
	}
	if s.PresalePrice != nil && *s.PresalePrice < 0 {
		return errInvalidSale("presale price must not be negative")
	}
	if s.Allowance != nil && *s.Allowance <= 0 {
		return errInvalidSale("allowance cap must be positive when set")
	}
	if s.MintRateLimit != nil && *s.MintRateLimit <= 0 {
		return errInvalidSale("mint rate limit must be positive when set")
	}
	if s.MaxSupply != nil && *s.MaxSupply <= 0 {
		return errInvalidSale("max supply must be positive when set")
	}
	if s.PresaleStart != nil && s.PublicStart != nil && s.PublicStart.Before(*s.PresaleStart) {
		return errInvalidSale("public start must not precede presale start")
	}
	if s.RoyaltyBps != nil && (*s.RoyaltyBps < 0 || *s.RoyaltyBps > 10000) {
		return errInvalidSale("royalty must be between 0 and 10000 basis points")
	}
	return nil
}

// Status resolves the phase at now, overlaying PhaseSoldOut from supply.
func (s *Sale) Status(now time.Time, minted int64) Phase {
	if s.SoldOut(minted) {
		return PhaseSoldOut
	}
	return CurrentPhase(now, s.PresaleStart, s.PublicStart)
}

// SoldOut reports whether the configured supply is exhausted.
// An unset max supply means the sale never sells out.
func (s *Sale) SoldOut(minted int64) bool {
	return s.MaxSupply != nil && minted >= *s.MaxSupply
}

// UnitPrice returns the price for one item in the given phase. The discounted
// presale price applies while the sale is in presale or still closed.
func (s *Sale) UnitPrice(phase Phase) int64 {
	switch phase {
	case PhasePresale, PhaseClosed:
		if s.PresalePrice != nil {
			return *s.PresalePrice
		}
	}
	return s.Price
}

func errInvalidSale(reason string) error {
	return apperror.ErrInvalidSale(reason)
}
