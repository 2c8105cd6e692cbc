package domain

import "collectible-sale-gateway/pkg/apperror"

// Allowance is the per-account admission quota during a gated phase.
// Invariant: Claimed <= Max. Max only ever widens.
type Allowance struct {
	Account string `json:"account"`
	Claimed int    `json:"claimed"`
	Max     int    `json:"max"`
}

// NewAllowance creates a fresh allowance with nothing claimed.
func NewAllowance(account string, max int) Allowance {
	return Allowance{Account: account, Claimed: 0, Max: max}
}

// Left returns the remaining quota, clamped at zero.
func (a Allowance) Left() int {
	if a.Claimed >= a.Max {
		return 0
	}
	return a.Max - a.Claimed
}

// RaiseMax widens the quota to newMax if larger, preserving Claimed.
// A smaller newMax never shrinks an earned quota.
func (a Allowance) RaiseMax(newMax int) Allowance {
	if newMax > a.Max {
		a.Max = newMax
	}
	return a
}

// UseNum claims num units of the quota.
func (a *Allowance) UseNum(num int) error {
	if num > a.Left() {
		return apperror.ErrAllowanceExceeded()
	}
	a.Claimed += num
	return nil
}

// Rollback returns num units of quota, compensating a failed claim.
func (a *Allowance) Rollback(num int) {
	a.Claimed -= num
	if a.Claimed < 0 {
		a.Claimed = 0
	}
}
