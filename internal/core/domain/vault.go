package domain

import (
	"fmt"
	"regexp"
	"time"

	"collectible-sale-gateway/pkg/apperror"
)

// TokenDeposit is one declared fungible-asset deposit a buyer intends to
// lock into a vault.
type TokenDeposit struct {
	AssetContract string `json:"asset_contract"`
	Amount        int64  `json:"amount"`
	Confirmed     bool   `json:"confirmed"`
}

// Vault is an isolated per-item escrow holding declared deposits until
// release. One vault per item, addressed by the item identifier.
type Vault struct {
	ItemID        int64          `json:"item_id"`
	Owner         string         `json:"owner"` // claimant authorized to release
	BaseAmount    int64          `json:"base_amount"`
	BaseConfirmed bool           `json:"base_confirmed"`
	Deposits      []TokenDeposit `json:"token_deposits"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Asset contract identifiers: lowercase alphanumeric segments joined by
// single '.', '-' or '_' separators, 2 to 64 characters.
var assetContractRe = regexp.MustCompile(`^[a-z0-9]+([._-][a-z0-9]+)*$`)

// ValidAssetContract reports whether s is a syntactically valid asset
// contract identifier.
func ValidAssetContract(s string) bool {
	return len(s) >= 2 && len(s) <= 64 && assetContractRe.MatchString(s)
}

// NewVault validates the declared deposits and builds a vault. Every
// declaration must carry a valid contract id, a positive amount, and must
// start unconfirmed; a pre-set confirmed flag is rejected.
func NewVault(itemID int64, owner string, baseAmount int64, deposits []TokenDeposit, now time.Time) (*Vault, error) {
	if baseAmount < 0 {
		return nil, apperror.ErrInvalidDeclaration("base amount must not be negative")
	}
	for _, d := range deposits {
		if !ValidAssetContract(d.AssetContract) {
			return nil, apperror.ErrInvalidDeclaration(fmt.Sprintf("invalid asset contract id %q", d.AssetContract))
		}
		if d.Amount <= 0 {
			return nil, apperror.ErrInvalidDeclaration("cannot declare a zero-amount deposit")
		}
		if d.Confirmed {
			return nil, apperror.ErrInvalidDeclaration("declarations must start unconfirmed")
		}
	}

	cloned := make([]TokenDeposit, len(deposits))
	copy(cloned, deposits)

	return &Vault{
		ItemID:        itemID,
		Owner:         owner,
		BaseAmount:    baseAmount,
		BaseConfirmed: false,
		Deposits:      cloned,
		CreatedAt:     now,
	}, nil
}

// Fee computes the deposit fee skim for amount at feeBps basis points.
func Fee(amount int64, feeBps int) int64 {
	return amount * int64(feeBps) / 10000
}

// ExpectedBaseDeposit returns the exact attached value a base deposit must
// carry: the declared amount plus the fee skim.
func (v *Vault) ExpectedBaseDeposit(feeBps int) int64 {
	return v.BaseAmount + Fee(v.BaseAmount, feeBps)
}

// ConfirmBase accepts a base-currency deposit. The attached value must equal
// the declared base amount plus the fee exactly; anything else is reported as
// unaccepted without mutating the vault. Returns the fee to forward.
func (v *Vault) ConfirmBase(attached int64, feeBps int) (int64, bool) {
	if v.BaseAmount == 0 || v.BaseConfirmed {
		return 0, false
	}
	if attached != v.ExpectedBaseDeposit(feeBps) {
		return 0, false
	}
	v.BaseConfirmed = true
	return Fee(v.BaseAmount, feeBps), true
}

// MatchTokenDeposit matches an inbound asset transfer against the first
// still-unconfirmed declaration for contract. The transfer amount must equal
// the declared amount plus its fee skim exactly. On match the declaration is
// confirmed and the index plus the fee to forward are returned; otherwise
// ok is false and the caller must report the full amount unused.
func (v *Vault) MatchTokenDeposit(contract string, amount int64, feeBps int) (int, int64, bool) {
	for i := range v.Deposits {
		d := &v.Deposits[i]
		if d.AssetContract != contract || d.Confirmed {
			continue
		}
		if amount != d.Amount+Fee(d.Amount, feeBps) {
			return 0, 0, false
		}
		d.Confirmed = true
		return i, Fee(d.Amount, feeBps), true
	}
	return 0, 0, false
}

// AllConfirmed reports whether every declared deposit (base included, when
// nonzero) has been confirmed.
func (v *Vault) AllConfirmed() bool {
	if v.BaseAmount > 0 && !v.BaseConfirmed {
		return false
	}
	for _, d := range v.Deposits {
		if !d.Confirmed {
			return false
		}
	}
	return true
}

// ConfirmedHoldings returns the transfers a release must dispatch: the
// confirmed base amount (0 if unconfirmed) and every confirmed token deposit.
func (v *Vault) ConfirmedHoldings() (int64, []TokenDeposit) {
	base := int64(0)
	if v.BaseConfirmed {
		base = v.BaseAmount
	}
	var tokens []TokenDeposit
	for _, d := range v.Deposits {
		if d.Confirmed {
			tokens = append(tokens, d)
		}
	}
	return base, tokens
}
