package domain

import (
	"time"

	"github.com/google/uuid"
)

// PendingOp records an issued asynchronous vault provisioning, keyed by a
// correlation id. It is written before the provisioning is dispatched and
// cleared exactly once by the completion handler; a failed provisioning uses
// the record to roll back the claimed quota and refund the signer.
type PendingOp struct {
	ID           uuid.UUID `json:"id"`
	ItemID       int64     `json:"item_id"`
	Buyer        string    `json:"buyer"`
	Signer       string    `json:"signer"`
	RefundAmount int64     `json:"refund_amount"` // unit slice of the attached value
	QuotaClaimed bool      `json:"quota_claimed"` // whether this unit debited the buyer's allowance
	CreatedAt    time.Time `json:"created_at"`
}
