package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies sale events emitted for external observers.
type EventKind string

const (
	EventMint    EventKind = "MINT"
	EventBurn    EventKind = "BURN"
	EventRelease EventKind = "RELEASE"
	EventListing EventKind = "LISTING"
	EventRefund  EventKind = "REFUND"
)

// SaleEvent is a persisted record of a state transition observers may
// consume: mints, burns, vault releases, listings, compensating refunds.
type SaleEvent struct {
	ID        uuid.UUID `json:"id"`
	Kind      EventKind `json:"kind"`
	ItemID    *int64    `json:"item_id,omitempty"`
	Account   string    `json:"account"`
	Payload   string    `json:"payload,omitempty"` // JSON detail blob
	CreatedAt time.Time `json:"created_at"`
}
