package domain

import (
	"fmt"
	"time"
)

// Item is one minted collectible. Identifiers are monotonic and never reused.
type Item struct {
	ID         int64     `json:"id"`
	Owner      string    `json:"owner"`
	Title      string    `json:"title"`
	Media      string    `json:"media"`
	IssuedAt   time.Time `json:"issued_at"`
	ApprovalID int64     `json:"approval_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewItem derives an item record with its standard metadata.
func NewItem(id int64, owner string, now time.Time) *Item {
	return &Item{
		ID:        id,
		Owner:     owner,
		Title:     fmt.Sprintf("%d", id),
		Media:     fmt.Sprintf("%d.png", id),
		IssuedAt:  now,
		CreatedAt: now,
	}
}

// OwnedBy reports whether account currently owns the item.
func (i *Item) OwnedBy(account string) bool {
	return i.Owner == account
}
