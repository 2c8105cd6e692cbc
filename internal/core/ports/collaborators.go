package ports

import "context"

// AssetGateway dispatches outbound value movement to the external
// fungible-asset transfer interface: deposit fee skims, compensating
// refunds, and vault releases.
type AssetGateway interface {
	// TransferBase moves base currency to recipient.
	TransferBase(ctx context.Context, recipient string, amount int64, memo string) error
	// TransferToken invokes ft_transfer on the given asset contract.
	TransferToken(ctx context.Context, assetContract string, recipient string, amount int64, memo string) error
}

// ListingApproval is the payload sent to the marketplace registry when an
// item owner approves a listing.
type ListingApproval struct {
	ItemID     int64  `json:"item_id"`
	Owner      string `json:"owner"`
	ApprovalID int64  `json:"approval_id"`
	SaleTerms  string `json:"sale_terms"`
}

// ListingRegistry is the marketplace collaborator receiving approval
// notifications. The registry acknowledges with an item transfer out of band.
type ListingRegistry interface {
	NotifyApproval(ctx context.Context, approval ListingApproval) error
}

// LinkdropDistributor is the free/sponsored distribution collaborator.
// Declared for completeness; the gateway does not implement this path.
type LinkdropDistributor interface {
	SendWithCallback(ctx context.Context, publicKey string, contractID string) error
}
