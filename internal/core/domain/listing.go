package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing is an active offer to sell an item at a fixed price.
// Listings are never edited: they are deleted on sale or cancellation.
type Listing struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"item_id"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListingView is a listing joined with its item for browsing.
type ListingView struct {
	Listing
	Item Item `json:"item"`
}

// Receipt summarizes a completed purchase.
type Receipt struct {
	ListingID    uuid.UUID       `json:"listing_id"`
	ItemID       uuid.UUID       `json:"item_id"`
	BuyerID      uuid.UUID       `json:"buyer_id"`
	SellerID     uuid.UUID       `json:"seller_id"`
	Price        decimal.Decimal `json:"price"`
	BuyerBalance decimal.Decimal `json:"buyer_balance"`
	PurchasedAt  time.Time       `json:"purchased_at"`
}
