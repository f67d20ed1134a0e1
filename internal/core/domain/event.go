package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType names a committed marketplace state change.
type EventType string

const (
	EventListingCreated   EventType = "listing.created"
	EventListingCancelled EventType = "listing.cancelled"
	EventListingSold      EventType = "listing.sold"
	EventFundsDeposited   EventType = "funds.deposited"
)

// MarketEvent is published after a transaction commits.
type MarketEvent struct {
	Type       EventType        `json:"type"`
	AccountID  uuid.UUID        `json:"account_id"`
	ListingID  *uuid.UUID       `json:"listing_id,omitempty"`
	ItemID     *uuid.UUID       `json:"item_id,omitempty"`
	SellerID   *uuid.UUID       `json:"seller_id,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Key returns the partition key: events for a listing stay ordered.
func (e MarketEvent) Key() string {
	if e.ListingID != nil {
		return e.ListingID.String()
	}
	return e.AccountID.String()
}
