package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind represents the kind of balance movement.
type EntryKind string

const (
	EntryKindDeposit  EntryKind = "deposit"
	EntryKindPurchase EntryKind = "purchase"
	EntryKindSale     EntryKind = "sale"
)

// LedgerEntry is an immutable record of a signed balance change.
// Purchases are negative, sales and deposits positive.
type LedgerEntry struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      EntryKind       `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsDebit returns true if the entry decreased the balance.
func (e *LedgerEntry) IsDebit() bool {
	return e.Amount.IsNegative()
}
