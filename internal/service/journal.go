package service

import (
	"context"
	"time"

	"skin-marketplace/internal/core/domain"
	"skin-marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Journal records balance movements. Entries are written only through the
// transaction of the operation that moved the balance.
type Journal struct {
	ledgerRepo ports.LedgerRepository
	now        func() time.Time
}

// NewJournal creates a new Journal.
func NewJournal(ledgerRepo ports.LedgerRepository) *Journal {
	return &Journal{
		ledgerRepo: ledgerRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Append inserts a signed entry through tx.
func (j *Journal) Append(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal, kind domain.EntryKind) (*domain.LedgerEntry, error) {
	entry := &domain.LedgerEntry{
		ID:        uuid.New(),
		AccountID: accountID,
		Amount:    amount,
		Kind:      kind,
		CreatedAt: j.now(),
	}
	if err := j.ledgerRepo.Append(ctx, tx, entry); err != nil {
		return nil, classify("append ledger entry", err)
	}
	return entry, nil
}

// History returns the account's entries, newest first.
func (j *Journal) History(ctx context.Context, accountID uuid.UUID) ([]domain.LedgerEntry, error) {
	entries, err := j.ledgerRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, classify("list ledger entries", err)
	}
	return entries, nil
}
