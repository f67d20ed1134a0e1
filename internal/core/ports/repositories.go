package ports

import (
	"context"

	"skin-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error
}

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Item, error)
	// ListUnlistedByOwner returns the owner's items that have no active listing, newest first.
	ListUnlistedByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Item, error)
	// ListAll returns the whole catalog ordered by category.
	ListAll(ctx context.Context) ([]domain.Item, error)
	Update(ctx context.Context, tx pgx.Tx, item *domain.Item) error
	// UpdateOwner reassigns the owner if it is still from. Returns rows affected.
	UpdateOwner(ctx context.Context, tx pgx.Tx, itemID, from, to uuid.UUID) (int64, error)
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// ListingRepository defines persistence operations for active listings.
type ListingRepository interface {
	Create(ctx context.Context, tx pgx.Tx, listing *domain.Listing) error
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Listing, error)
	GetByItemForUpdate(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (*domain.Listing, error)
	ExistsForItem(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (bool, error)
	// Delete removes the listing. Returns rows affected.
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int64, error)
	DeleteByItem(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (int64, error)
	// ListExcludingOwner returns listings whose item is not owned by ownerID, newest first.
	ListExcludingOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.ListingView, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.ListingView, error)
}

// LedgerRepository is append-only: there is no update or delete.
type LedgerRepository interface {
	Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	// ListByAccount returns the account's entries, newest first.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.LedgerEntry, error)
}

// AuditRepository persists audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// TxFunc is a unit of work run inside a database transaction.
type TxFunc func(ctx context.Context, tx pgx.Tx) error

// Transactor runs a TxFunc in one read-committed transaction.
// The transaction is committed only if fn returns nil; otherwise it is rolled back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn TxFunc) error
}
