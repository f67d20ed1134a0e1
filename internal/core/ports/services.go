package ports

import (
	"context"
	"errors"
	"time"

	"skin-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(accountID uuid.UUID, role domain.Role) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AccountID uuid.UUID
	Role      domain.Role
}

// EventPublisher delivers committed marketplace events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.MarketEvent) error
	Close() error
}

// ErrItemLockHeld is wrapped by ItemLocker.Lock when another holder has the lock.
var ErrItemLockHeld = errors.New("item lock held by another request")

// ItemLocker serializes mutations of one item across service instances.
type ItemLocker interface {
	// Lock acquires the item lock. The returned func releases it.
	Lock(ctx context.Context, itemID uuid.UUID) (func(context.Context) error, error)
}

// --- Service Ports (Business Logic) ---

// AccountService defines account and balance operations.
type AccountService interface {
	Register(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetByIdentity(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
	Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	EnsureAdmin(ctx context.Context, name, email, passwordHash string) (*domain.Account, error)
}

// InventoryService defines item ownership and catalog operations.
type InventoryService interface {
	ListOwned(ctx context.Context, accountID uuid.UUID) ([]domain.Item, error)
	ListByOwner(ctx context.Context, accountID uuid.UUID) ([]domain.Item, error)
	CreateItem(ctx context.Context, caller domain.Caller, req CreateItemRequest) (*domain.Item, error)
	EditItem(ctx context.Context, caller domain.Caller, itemID uuid.UUID, patch domain.ItemPatch) (*domain.Item, error)
	DeleteItem(ctx context.Context, caller domain.Caller, itemID uuid.UUID) error
	ListCatalog(ctx context.Context, caller domain.Caller) ([]domain.Item, error)
}

// CreateItemRequest holds validated input for catalog item creation.
type CreateItemRequest struct {
	Name     string
	Category string
	Wear     domain.Wear
	ImageURL string
	OwnerID  *uuid.UUID // nil = the calling admin
}

// MarketplaceService defines the listing lifecycle and purchases.
type MarketplaceService interface {
	CreateListing(ctx context.Context, caller domain.Caller, itemID uuid.UUID, price decimal.Decimal) (uuid.UUID, error)
	CancelListing(ctx context.Context, caller domain.Caller, listingID uuid.UUID) error
	Purchase(ctx context.Context, caller domain.Caller, listingID uuid.UUID) (*domain.Receipt, error)
	Browse(ctx context.Context, caller domain.Caller) ([]domain.ListingView, error)
	MyListings(ctx context.Context, caller domain.Caller) ([]domain.ListingView, error)
}

// JournalService exposes the read side of the transaction journal.
type JournalService interface {
	History(ctx context.Context, accountID uuid.UUID) ([]domain.LedgerEntry, error)
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for player registration.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// AuditService records audit entries without blocking the request.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// HealthChecker reports whether an external dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Name() string // e.g. "postgresql", "redis"
}
