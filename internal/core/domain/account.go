package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is the authorization role of an account.
type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleAdmin
}

// Account is a marketplace participant holding a balance.
type Account struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Balance      decimal.Decimal `json:"balance"`
	Role         Role            `json:"role"`
	CreatedAt    time.Time       `json:"created_at"`
}

// IsAdmin returns true if the account has the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAfford returns true if the balance covers amount.
func (a *Account) CanAfford(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Caller is the authenticated identity the API layer hands to the core.
type Caller struct {
	AccountID uuid.UUID
	Role      Role
}

// IsAdmin returns true if the caller acts with the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
