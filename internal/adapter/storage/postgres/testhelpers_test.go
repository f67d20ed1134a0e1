package postgres

import (
	"time"

	"skin-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
)

// decimalArg matches a decimal argument by value rather than representation.
type decimalArg struct{ want decimal.Decimal }

func (a decimalArg) Match(v any) bool {
	d, ok := v.(decimal.Decimal)
	return ok && d.Equal(a.want)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pgErr(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func newTestAccount(balance string) *domain.Account {
	return &domain.Account{
		ID:           uuid.New(),
		Name:         "alice",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Balance:      dec(balance),
		Role:         domain.RolePlayer,
		CreatedAt:    now(),
	}
}

func accountRow(a *domain.Account) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "balance", "role", "created_at"}).
		AddRow(a.ID, a.Name, a.Email, a.PasswordHash, a.Balance, string(a.Role), a.CreatedAt)
}

func newTestItem(ownerID uuid.UUID) *domain.Item {
	return &domain.Item{
		ID:        uuid.New(),
		Name:      "AWP | Dragon Lore",
		Category:  "Sniper Rifle",
		Wear:      domain.WearFactoryNew,
		ImageURL:  "https://cdn.example.com/awp.png",
		OwnerID:   ownerID,
		CreatedAt: now(),
	}
}

func itemColumnNames() []string {
	return []string{"id", "name", "category", "wear", "image_url", "owner_id", "created_at"}
}

func itemRow(i *domain.Item) *pgxmock.Rows {
	return pgxmock.NewRows(itemColumnNames()).
		AddRow(i.ID, i.Name, i.Category, string(i.Wear), i.ImageURL, i.OwnerID, i.CreatedAt)
}
