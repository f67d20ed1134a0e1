package service

import (
	"context"
	"time"

	"skin-marketplace/internal/core/domain"
	"skin-marketplace/internal/core/ports"
	"skin-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AccountManager owns account balances. No other code performs balance arithmetic.
type AccountManager struct {
	accountRepo ports.AccountRepository
	journal     *Journal
	transactor  ports.Transactor
	publisher   ports.EventPublisher
	maxDeposit  decimal.Decimal
	log         zerolog.Logger
}

// NewAccountManager creates a new AccountManager. publisher may be nil.
func NewAccountManager(
	accountRepo ports.AccountRepository,
	journal *Journal,
	transactor ports.Transactor,
	publisher ports.EventPublisher,
	maxDeposit decimal.Decimal,
	log zerolog.Logger,
) *AccountManager {
	return &AccountManager{
		accountRepo: accountRepo,
		journal:     journal,
		transactor:  transactor,
		publisher:   publisher,
		maxDeposit:  maxDeposit,
		log:         log,
	}
}

// Register creates a player account with a zero balance.
func (m *AccountManager) Register(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	account := newAccount(name, email, passwordHash, domain.RolePlayer)
	if err := m.accountRepo.Create(ctx, account); err != nil {
		return uuid.Nil, classify("create account", err)
	}

	m.log.Info().Str("account_id", account.ID.String()).Msg("account registered")
	return account.ID, nil
}

// EnsureAdmin returns the account registered under email, creating it with the admin role if absent.
// An existing account is returned as is, whatever its role.
func (m *AccountManager) EnsureAdmin(ctx context.Context, name, email, passwordHash string) (*domain.Account, error) {
	existing, err := m.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, classify("find admin", err)
	}
	if existing != nil {
		if !existing.IsAdmin() {
			m.log.Warn().Str("account_id", existing.ID.String()).Msg("configured admin email belongs to a player account")
		}
		return existing, nil
	}

	account := newAccount(name, email, passwordHash, domain.RoleAdmin)
	if err := m.accountRepo.Create(ctx, account); err != nil {
		return nil, classify("create admin", err)
	}

	m.log.Info().Str("account_id", account.ID.String()).Msg("admin account created")
	return account, nil
}

// GetByIdentity returns the account or ACCOUNT_NOT_FOUND.
func (m *AccountManager) GetByIdentity(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, err := m.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, classify("get account", err)
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	return account, nil
}

// Deposit credits amount to the account and journals it in one transaction.
func (m *AccountManager) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !validMoney(amount) {
		return decimal.Zero, apperror.ErrInvalidAmount()
	}
	if amount.GreaterThan(m.maxDeposit) {
		return decimal.Zero, apperror.ErrDepositLimitExceeded(m.maxDeposit.String())
	}

	var newBalance decimal.Decimal
	err := m.transactor.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		account, err := m.Lock(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.ErrAccountNotFound()
		}

		if err := m.Credit(ctx, tx, account, amount); err != nil {
			return err
		}
		newBalance = account.Balance

		_, err = m.journal.Append(ctx, tx, accountID, amount, domain.EntryKindDeposit)
		return err
	})
	if err != nil {
		return decimal.Zero, classify("deposit", err)
	}

	publishCommitted(ctx, m.publisher, m.log, domain.MarketEvent{
		Type:       domain.EventFundsDeposited,
		AccountID:  accountID,
		Amount:     &amount,
		OccurredAt: time.Now().UTC(),
	})

	m.log.Info().
		Str("account_id", accountID.String()).
		Str("amount", amount.String()).
		Msg("deposit completed")

	return newBalance, nil
}

// Lock fetches the account with a row lock held until tx ends. Missing accounts return nil.
func (m *AccountManager) Lock(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (*domain.Account, error) {
	account, err := m.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, classify("lock account", err)
	}
	return account, nil
}

// Credit adds amount to a locked account through tx and updates account in place.
func (m *AccountManager) Credit(ctx context.Context, tx pgx.Tx, account *domain.Account, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperror.ErrInvalidAmount()
	}
	return m.setBalance(ctx, tx, account, account.Balance.Add(amount))
}

// Debit subtracts amount from a locked account through tx and updates account in place.
func (m *AccountManager) Debit(ctx context.Context, tx pgx.Tx, account *domain.Account, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperror.ErrInvalidAmount()
	}
	if !account.CanAfford(amount) {
		return apperror.ErrInsufficientFunds()
	}
	return m.setBalance(ctx, tx, account, account.Balance.Sub(amount))
}

func (m *AccountManager) setBalance(ctx context.Context, tx pgx.Tx, account *domain.Account, balance decimal.Decimal) error {
	if err := m.accountRepo.UpdateBalance(ctx, tx, account.ID, balance); err != nil {
		return classify("update balance", err)
	}
	account.Balance = balance
	return nil
}

func newAccount(name, email, passwordHash string, role domain.Role) *domain.Account {
	return &domain.Account{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Balance:      decimal.Zero,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
}
