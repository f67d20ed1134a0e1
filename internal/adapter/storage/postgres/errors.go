package postgres

import (
	"errors"

	"skin-marketplace/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the ledger store classifies.
const (
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"
)

const (
	constraintAccountEmail   = "accounts_email_key"
	constraintAccountBalance = "accounts_balance_check"
	constraintListingItem    = "listings_item_id_key"
)

// translate maps constraint violations onto the core error taxonomy.
// It returns nil when err is not a classified violation.
func translate(err error) *apperror.AppError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintAccountEmail:
			return apperror.ErrDuplicateEmail()
		case constraintListingItem:
			return apperror.ErrAlreadyListed()
		}
		return apperror.Integrity(err)
	case pgCheckViolation:
		if pgErr.ConstraintName == constraintAccountBalance {
			return apperror.ErrInsufficientFunds()
		}
		return apperror.Integrity(err)
	case pgForeignKeyViolation:
		return apperror.Integrity(err)
	}
	return nil
}

// wrapErr returns the classified error for err, or err itself.
func wrapErr(err error) error {
	if appErr := translate(err); appErr != nil {
		return appErr
	}
	return err
}
