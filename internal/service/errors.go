package service

import (
	"errors"
	"fmt"

	"skin-marketplace/pkg/apperror"

	"github.com/shopspring/decimal"
)

// moneyCeiling is the first value NUMERIC(14,2) cannot hold.
var moneyCeiling = decimal.New(1, 12)

// validMoney reports whether d is a positive amount with at most two decimals that fits storage.
func validMoney(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(2)) && d.LessThan(moneyCeiling)
}

// classify keeps an already classified error and wraps anything else as internal.
func classify(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.InternalError(fmt.Errorf("%s: %w", op, err))
}
