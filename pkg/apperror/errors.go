package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError independently of any transport.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindInsufficientFunds
	KindIntegrity
	KindFatalConsistency
	KindUnauthorized
	KindForbidden
	KindRateLimited
)

var kindNames = map[Kind]string{
	KindInternal:          "internal",
	KindValidation:        "validation",
	KindNotFound:          "not_found",
	KindConflict:          "conflict",
	KindInsufficientFunds: "insufficient_funds",
	KindIntegrity:         "integrity",
	KindFatalConsistency:  "fatal_consistency",
	KindUnauthorized:      "unauthorized",
	KindForbidden:         "forbidden",
	KindRateLimited:       "rate_limited",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// AppError is a classified error returned by the core and rendered by the API layer.
type AppError struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Err     error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(kind Kind, code string, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(kind Kind, code string, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// ---- Validation ----

func Validation(message string) *AppError {
	return New(KindValidation, "VALIDATION_FAILED", message)
}

func ErrInvalidAmount() *AppError {
	return New(KindValidation, "INVALID_AMOUNT", "Amount must be positive")
}

func ErrDepositLimitExceeded(limit string) *AppError {
	return New(KindValidation, "INVALID_AMOUNT", fmt.Sprintf("Deposit must not exceed %s", limit))
}

func ErrInvalidPrice() *AppError {
	return New(KindValidation, "INVALID_PRICE", "Price must be positive")
}

func ErrEmptyPatch() *AppError {
	return New(KindValidation, "EMPTY_PATCH", "At least one field must be provided")
}

// ---- Not found ----

func ErrAccountNotFound() *AppError {
	return New(KindNotFound, "ACCOUNT_NOT_FOUND", "Account not found")
}

func ErrItemNotFound() *AppError {
	return New(KindNotFound, "ITEM_NOT_FOUND", "Item not found")
}

func ErrListingNotFound() *AppError {
	return New(KindNotFound, "LISTING_NOT_FOUND", "Listing not found")
}

// ---- Conflict ----

func ErrAlreadyListed() *AppError {
	return New(KindConflict, "ALREADY_LISTED", "Item already has an active listing")
}

func ErrNotOwner() *AppError {
	return New(KindConflict, "NOT_OWNER", "Caller does not own this item")
}

func ErrSelfPurchase() *AppError {
	return New(KindConflict, "SELF_PURCHASE", "Cannot purchase your own listing")
}

func ErrItemBusy(err error) *AppError {
	return Wrap(KindConflict, "ITEM_BUSY", "Item is being modified by another request", err)
}

// ---- Funds ----

func ErrInsufficientFunds() *AppError {
	return New(KindInsufficientFunds, "INSUFFICIENT_FUNDS", "Insufficient balance")
}

// ---- Integrity ----

func ErrDuplicateEmail() *AppError {
	return New(KindIntegrity, "DUPLICATE_EMAIL", "Email is already registered")
}

func Integrity(err error) *AppError {
	return Wrap(KindIntegrity, "INTEGRITY_VIOLATION", "Storage constraint violated", err)
}

// ---- Fatal consistency ----

// FatalConsistency signals that stored state contradicts an invariant the core relies on.
func FatalConsistency(message string) *AppError {
	return New(KindFatalConsistency, "FATAL_CONSISTENCY", message)
}

// ---- Authentication / authorization ----

func ErrInvalidCredentials() *AppError {
	return New(KindUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
}

func ErrInvalidToken() *AppError {
	return New(KindUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
}

func ErrAdminOnly() *AppError {
	return New(KindForbidden, "ADMIN_ONLY", "Administrator role required")
}

// ---- Rate limiting ----

func ErrRateLimitExceeded() *AppError {
	return New(KindRateLimited, "RATE_LIMITED", "Rate limit exceeded")
}

// ---- System ----

// InternalError wraps an unexpected failure.
func InternalError(err error) *AppError {
	return Wrap(KindInternal, "INTERNAL", "Internal server error", err)
}
