package service

import (
	"errors"
	"fmt"
)

// Tagged failures surfaced by the orchestrators. Handlers translate these to
// HTTP status codes with errors.Is.
var (
	// Validation failures, detected before any mutation
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInsufficientStock = errors.New("insufficient stock")

	// Referenced entity absent
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")

	// Uniqueness / state conflicts
	ErrDuplicateUser   = errors.New("username or email already registered")
	ErrAlreadyTerminal = errors.New("order is already delivered or cancelled")

	// Authentication failures
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired refresh token")

	// ErrTransactionFailed wraps any store error raised mid-transaction; the
	// transaction's writes have been rolled back when it is returned.
	ErrTransactionFailed = errors.New("transaction failed")
)

// wrapTxErr passes tagged failures through unchanged and wraps everything
// else as a transaction failure with the cause attached.
func wrapTxErr(err error) error {
	if err == nil {
		return nil
	}
	for _, tagged := range []error{
		ErrInvalidInput, ErrEmptyOrder, ErrInsufficientStock,
		ErrCustomerNotFound, ErrProductNotFound, ErrOrderNotFound,
		ErrDuplicateUser, ErrAlreadyTerminal,
		ErrInvalidCredentials, ErrInvalidOrExpiredToken,
	} {
		if errors.Is(err, tagged) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
}
