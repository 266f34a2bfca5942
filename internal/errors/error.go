// Package errors provides the error kinds and specific errors of the sales service.
// Every specific error wraps exactly one kind, so callers can branch with errors.Is on either.
package errors

import (
	"errors"
	"fmt"
)

// Kinds.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation failed")
	ErrPersistence       = errors.New("persistence failure")
	ErrTransaction       = errors.New("transaction failure")
)

var ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
var ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
var ErrSaleNotFound = fmt.Errorf("sale %w", ErrNotFound)

var ErrDuplicateProductName = fmt.Errorf("%w: product name already exists", ErrValidation)
var ErrDuplicateEmail = fmt.Errorf("%w: customer email already exists", ErrValidation)
var ErrProductInUse = fmt.Errorf("%w: product is referenced by sales", ErrValidation)
var ErrCustomerInUse = fmt.Errorf("%w: customer is referenced by sales", ErrValidation)

var ErrInvalidPrice = fmt.Errorf("%w: price must be positive, below 100000000 and have at most two decimal places", ErrValidation)
var ErrTotalTooLarge = fmt.Errorf("%w: sale total must be below 100000000", ErrValidation)

var ErrNoRowsAffected = fmt.Errorf("%w: no rows affected", ErrPersistence)

var ErrTransactionBegin = fmt.Errorf("%w: failed to begin transaction", ErrTransaction)
var ErrTransactionCommit = fmt.Errorf("%w: failed to commit transaction", ErrTransaction)
var ErrTransactionRollback = fmt.Errorf("%w: failed to rollback transaction", ErrTransaction)

// Kind names the error kinds for logs and metric attributes.
type Kind string

const (
	KindNone              Kind = "none"
	KindNotFound          Kind = "not_found"
	KindInsufficientStock Kind = "insufficient_stock"
	KindValidation        Kind = "validation"
	KindPersistence       Kind = "persistence"
	KindTransaction       Kind = "transaction"
	KindUnknown           Kind = "unknown"
)

// KindOf reports the kind of err. Transaction failures take precedence because a failed
// commit or rollback may wrap the step error that caused it.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrTransaction):
		return KindTransaction
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindUnknown
	}
}
