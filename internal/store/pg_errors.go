package store

import (
	"errors"
	"fmt"

	serrors "github.com/abgdnv/salesledger/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes.
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
	checkViolation      = "23514"
)

// Constraint names generated by the schema migrations.
const (
	productsNameKey          = "products_name_key"
	productsStockNonNegative = "products_stock_non_negative"
	customersEmailKey        = "customers_email_key"
	salesProductFKey         = "sales_product_id_fkey"
	salesCustomerFKey        = "sales_customer_id_fkey"
)

// translate maps a driver error to the service's errors.
// notFound is returned for pgx.ErrNoRows; op names the failed operation.
func translate(err error, notFound error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			switch pgErr.ConstraintName {
			case productsNameKey:
				return serrors.ErrDuplicateProductName
			case customersEmailKey:
				return serrors.ErrDuplicateEmail
			}
		case foreignKeyViolation:
			// inserts and updates of sales; deletes are handled by isReferenced
			switch pgErr.ConstraintName {
			case salesProductFKey:
				return serrors.ErrProductNotFound
			case salesCustomerFKey:
				return serrors.ErrCustomerNotFound
			}
		case checkViolation:
			if pgErr.ConstraintName == productsStockNonNegative {
				return serrors.ErrInsufficientStock
			}
			return fmt.Errorf("%w: %s", serrors.ErrValidation, pgErr.Message)
		}
	}

	return fmt.Errorf("%w: failed to %s: %w", serrors.ErrPersistence, op, err)
}

// isReferenced reports whether a delete was rejected because other rows still reference the row.
func isReferenced(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
