// Package service provides the business logic of the sales service: product and customer
// management and the sale transaction coordinator that keeps stock consistent with sales.
package service

import (
	"errors"
	"fmt"

	serrors "github.com/abgdnv/salesledger/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of sale dates.
const DateLayout = "2006-01-02"

const instrumentationName = "github.com/abgdnv/salesledger/internal/service"

var maxPrice = decimal.New(1, 8)

var validate = validator.New()

// validateStruct runs the struct's validate tags. Failures wrap both ErrValidation and
// validator.ValidationErrors so transports can report per-field rules.
func validateStruct(dto any) error {
	if err := validate.Struct(dto); err != nil {
		return fmt.Errorf("%w: %w", serrors.ErrValidation, err)
	}
	return nil
}

// checkPrice accepts what fits into NUMERIC(10,2) and is positive.
func checkPrice(price decimal.Decimal) error {
	if !price.IsPositive() || price.GreaterThanOrEqual(maxPrice) || !price.Equal(price.Round(2)) {
		return serrors.ErrInvalidPrice
	}
	return nil
}

// asPersistence marks a failed write step of a sale transaction as a persistence failure,
// keeping the cause in the chain.
func asPersistence(step string, err error) error {
	if errors.Is(err, serrors.ErrPersistence) {
		return fmt.Errorf("%s: %w", step, err)
	}
	return fmt.Errorf("%s: %w: %w", step, serrors.ErrPersistence, err)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
