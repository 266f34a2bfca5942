// Package ledger guards and applies stock changes caused by sales.
// A Ledger works inside the caller's transaction and never commits or rolls back on its own.
package ledger

import (
	"context"
	"errors"
	"fmt"

	serrors "github.com/abgdnv/salesledger/internal/errors"
	"github.com/abgdnv/salesledger/internal/store"
)

// Ledger checks and changes product stock through a product store,
// usually one bound to a transaction.
type Ledger struct {
	products store.ProductStore
}

func New(products store.ProductStore) *Ledger {
	return &Ledger{products: products}
}

// CheckAvailability reports whether the product exists and has at least required units.
// A missing product is reported as unavailable, not as an error.
func (l *Ledger) CheckAvailability(ctx context.Context, productID int32, required int32) (bool, error) {
	product, err := l.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, serrors.ErrProductNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return product.Stock >= required, nil
}

// ApplyDelta changes the product's stock by delta, negative to consume and positive to return.
// Returns ErrProductNotFound or ErrInsufficientStock without touching stock; a zero delta does nothing.
func (l *Ledger) ApplyDelta(ctx context.Context, productID int32, delta int32) error {
	if delta == 0 {
		return nil
	}
	if _, err := l.products.AddStock(ctx, productID, delta); err != nil {
		return fmt.Errorf("failed to apply stock delta %d to product %d: %w", delta, productID, err)
	}
	return nil
}
