// Package store provides the repository access of the sales service.
package store

import (
	"context"

	"github.com/abgdnv/salesledger/internal/store/db"
)

// ProductStore is an interface for product storage operations.
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int32) (*db.Product, error)

	// FindAll returns products ordered by id. Returns an empty slice if no products exist.
	FindAll(ctx context.Context, offset, limit int32) ([]db.Product, error)

	// Create adds a new product. Returns ErrDuplicateProductName if the name is taken.
	Create(ctx context.Context, params *db.CreateProductParams) (*db.Product, error)

	// Update replaces a product's name, price and stock.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, params *db.UpdateProductParams) (*db.Product, error)

	// Delete removes a product. Returns ErrProductInUse while sales reference it.
	Delete(ctx context.Context, id int32) error

	// AddStock changes stock by delta in one conditional statement and returns the updated row.
	// Returns ErrProductNotFound or ErrInsufficientStock and leaves stock untouched when the
	// result would be negative.
	AddStock(ctx context.Context, id int32, delta int32) (*db.Product, error)
}

// CustomerStore is an interface for customer storage operations.
type CustomerStore interface {
	FindByID(ctx context.Context, id int32) (*db.Customer, error)
	FindAll(ctx context.Context, offset, limit int32) ([]db.Customer, error)
	// FindByName returns the first customer, by id, with exactly these names.
	FindByName(ctx context.Context, firstName, lastName string) (*db.Customer, error)
	Create(ctx context.Context, params *db.CreateCustomerParams) (*db.Customer, error)
	Update(ctx context.Context, params *db.UpdateCustomerParams) (*db.Customer, error)
	// Delete returns ErrCustomerInUse while sales reference the customer.
	Delete(ctx context.Context, id int32) error
}

// SaleStore is an interface for sale storage operations.
// It only writes sale rows; stock changes belong to the ledger.
type SaleStore interface {
	FindByID(ctx context.Context, id int32) (*db.Sale, error)
	// FindByIDForUpdate reads the sale and holds its row lock until the transaction ends.
	// Outside a transaction the lock is released as soon as the statement completes.
	FindByIDForUpdate(ctx context.Context, id int32) (*db.Sale, error)
	FindAll(ctx context.Context, offset, limit int32) ([]db.Sale, error)
	Create(ctx context.Context, params *db.CreateSaleParams) (*db.Sale, error)
	Update(ctx context.Context, params *db.UpdateSaleParams) (*db.Sale, error)
	Delete(ctx context.Context, id int32) error
}

// UnitOfWork groups the stores bound to one connection or transaction.
type UnitOfWork interface {
	Products() ProductStore
	Customers() CustomerStore
	Sales() SaleStore
}

// Transactor runs fn inside a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error
}

// Store gives pool-scoped stores for single statements and transactions for multi-step work.
type Store interface {
	UnitOfWork
	Transactor
}
