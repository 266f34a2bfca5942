package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID    int32
	Name  string
	Price decimal.Decimal
	Stock int32
}

type Customer struct {
	ID        int32
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
}

// Sale is one inventory-affecting event. UnitPriceAtSale is captured when the sale is
// recorded and does not follow later product price changes.
type Sale struct {
	ID              int32
	ProductID       int32
	CustomerID      int32
	Quantity        int32
	UnitPriceAtSale decimal.Decimal
	TotalSalePrice  decimal.Decimal
	SaleDate        time.Time
}
