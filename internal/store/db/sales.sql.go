package db

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const saleColumns = `sale_id, product_id, customer_id, quantity, unit_price_at_sale, total_sale_price, sale_date`

func scanSale(row interface{ Scan(...any) error }) (Sale, error) {
	var i Sale
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&i.CustomerID,
		&i.Quantity,
		&i.UnitPriceAtSale,
		&i.TotalSalePrice,
		&i.SaleDate,
	)
	return i, err
}

const findSaleByID = `SELECT ` + saleColumns + ` FROM sales WHERE sale_id = $1`

func (q *Queries) FindSaleByID(ctx context.Context, id int32) (Sale, error) {
	return scanSale(q.db.QueryRow(ctx, findSaleByID, id))
}

const findSaleByIDForUpdate = findSaleByID + ` FOR UPDATE`

func (q *Queries) FindSaleByIDForUpdate(ctx context.Context, id int32) (Sale, error) {
	return scanSale(q.db.QueryRow(ctx, findSaleByIDForUpdate, id))
}

const findSales = `SELECT ` + saleColumns + ` FROM sales ORDER BY sale_id LIMIT $1 OFFSET $2`

type FindSalesParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) FindSales(ctx context.Context, arg FindSalesParams) ([]Sale, error) {
	rows, err := q.db.Query(ctx, findSales, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Sale{}
	for rows.Next() {
		i, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createSale = `INSERT INTO sales (product_id, customer_id, quantity, unit_price_at_sale, total_sale_price, sale_date)
VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6)
RETURNING ` + saleColumns

type CreateSaleParams struct {
	ProductID       int32
	CustomerID      int32
	Quantity        int32
	UnitPriceAtSale decimal.Decimal
	TotalSalePrice  decimal.Decimal
	SaleDate        time.Time
}

func (q *Queries) CreateSale(ctx context.Context, arg CreateSaleParams) (Sale, error) {
	return scanSale(q.db.QueryRow(ctx, createSale,
		arg.ProductID,
		arg.CustomerID,
		arg.Quantity,
		arg.UnitPriceAtSale.String(),
		arg.TotalSalePrice.String(),
		arg.SaleDate,
	))
}

const updateSale = `UPDATE sales
SET product_id = $2, customer_id = $3, quantity = $4, unit_price_at_sale = $5::numeric,
    total_sale_price = $6::numeric, sale_date = $7
WHERE sale_id = $1
RETURNING ` + saleColumns

type UpdateSaleParams struct {
	ID              int32
	ProductID       int32
	CustomerID      int32
	Quantity        int32
	UnitPriceAtSale decimal.Decimal
	TotalSalePrice  decimal.Decimal
	SaleDate        time.Time
}

func (q *Queries) UpdateSale(ctx context.Context, arg UpdateSaleParams) (Sale, error) {
	return scanSale(q.db.QueryRow(ctx, updateSale,
		arg.ID,
		arg.ProductID,
		arg.CustomerID,
		arg.Quantity,
		arg.UnitPriceAtSale.String(),
		arg.TotalSalePrice.String(),
		arg.SaleDate,
	))
}

const deleteSale = `DELETE FROM sales WHERE sale_id = $1`

func (q *Queries) DeleteSale(ctx context.Context, id int32) (int64, error) {
	result, err := q.db.Exec(ctx, deleteSale, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
