package db

import (
	"context"

	"github.com/shopspring/decimal"
)

const productColumns = `product_id, name, price, stock`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var i Product
	err := row.Scan(&i.ID, &i.Name, &i.Price, &i.Stock)
	return i, err
}

const findProductByID = `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`

func (q *Queries) FindProductByID(ctx context.Context, id int32) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, findProductByID, id))
}

const findProducts = `SELECT ` + productColumns + ` FROM products ORDER BY product_id LIMIT $1 OFFSET $2`

type FindProductsParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) FindProducts(ctx context.Context, arg FindProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, findProducts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		i, err := scanProduct(rows)
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

// Prices are sent as text so the server parses them into NUMERIC without float rounding.
const createProduct = `INSERT INTO products (name, price, stock) VALUES ($1, $2::numeric, $3)
RETURNING ` + productColumns

type CreateProductParams struct {
	Name  string
	Price decimal.Decimal
	Stock int32
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, createProduct, arg.Name, arg.Price.String(), arg.Stock))
}

const updateProduct = `UPDATE products SET name = $2, price = $3::numeric, stock = $4 WHERE product_id = $1
RETURNING ` + productColumns

type UpdateProductParams struct {
	ID    int32
	Name  string
	Price decimal.Decimal
	Stock int32
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProduct, arg.ID, arg.Name, arg.Price.String(), arg.Stock))
}

const deleteProduct = `DELETE FROM products WHERE product_id = $1`

func (q *Queries) DeleteProduct(ctx context.Context, id int32) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// addProductStock never drives stock negative: the row is left untouched and no row is
// returned when the delta would do so.
const addProductStock = `UPDATE products SET stock = stock + $2 WHERE product_id = $1 AND stock + $2 >= 0
RETURNING ` + productColumns

type AddProductStockParams struct {
	ID    int32
	Delta int32
}

func (q *Queries) AddProductStock(ctx context.Context, arg AddProductStockParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, addProductStock, arg.ID, arg.Delta))
}
