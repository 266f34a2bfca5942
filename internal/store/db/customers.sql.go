package db

import (
	"context"
)

const customerColumns = `customer_id, first_name, last_name, email, phone`

func scanCustomer(row interface{ Scan(...any) error }) (Customer, error) {
	var i Customer
	err := row.Scan(&i.ID, &i.FirstName, &i.LastName, &i.Email, &i.Phone)
	return i, err
}

func collectCustomers(ctx context.Context, q *Queries, sql string, args ...any) ([]Customer, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Customer{}
	for rows.Next() {
		i, err := scanCustomer(rows)
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

const findCustomerByID = `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1`

func (q *Queries) FindCustomerByID(ctx context.Context, id int32) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, findCustomerByID, id))
}

// Names are not unique; the lowest id wins.
const findCustomerByName = `SELECT ` + customerColumns + ` FROM customers
WHERE first_name = $1 AND last_name = $2 ORDER BY customer_id LIMIT 1`

func (q *Queries) FindCustomerByName(ctx context.Context, firstName, lastName string) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, findCustomerByName, firstName, lastName))
}

const findCustomers = `SELECT ` + customerColumns + ` FROM customers ORDER BY customer_id LIMIT $1 OFFSET $2`

type FindCustomersParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) FindCustomers(ctx context.Context, arg FindCustomersParams) ([]Customer, error) {
	return collectCustomers(ctx, q, findCustomers, arg.Limit, arg.Offset)
}

const createCustomer = `INSERT INTO customers (first_name, last_name, email, phone) VALUES ($1, $2, $3, $4)
RETURNING ` + customerColumns

type CreateCustomerParams struct {
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, createCustomer, arg.FirstName, arg.LastName, arg.Email, arg.Phone))
}

const updateCustomer = `UPDATE customers SET first_name = $2, last_name = $3, email = $4, phone = $5
WHERE customer_id = $1
RETURNING ` + customerColumns

type UpdateCustomerParams struct {
	ID        int32
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
}

func (q *Queries) UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, updateCustomer, arg.ID, arg.FirstName, arg.LastName, arg.Email, arg.Phone))
}

const deleteCustomer = `DELETE FROM customers WHERE customer_id = $1`

func (q *Queries) DeleteCustomer(ctx context.Context, id int32) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCustomer, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
