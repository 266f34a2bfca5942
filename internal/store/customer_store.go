package store

import (
	"context"

	serrors "github.com/abgdnv/salesledger/internal/errors"
	"github.com/abgdnv/salesledger/internal/store/db"
)

type pgCustomerStore struct {
	q *db.Queries
}

func (s *pgCustomerStore) FindByID(ctx context.Context, id int32) (*db.Customer, error) {
	customer, err := s.q.FindCustomerByID(ctx, id)
	if err != nil {
		return nil, translate(err, serrors.ErrCustomerNotFound, "find customer by ID")
	}
	return &customer, nil
}

func (s *pgCustomerStore) FindAll(ctx context.Context, offset, limit int32) ([]db.Customer, error) {
	customers, err := s.q.FindCustomers(ctx, db.FindCustomersParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, translate(err, serrors.ErrNoRowsAffected, "find all customers")
	}
	return customers, nil
}

func (s *pgCustomerStore) FindByName(ctx context.Context, firstName, lastName string) (*db.Customer, error) {
	customer, err := s.q.FindCustomerByName(ctx, firstName, lastName)
	if err != nil {
		return nil, translate(err, serrors.ErrCustomerNotFound, "find customer by name")
	}
	return &customer, nil
}

func (s *pgCustomerStore) Create(ctx context.Context, params *db.CreateCustomerParams) (*db.Customer, error) {
	customer, err := s.q.CreateCustomer(ctx, *params)
	if err != nil {
		return nil, translate(err, serrors.ErrNoRowsAffected, "create customer")
	}
	return &customer, nil
}

func (s *pgCustomerStore) Update(ctx context.Context, params *db.UpdateCustomerParams) (*db.Customer, error) {
	customer, err := s.q.UpdateCustomer(ctx, *params)
	if err != nil {
		return nil, translate(err, serrors.ErrCustomerNotFound, "update customer")
	}
	return &customer, nil
}

func (s *pgCustomerStore) Delete(ctx context.Context, id int32) error {
	count, err := s.q.DeleteCustomer(ctx, id)
	if err != nil {
		if isReferenced(err) {
			return serrors.ErrCustomerInUse
		}
		return translate(err, serrors.ErrCustomerNotFound, "delete customer")
	}
	if count == 0 {
		return serrors.ErrCustomerNotFound
	}
	return nil
}
