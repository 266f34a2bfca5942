package store

import (
	"context"

	serrors "github.com/abgdnv/salesledger/internal/errors"
	"github.com/abgdnv/salesledger/internal/store/db"
)

type pgSaleStore struct {
	q *db.Queries
}

func (s *pgSaleStore) FindByID(ctx context.Context, id int32) (*db.Sale, error) {
	sale, err := s.q.FindSaleByID(ctx, id)
	if err != nil {
		return nil, translate(err, serrors.ErrSaleNotFound, "find sale by ID")
	}
	return &sale, nil
}

func (s *pgSaleStore) FindByIDForUpdate(ctx context.Context, id int32) (*db.Sale, error) {
	sale, err := s.q.FindSaleByIDForUpdate(ctx, id)
	if err != nil {
		return nil, translate(err, serrors.ErrSaleNotFound, "lock sale")
	}
	return &sale, nil
}

func (s *pgSaleStore) FindAll(ctx context.Context, offset, limit int32) ([]db.Sale, error) {
	sales, err := s.q.FindSales(ctx, db.FindSalesParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, translate(err, serrors.ErrNoRowsAffected, "find all sales")
	}
	return sales, nil
}

func (s *pgSaleStore) Create(ctx context.Context, params *db.CreateSaleParams) (*db.Sale, error) {
	sale, err := s.q.CreateSale(ctx, *params)
	if err != nil {
		return nil, translate(err, serrors.ErrNoRowsAffected, "create sale")
	}
	return &sale, nil
}

func (s *pgSaleStore) Update(ctx context.Context, params *db.UpdateSaleParams) (*db.Sale, error) {
	sale, err := s.q.UpdateSale(ctx, *params)
	if err != nil {
		return nil, translate(err, serrors.ErrSaleNotFound, "update sale")
	}
	return &sale, nil
}

func (s *pgSaleStore) Delete(ctx context.Context, id int32) error {
	count, err := s.q.DeleteSale(ctx, id)
	if err != nil {
		return translate(err, serrors.ErrSaleNotFound, "delete sale")
	}
	if count == 0 {
		return serrors.ErrSaleNotFound
	}
	return nil
}
