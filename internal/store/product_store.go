package store

import (
	"context"
	"errors"

	serrors "github.com/abgdnv/salesledger/internal/errors"
	"github.com/abgdnv/salesledger/internal/store/db"
	"github.com/jackc/pgx/v5"
)

type pgProductStore struct {
	q *db.Queries
}

func (s *pgProductStore) FindByID(ctx context.Context, id int32) (*db.Product, error) {
	product, err := s.q.FindProductByID(ctx, id)
	if err != nil {
		return nil, translate(err, serrors.ErrProductNotFound, "find product by ID")
	}
	return &product, nil
}

func (s *pgProductStore) FindAll(ctx context.Context, offset, limit int32) ([]db.Product, error) {
	products, err := s.q.FindProducts(ctx, db.FindProductsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, translate(err, serrors.ErrNoRowsAffected, "find all products")
	}
	return products, nil
}

func (s *pgProductStore) Create(ctx context.Context, params *db.CreateProductParams) (*db.Product, error) {
	product, err := s.q.CreateProduct(ctx, *params)
	if err != nil {
		return nil, translate(err, serrors.ErrNoRowsAffected, "create product")
	}
	return &product, nil
}

func (s *pgProductStore) Update(ctx context.Context, params *db.UpdateProductParams) (*db.Product, error) {
	product, err := s.q.UpdateProduct(ctx, *params)
	if err != nil {
		return nil, translate(err, serrors.ErrProductNotFound, "update product")
	}
	return &product, nil
}

func (s *pgProductStore) Delete(ctx context.Context, id int32) error {
	count, err := s.q.DeleteProduct(ctx, id)
	if err != nil {
		if isReferenced(err) {
			return serrors.ErrProductInUse
		}
		return translate(err, serrors.ErrProductNotFound, "delete product")
	}
	if count == 0 {
		return serrors.ErrProductNotFound
	}
	return nil
}

func (s *pgProductStore) AddStock(ctx context.Context, id int32, delta int32) (*db.Product, error) {
	product, err := s.q.AddProductStock(ctx, db.AddProductStockParams{ID: id, Delta: delta})
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translate(err, serrors.ErrProductNotFound, "add product stock")
	}
	// Nothing updated: either the product is gone or the guard rejected the delta.
	if _, err := s.q.FindProductByID(ctx, id); err != nil {
		return nil, translate(err, serrors.ErrProductNotFound, "find product by ID")
	}
	return nil, serrors.ErrInsufficientStock
}
