package service

import (
	"context"

	"github.com/abgdnv/salesledger/internal/store"
	"github.com/abgdnv/salesledger/internal/store/db"
	"github.com/shopspring/decimal"
)

// ProductService defines the product operations offered to the transports.
type ProductService interface {
	// FindByID returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int32) (*ProductDto, error)
	FindAll(ctx context.Context, offset, limit int32) ([]ProductDto, error)
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)
	// Update overwrites name, price and stock. It is the only way to set stock outside of sales.
	Update(ctx context.Context, id int32, product ProductUpdateDto) (*ProductDto, error)
	// Delete returns ErrProductInUse while sales reference the product.
	Delete(ctx context.Context, id int32) error
}

type ProductDto struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int32  `json:"stock"`
}

type ProductCreateDto struct {
	Name  string          `json:"name" validate:"required,max=255"`
	Price decimal.Decimal `json:"price"`
	Stock int32           `json:"stock" validate:"min=0"`
}

type ProductUpdateDto struct {
	Name  string          `json:"name" validate:"required,max=255"`
	Price decimal.Decimal `json:"price"`
	Stock int32           `json:"stock" validate:"min=0"`
}

// ProductCatalog implements ProductService.
type ProductCatalog struct {
	store store.UnitOfWork
}

func NewProductCatalog(s store.UnitOfWork) *ProductCatalog {
	return &ProductCatalog{store: s}
}

func (c *ProductCatalog) FindByID(ctx context.Context, id int32) (*ProductDto, error) {
	product, err := c.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductDto(product), nil
}

func (c *ProductCatalog) FindAll(ctx context.Context, offset, limit int32) ([]ProductDto, error) {
	products, err := c.store.Products().FindAll(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = *toProductDto(&products[i])
	}
	return dtos, nil
}

func (c *ProductCatalog) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	if err := validateStruct(product); err != nil {
		return nil, err
	}
	if err := checkPrice(product.Price); err != nil {
		return nil, err
	}
	created, err := c.store.Products().Create(ctx, &db.CreateProductParams{
		Name:  product.Name,
		Price: product.Price,
		Stock: product.Stock,
	})
	if err != nil {
		return nil, err
	}
	return toProductDto(created), nil
}

func (c *ProductCatalog) Update(ctx context.Context, id int32, product ProductUpdateDto) (*ProductDto, error) {
	if err := validateStruct(product); err != nil {
		return nil, err
	}
	if err := checkPrice(product.Price); err != nil {
		return nil, err
	}
	updated, err := c.store.Products().Update(ctx, &db.UpdateProductParams{
		ID:    id,
		Name:  product.Name,
		Price: product.Price,
		Stock: product.Stock,
	})
	if err != nil {
		return nil, err
	}
	return toProductDto(updated), nil
}

func (c *ProductCatalog) Delete(ctx context.Context, id int32) error {
	return c.store.Products().Delete(ctx, id)
}

func toProductDto(p *db.Product) *ProductDto {
	return &ProductDto{
		ID:    p.ID,
		Name:  p.Name,
		Price: money(p.Price),
		Stock: p.Stock,
	}
}
