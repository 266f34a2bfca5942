package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	serrors "github.com/abgdnv/salesledger/internal/errors"
	"github.com/abgdnv/salesledger/internal/store"
	"github.com/abgdnv/salesledger/internal/store/db"
	"github.com/abgdnv/salesledger/pkg/messaging"
)

// memState is one consistent snapshot of all tables.
type memState struct {
	products  map[int32]db.Product
	customers map[int32]db.Customer
	sales     map[int32]db.Sale
	nextSale  int32
}

func (s *memState) clone() *memState {
	return &memState{
		products:  maps.Clone(s.products),
		customers: maps.Clone(s.customers),
		sales:     maps.Clone(s.sales),
		nextSale:  s.nextSale,
	}
}

// memStore is an in-memory store.Store. A transaction works on a copy of the state which
// replaces the committed state only when the callback succeeds.
type memStore struct {
	mu        sync.Mutex
	state     *memState
	commitErr error
	// failures injects an error into the named write step inside transactions:
	// "sale.create", "sale.update", "sale.delete", "product.add_stock".
	failures map[string]error
	// saleLocks counts the sale row locks taken by committed and rolled back transactions.
	saleLocks map[int32]int
}

func newMemStore() *memStore {
	return &memStore{
		state: &memState{
			products:  map[int32]db.Product{},
			customers: map[int32]db.Customer{},
			sales:     map[int32]db.Sale{},
			nextSale:  1,
		},
		failures:  map[string]error{},
		saleLocks: map[int32]int{},
	}
}

func (m *memStore) Products() store.ProductStore   { return &memProducts{tx: m.view()} }
func (m *memStore) Customers() store.CustomerStore { return &memCustomers{tx: m.view()} }
func (m *memStore) Sales() store.SaleStore         { return &memSales{tx: m.view()} }

// view is a non-transactional handle: writes go straight to the committed state.
func (m *memStore) view() *memTx {
	return &memTx{state: m.state, failures: map[string]error{}}
}

func (m *memStore) WithinTx(_ context.Context, fn func(uow store.UnitOfWork) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memTx{state: m.state.clone(), failures: m.failures, locked: m.saleLocks}
	if err := fn(tx); err != nil {
		return err
	}
	if m.commitErr != nil {
		return m.commitErr
	}
	m.state = tx.state
	return nil
}

func (m *memStore) product(id int32) db.Product {
	return m.state.products[id]
}

func (m *memStore) sale(id int32) (db.Sale, bool) {
	s, ok := m.state.sales[id]
	return s, ok
}

type memTx struct {
	state    *memState
	failures map[string]error
	// locked counts row locks taken per sale ID; nil outside transactions.
	locked map[int32]int
}

func (t *memTx) Products() store.ProductStore   { return &memProducts{tx: t} }
func (t *memTx) Customers() store.CustomerStore { return &memCustomers{tx: t} }
func (t *memTx) Sales() store.SaleStore         { return &memSales{tx: t} }

type memProducts struct{ tx *memTx }

func (p *memProducts) FindByID(_ context.Context, id int32) (*db.Product, error) {
	product, ok := p.tx.state.products[id]
	if !ok {
		return nil, serrors.ErrProductNotFound
	}
	return &product, nil
}

func (p *memProducts) FindAll(_ context.Context, offset, limit int32) ([]db.Product, error) {
	ids := slices.Sorted(maps.Keys(p.tx.state.products))
	out := []db.Product{}
	for _, id := range page(ids, offset, limit) {
		out = append(out, p.tx.state.products[id])
	}
	return out, nil
}

func (p *memProducts) Create(_ context.Context, params *db.CreateProductParams) (*db.Product, error) {
	for _, existing := range p.tx.state.products {
		if existing.Name == params.Name {
			return nil, serrors.ErrDuplicateProductName
		}
	}
	product := db.Product{ID: int32(len(p.tx.state.products) + 1), Name: params.Name, Price: params.Price, Stock: params.Stock}
	p.tx.state.products[product.ID] = product
	return &product, nil
}

func (p *memProducts) Update(_ context.Context, params *db.UpdateProductParams) (*db.Product, error) {
	if _, ok := p.tx.state.products[params.ID]; !ok {
		return nil, serrors.ErrProductNotFound
	}
	product := db.Product{ID: params.ID, Name: params.Name, Price: params.Price, Stock: params.Stock}
	p.tx.state.products[product.ID] = product
	return &product, nil
}

func (p *memProducts) Delete(_ context.Context, id int32) error {
	if _, ok := p.tx.state.products[id]; !ok {
		return serrors.ErrProductNotFound
	}
	for _, sale := range p.tx.state.sales {
		if sale.ProductID == id {
			return serrors.ErrProductInUse
		}
	}
	delete(p.tx.state.products, id)
	return nil
}

func (p *memProducts) AddStock(_ context.Context, id int32, delta int32) (*db.Product, error) {
	if err := p.tx.failures["product.add_stock"]; err != nil {
		return nil, err
	}
	product, ok := p.tx.state.products[id]
	if !ok {
		return nil, serrors.ErrProductNotFound
	}
	if product.Stock+delta < 0 {
		return nil, serrors.ErrInsufficientStock
	}
	product.Stock += delta
	p.tx.state.products[id] = product
	return &product, nil
}

type memCustomers struct{ tx *memTx }

func (c *memCustomers) FindByID(_ context.Context, id int32) (*db.Customer, error) {
	customer, ok := c.tx.state.customers[id]
	if !ok {
		return nil, serrors.ErrCustomerNotFound
	}
	return &customer, nil
}

func (c *memCustomers) FindAll(_ context.Context, offset, limit int32) ([]db.Customer, error) {
	ids := slices.Sorted(maps.Keys(c.tx.state.customers))
	out := []db.Customer{}
	for _, id := range page(ids, offset, limit) {
		out = append(out, c.tx.state.customers[id])
	}
	return out, nil
}

func (c *memCustomers) FindByName(_ context.Context, firstName, lastName string) (*db.Customer, error) {
	for _, id := range slices.Sorted(maps.Keys(c.tx.state.customers)) {
		customer := c.tx.state.customers[id]
		if customer.FirstName == firstName && customer.LastName == lastName {
			return &customer, nil
		}
	}
	return nil, serrors.ErrCustomerNotFound
}

func (c *memCustomers) Create(_ context.Context, params *db.CreateCustomerParams) (*db.Customer, error) {
	if params.Email != nil {
		for _, existing := range c.tx.state.customers {
			if existing.Email != nil && *existing.Email == *params.Email {
				return nil, serrors.ErrDuplicateEmail
			}
		}
	}
	customer := db.Customer{
		ID:        int32(len(c.tx.state.customers) + 1),
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
		Phone:     params.Phone,
	}
	c.tx.state.customers[customer.ID] = customer
	return &customer, nil
}

func (c *memCustomers) Update(_ context.Context, params *db.UpdateCustomerParams) (*db.Customer, error) {
	if _, ok := c.tx.state.customers[params.ID]; !ok {
		return nil, serrors.ErrCustomerNotFound
	}
	customer := db.Customer{
		ID:        params.ID,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
		Phone:     params.Phone,
	}
	c.tx.state.customers[customer.ID] = customer
	return &customer, nil
}

func (c *memCustomers) Delete(_ context.Context, id int32) error {
	if _, ok := c.tx.state.customers[id]; !ok {
		return serrors.ErrCustomerNotFound
	}
	for _, sale := range c.tx.state.sales {
		if sale.CustomerID == id {
			return serrors.ErrCustomerInUse
		}
	}
	delete(c.tx.state.customers, id)
	return nil
}

type memSales struct{ tx *memTx }

func (s *memSales) FindByID(_ context.Context, id int32) (*db.Sale, error) {
	sale, ok := s.tx.state.sales[id]
	if !ok {
		return nil, serrors.ErrSaleNotFound
	}
	return &sale, nil
}

func (s *memSales) FindByIDForUpdate(ctx context.Context, id int32) (*db.Sale, error) {
	if s.tx.locked != nil {
		s.tx.locked[id]++
	}
	return s.FindByID(ctx, id)
}

func (s *memSales) FindAll(_ context.Context, offset, limit int32) ([]db.Sale, error) {
	ids := slices.Sorted(maps.Keys(s.tx.state.sales))
	out := []db.Sale{}
	for _, id := range page(ids, offset, limit) {
		out = append(out, s.tx.state.sales[id])
	}
	return out, nil
}

func (s *memSales) Create(_ context.Context, params *db.CreateSaleParams) (*db.Sale, error) {
	if err := s.tx.failures["sale.create"]; err != nil {
		return nil, err
	}
	sale := db.Sale{
		ID:              s.tx.state.nextSale,
		ProductID:       params.ProductID,
		CustomerID:      params.CustomerID,
		Quantity:        params.Quantity,
		UnitPriceAtSale: params.UnitPriceAtSale,
		TotalSalePrice:  params.TotalSalePrice,
		SaleDate:        params.SaleDate,
	}
	s.tx.state.nextSale++
	s.tx.state.sales[sale.ID] = sale
	return &sale, nil
}

func (s *memSales) Update(_ context.Context, params *db.UpdateSaleParams) (*db.Sale, error) {
	if err := s.tx.failures["sale.update"]; err != nil {
		return nil, err
	}
	if _, ok := s.tx.state.sales[params.ID]; !ok {
		return nil, serrors.ErrSaleNotFound
	}
	sale := db.Sale{
		ID:              params.ID,
		ProductID:       params.ProductID,
		CustomerID:      params.CustomerID,
		Quantity:        params.Quantity,
		UnitPriceAtSale: params.UnitPriceAtSale,
		TotalSalePrice:  params.TotalSalePrice,
		SaleDate:        params.SaleDate,
	}
	s.tx.state.sales[sale.ID] = sale
	return &sale, nil
}

func (s *memSales) Delete(_ context.Context, id int32) error {
	if err := s.tx.failures["sale.delete"]; err != nil {
		return err
	}
	if _, ok := s.tx.state.sales[id]; !ok {
		return serrors.ErrSaleNotFound
	}
	delete(s.tx.state.sales, id)
	return nil
}

func page(ids []int32, offset, limit int32) []int32 {
	if int(offset) >= len(ids) {
		return nil
	}
	end := min(int(offset)+int(limit), len(ids))
	return ids[offset:end]
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []messaging.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event messaging.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

var errInjected = errors.New("injected failure")
