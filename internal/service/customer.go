package service

import (
	"context"

	"github.com/abgdnv/salesledger/internal/store"
	"github.com/abgdnv/salesledger/internal/store/db"
)

// CustomerService defines the customer operations offered to the transports.
type CustomerService interface {
	FindByID(ctx context.Context, id int32) (*CustomerDto, error)
	FindAll(ctx context.Context, offset, limit int32) ([]CustomerDto, error)
	// FindByName matches first and last name exactly and returns the oldest match.
	FindByName(ctx context.Context, firstName, lastName string) (*CustomerDto, error)
	Create(ctx context.Context, customer CustomerCreateDto) (*CustomerDto, error)
	Update(ctx context.Context, id int32, customer CustomerUpdateDto) (*CustomerDto, error)
	Delete(ctx context.Context, id int32) error
}

type CustomerDto struct {
	ID        int32   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

type CustomerCreateDto struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
}

type CustomerUpdateDto struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
}

type customerName struct {
	FirstName string `validate:"required,max=100"`
	LastName  string `validate:"required,max=100"`
}

// CustomerDirectory implements CustomerService.
type CustomerDirectory struct {
	store store.UnitOfWork
}

func NewCustomerDirectory(s store.UnitOfWork) *CustomerDirectory {
	return &CustomerDirectory{store: s}
}

func (d *CustomerDirectory) FindByID(ctx context.Context, id int32) (*CustomerDto, error) {
	customer, err := d.store.Customers().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerDto(customer), nil
}

func (d *CustomerDirectory) FindAll(ctx context.Context, offset, limit int32) ([]CustomerDto, error) {
	customers, err := d.store.Customers().FindAll(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]CustomerDto, len(customers))
	for i := range customers {
		dtos[i] = *toCustomerDto(&customers[i])
	}
	return dtos, nil
}

func (d *CustomerDirectory) FindByName(ctx context.Context, firstName, lastName string) (*CustomerDto, error) {
	if err := validateStruct(customerName{FirstName: firstName, LastName: lastName}); err != nil {
		return nil, err
	}
	customer, err := d.store.Customers().FindByName(ctx, firstName, lastName)
	if err != nil {
		return nil, err
	}
	return toCustomerDto(customer), nil
}

func (d *CustomerDirectory) Create(ctx context.Context, customer CustomerCreateDto) (*CustomerDto, error) {
	customer.Email, customer.Phone = emptyToNil(customer.Email), emptyToNil(customer.Phone)
	if err := validateStruct(customer); err != nil {
		return nil, err
	}
	created, err := d.store.Customers().Create(ctx, &db.CreateCustomerParams{
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Email:     customer.Email,
		Phone:     customer.Phone,
	})
	if err != nil {
		return nil, err
	}
	return toCustomerDto(created), nil
}

func (d *CustomerDirectory) Update(ctx context.Context, id int32, customer CustomerUpdateDto) (*CustomerDto, error) {
	customer.Email, customer.Phone = emptyToNil(customer.Email), emptyToNil(customer.Phone)
	if err := validateStruct(customer); err != nil {
		return nil, err
	}
	updated, err := d.store.Customers().Update(ctx, &db.UpdateCustomerParams{
		ID:        id,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Email:     customer.Email,
		Phone:     customer.Phone,
	})
	if err != nil {
		return nil, err
	}
	return toCustomerDto(updated), nil
}

func (d *CustomerDirectory) Delete(ctx context.Context, id int32) error {
	return d.store.Customers().Delete(ctx, id)
}

// emptyToNil treats a blank optional contact field as absent; it is stored as NULL.
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func toCustomerDto(c *db.Customer) *CustomerDto {
	return &CustomerDto{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	}
}
