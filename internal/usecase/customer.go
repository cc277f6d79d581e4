package usecase

import (
	"context"

	"github.com/nordpay/billing/internal/domain/model"
	"github.com/nordpay/billing/internal/domain/repository"
)

// CustomerUseCase encapsulates customer read paths.
type CustomerUseCase struct {
	customers repository.CustomerRepository
}

// NewCustomerUseCase constructs CustomerUseCase.
func NewCustomerUseCase(customers repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customers: customers}
}

// List returns every customer.
func (u *CustomerUseCase) List(ctx context.Context) ([]model.Customer, error) {
	return u.customers.GetAll(ctx)
}

// Get returns a customer by id, or domain ErrNotFound.
func (u *CustomerUseCase) Get(ctx context.Context, id int64) (*model.Customer, error) {
	return u.customers.GetByID(ctx, id)
}
