package repository

import (
	"context"

	"github.com/nordpay/billing/internal/domain/model"
)

// CustomerRepository describes persistence operations with customers.
type CustomerRepository interface {
	Create(ctx context.Context, currency model.Currency) (*model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	GetAll(ctx context.Context) ([]model.Customer, error)
}
