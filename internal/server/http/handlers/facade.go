package handlers

import (
	"context"

	"github.com/nordpay/billing/internal/domain/model"
)

// InvoiceFacade describes invoice reads exposed via HTTP.
type InvoiceFacade interface {
	Invoices(ctx context.Context) ([]model.Invoice, error)
	Invoice(ctx context.Context, id int64) (*model.Invoice, error)
}

// CustomerFacade describes customer reads exposed via HTTP.
type CustomerFacade interface {
	Customers(ctx context.Context) ([]model.Customer, error)
	Customer(ctx context.Context, id int64) (*model.Customer, error)
}

// BillingServiceFacade aggregates the operations used across handlers.
type BillingServiceFacade interface {
	InvoiceFacade
	CustomerFacade
}

// CycleTrigger requests an immediate billing cycle.
type CycleTrigger interface {
	TriggerCycle() bool
}

// HealthChecker verifies the service dependencies are reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
