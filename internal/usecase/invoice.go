package usecase

import (
	"context"

	"github.com/nordpay/billing/internal/domain/model"
	"github.com/nordpay/billing/internal/domain/repository"
)

// InvoiceUseCase encapsulates invoice lifecycle logic.
type InvoiceUseCase struct {
	invoices repository.InvoiceRepository
}

// NewInvoiceUseCase constructs InvoiceUseCase.
func NewInvoiceUseCase(invoices repository.InvoiceRepository) *InvoiceUseCase {
	return &InvoiceUseCase{invoices: invoices}
}

// List returns every invoice.
func (u *InvoiceUseCase) List(ctx context.Context) ([]model.Invoice, error) {
	return u.invoices.GetAll(ctx)
}

// Get returns an invoice by id, or domain ErrNotFound.
func (u *InvoiceUseCase) Get(ctx context.Context, id int64) (*model.Invoice, error) {
	return u.invoices.GetByID(ctx, id)
}

// ClaimDue atomically claims every pending invoice for the current billing
// cycle and returns the claimed invoices paired with their customers.
func (u *InvoiceUseCase) ClaimDue(ctx context.Context) ([]model.DueInvoice, error) {
	return u.invoices.ClaimDue(ctx)
}

// SetStatus persists an invoice status transition.
func (u *InvoiceUseCase) SetStatus(ctx context.Context, id int64, status model.InvoiceStatus) (*model.Invoice, error) {
	return u.invoices.SetStatus(ctx, id, status)
}
