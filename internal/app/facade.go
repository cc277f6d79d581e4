package app

import (
	"context"

	"github.com/nordpay/billing/internal/domain/model"
	"github.com/nordpay/billing/internal/usecase"
)

type PaymentProvider interface {
	Charge(ctx context.Context, invoice model.Invoice) (bool, error)
}

type BillingFacade struct {
	invoices  *usecase.InvoiceUseCase
	customers *usecase.CustomerUseCase
	reconcile *usecase.ReconcileUseCase
	payments  PaymentProvider
}

func NewBillingFacade(invoices *usecase.InvoiceUseCase, customers *usecase.CustomerUseCase, reconcile *usecase.ReconcileUseCase, payments PaymentProvider) *BillingFacade {
	return &BillingFacade{invoices: invoices, customers: customers, reconcile: reconcile, payments: payments}
}

func (f *BillingFacade) Invoices(ctx context.Context) ([]model.Invoice, error) {
	return f.invoices.List(ctx)
}

func (f *BillingFacade) Invoice(ctx context.Context, id int64) (*model.Invoice, error) {
	return f.invoices.Get(ctx, id)
}

func (f *BillingFacade) Customers(ctx context.Context) ([]model.Customer, error) {
	return f.customers.List(ctx)
}

func (f *BillingFacade) Customer(ctx context.Context, id int64) (*model.Customer, error) {
	return f.customers.Get(ctx, id)
}

func (f *BillingFacade) ClaimDueInvoices(ctx context.Context) ([]model.DueInvoice, error) {
	return f.invoices.ClaimDue(ctx)
}

func (f *BillingFacade) HasCurrencyMismatch(due model.DueInvoice) bool {
	return f.reconcile.HasMismatch(due)
}

func (f *BillingFacade) ReconcileInvoice(ctx context.Context, due model.DueInvoice) (model.Invoice, error) {
	return f.reconcile.Reconcile(ctx, due)
}

func (f *BillingFacade) Charge(ctx context.Context, invoice model.Invoice) (bool, error) {
	return f.payments.Charge(ctx, invoice)
}

func (f *BillingFacade) SetInvoiceStatus(ctx context.Context, id int64, status model.InvoiceStatus) error {
	_, err := f.invoices.SetStatus(ctx, id, status)
	return err
}
