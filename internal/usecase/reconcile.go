package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nordpay/billing/internal/domain/model"
)

// ExchangeProvider converts an amount between currencies.
type ExchangeProvider interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to model.Currency) (decimal.Decimal, error)
}

// ReconcileUseCase detects and resolves mismatches between an invoice's
// currency and its customer's billing currency.
type ReconcileUseCase struct {
	exchange ExchangeProvider
}

// NewReconcileUseCase constructs ReconcileUseCase.
func NewReconcileUseCase(exchange ExchangeProvider) *ReconcileUseCase {
	return &ReconcileUseCase{exchange: exchange}
}

// HasMismatch reports whether the invoice is denominated in a currency other
// than the customer's billing currency.
func (u *ReconcileUseCase) HasMismatch(due model.DueInvoice) bool {
	return due.Invoice.Amount.Currency != due.Customer.Currency
}

// Reconcile returns a copy of the invoice re-denominated into the customer's
// currency. Failures are surfaced to the caller; the conversion is never
// retried here.
func (u *ReconcileUseCase) Reconcile(ctx context.Context, due model.DueInvoice) (model.Invoice, error) {
	converted, err := u.exchange.Convert(ctx, due.Invoice.Amount.Value, due.Invoice.Amount.Currency, due.Customer.Currency)
	if err != nil {
		return model.Invoice{}, fmt.Errorf("reconcile invoice %d: %w", due.Invoice.ID, err)
	}

	invoice := due.Invoice
	invoice.Amount = model.NewMoney(converted, due.Customer.Currency)
	return invoice, nil
}
