package test

import (
	"context"
	"sync"

	"github.com/nordpay/billing/internal/domain/model"
)

// StatusUpdateCall stores information about SetInvoiceStatus invocations.
type StatusUpdateCall struct {
	InvoiceID int64
	Status    model.InvoiceStatus
}

// BillingFacadeStub mimics runner interactions with the billing facade.
type BillingFacadeStub struct {
	Due         [][]model.DueInvoice
	ClaimFn     func(context.Context) ([]model.DueInvoice, error)
	ReconcileFn func(context.Context, model.DueInvoice) (model.Invoice, error)
	ChargeFn    func(context.Context, model.Invoice) (bool, error)
	UpdateFn    func(context.Context, int64, model.InvoiceStatus) error

	Updates     []StatusUpdateCall
	ChargeCalls map[int64]int

	mu         sync.Mutex
	claimCalls int
}

// Lock exposes internal mutex for external synchronization.
func (s *BillingFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *BillingFacadeStub) Unlock() { s.mu.Unlock() }

// ClaimDueInvoices returns configured claim batches in order, then nothing.
func (s *BillingFacadeStub) ClaimDueInvoices(ctx context.Context) ([]model.DueInvoice, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimCalls < len(s.Due) {
		batch := s.Due[s.claimCalls]
		s.claimCalls++
		return batch, nil
	}
	return nil, nil
}

// HasCurrencyMismatch compares invoice and customer currencies.
func (s *BillingFacadeStub) HasCurrencyMismatch(due model.DueInvoice) bool {
	return due.Invoice.Amount.Currency != due.Customer.Currency
}

// ReconcileInvoice delegates to the configured function or re-denominates
// the invoice into the customer currency keeping the value.
func (s *BillingFacadeStub) ReconcileInvoice(ctx context.Context, due model.DueInvoice) (model.Invoice, error) {
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, due)
	}
	invoice := due.Invoice
	invoice.Amount.Currency = due.Customer.Currency
	return invoice, nil
}

// Charge records the call and delegates to the configured function.
func (s *BillingFacadeStub) Charge(ctx context.Context, invoice model.Invoice) (bool, error) {
	s.mu.Lock()
	if s.ChargeCalls == nil {
		s.ChargeCalls = make(map[int64]int)
	}
	s.ChargeCalls[invoice.ID]++
	s.mu.Unlock()

	if s.ChargeFn != nil {
		return s.ChargeFn(ctx, invoice)
	}
	return true, nil
}

// SetInvoiceStatus records status write-backs.
func (s *BillingFacadeStub) SetInvoiceStatus(ctx context.Context, id int64, status model.InvoiceStatus) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Updates = append(s.Updates, StatusUpdateCall{InvoiceID: id, Status: status})
	return nil
}

// ChargeCount returns the recorded number of gateway calls for an invoice.
func (s *BillingFacadeStub) ChargeCount(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ChargeCalls[id]
}

// StatusOf returns the last recorded status write for an invoice.
func (s *BillingFacadeStub) StatusOf(id int64) (model.InvoiceStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.Updates) - 1; i >= 0; i-- {
		if s.Updates[i].InvoiceID == id {
			return s.Updates[i].Status, true
		}
	}
	return "", false
}
