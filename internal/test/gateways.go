package test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nordpay/billing/internal/domain/model"
)

// PaymentStub simulates the payment gateway capability.
type PaymentStub struct {
	ChargeFn func(context.Context, model.Invoice) (bool, error)

	mu    sync.Mutex
	calls map[int64]int
	total int
}

// Charge records the call and delegates to the configured function.
func (s *PaymentStub) Charge(ctx context.Context, invoice model.Invoice) (bool, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[int64]int)
	}
	s.calls[invoice.ID]++
	s.total++
	s.mu.Unlock()

	if s.ChargeFn != nil {
		return s.ChargeFn(ctx, invoice)
	}
	return true, nil
}

// Calls returns the number of charge calls for an invoice.
func (s *PaymentStub) Calls(invoiceID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[invoiceID]
}

// TotalCalls returns the overall number of charge calls.
func (s *PaymentStub) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// ExchangeStub simulates the currency exchange capability.
type ExchangeStub struct {
	ConvertFn func(context.Context, decimal.Decimal, model.Currency, model.Currency) (decimal.Decimal, error)

	mu    sync.Mutex
	total int
}

// Convert records the call and delegates to the configured function. By
// default the amount passes through unchanged.
func (s *ExchangeStub) Convert(ctx context.Context, amount decimal.Decimal, from, to model.Currency) (decimal.Decimal, error) {
	s.mu.Lock()
	s.total++
	s.mu.Unlock()

	if s.ConvertFn != nil {
		return s.ConvertFn(ctx, amount, from, to)
	}
	return amount, nil
}

// TotalCalls returns the overall number of convert calls.
func (s *ExchangeStub) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}
