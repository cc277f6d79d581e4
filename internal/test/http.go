package test

import (
	"context"

	"github.com/nordpay/billing/internal/domain/model"
	pkgAuth "github.com/nordpay/billing/internal/pkg/auth"
)

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	Subject string
	Err     error
	ParseFn func(string) (string, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Subject, nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(string) (string, error)
	ParseFn func(string) (string, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(subject string) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(subject)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "billing-admin", nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// InvoiceFacadeStub simulates invoice reads for HTTP layer tests.
type InvoiceFacadeStub struct {
	InvoicesFn func(context.Context) ([]model.Invoice, error)
	InvoiceFn  func(context.Context, int64) (*model.Invoice, error)
}

// Invoices lists configured invoices.
func (s InvoiceFacadeStub) Invoices(ctx context.Context) ([]model.Invoice, error) {
	if s.InvoicesFn != nil {
		return s.InvoicesFn(ctx)
	}
	return nil, nil
}

// Invoice returns a configured invoice by id.
func (s InvoiceFacadeStub) Invoice(ctx context.Context, id int64) (*model.Invoice, error) {
	if s.InvoiceFn != nil {
		return s.InvoiceFn(ctx, id)
	}
	return &model.Invoice{ID: id}, nil
}

// CustomerFacadeStub simulates customer reads for HTTP layer tests.
type CustomerFacadeStub struct {
	CustomersFn func(context.Context) ([]model.Customer, error)
	CustomerFn  func(context.Context, int64) (*model.Customer, error)
}

// Customers lists configured customers.
func (s CustomerFacadeStub) Customers(ctx context.Context) ([]model.Customer, error) {
	if s.CustomersFn != nil {
		return s.CustomersFn(ctx)
	}
	return nil, nil
}

// Customer returns a configured customer by id.
func (s CustomerFacadeStub) Customer(ctx context.Context, id int64) (*model.Customer, error) {
	if s.CustomerFn != nil {
		return s.CustomerFn(ctx, id)
	}
	return &model.Customer{ID: id}, nil
}

// ServiceFacadeStub aggregates facade dependencies for HTTP layer tests.
type ServiceFacadeStub struct {
	InvoiceFacadeStub
	CustomerFacadeStub
}

// CycleTriggerStub records billing cycle trigger requests.
type CycleTriggerStub struct {
	Result bool
	Calls  int
}

// TriggerCycle returns the configured result.
func (s *CycleTriggerStub) TriggerCycle() bool {
	s.Calls++
	return s.Result
}

// HealthCheckerStub reports a configurable readiness state.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}

var _ pkgAuth.Strategy = StrategyStub{}
