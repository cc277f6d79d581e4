package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/nordpay/billing/internal/domain/errors"
	"github.com/nordpay/billing/internal/domain/model"
	"github.com/nordpay/billing/internal/domain/repository"
)

// CustomerRepositoryStub stores customers in-memory for tests.
type CustomerRepositoryStub struct {
	mu        sync.Mutex
	Customers map[int64]*model.Customer
	Next      int64
	Err       error
}

// NewCustomerRepositoryStub constructs stub repository with initialized maps.
func NewCustomerRepositoryStub() *CustomerRepositoryStub {
	return &CustomerRepositoryStub{
		Customers: make(map[int64]*model.Customer),
		Next:      1,
	}
}

// Create registers a new customer unless the stub has an explicit error.
func (s *CustomerRepositoryStub) Create(ctx context.Context, currency model.Currency) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Customers == nil {
		s.Customers = make(map[int64]*model.Customer)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	customer := &model.Customer{ID: s.Next, Currency: currency, CreatedAt: time.Now()}
	s.Next++
	s.Customers[customer.ID] = customer
	return customer, nil
}

// GetByID fetches customer by id or returns not found.
func (s *CustomerRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if customer, ok := s.Customers[id]; ok {
		copied := *customer
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetAll returns every stored customer ordered by id.
func (s *CustomerRepositoryStub) GetAll(ctx context.Context) ([]model.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]model.Customer, 0, len(s.Customers))
	for id := int64(1); id < s.Next; id++ {
		if customer, ok := s.Customers[id]; ok {
			result = append(result, *customer)
		}
	}
	return result, nil
}

// InvoiceRepositoryStub stores invoices in-memory and implements the claim
// semantics of the real storage: ClaimDue flips PENDING rows to
// SENT_FOR_PAYMENT and joins them with customers.
type InvoiceRepositoryStub struct {
	mu        sync.Mutex
	Invoices  map[int64]*model.Invoice
	Customers *CustomerRepositoryStub
	Next      int64
	Err       error
}

// NewInvoiceRepositoryStub constructs stub repository bound to a customer stub.
func NewInvoiceRepositoryStub(customers *CustomerRepositoryStub) *InvoiceRepositoryStub {
	return &InvoiceRepositoryStub{
		Invoices:  make(map[int64]*model.Invoice),
		Customers: customers,
		Next:      1,
	}
}

// Create stores an invoice.
func (s *InvoiceRepositoryStub) Create(ctx context.Context, customerID int64, amount model.Money, status model.InvoiceStatus) (*model.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Invoices == nil {
		s.Invoices = make(map[int64]*model.Invoice)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	now := time.Now()
	invoice := &model.Invoice{
		ID:         s.Next,
		CustomerID: customerID,
		Amount:     amount,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.Next++
	s.Invoices[invoice.ID] = invoice
	copied := *invoice
	return &copied, nil
}

// GetByID fetches invoice by id or returns not found.
func (s *InvoiceRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if invoice, ok := s.Invoices[id]; ok {
		copied := *invoice
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetAll returns every stored invoice ordered by id.
func (s *InvoiceRepositoryStub) GetAll(ctx context.Context) ([]model.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]model.Invoice, 0, len(s.Invoices))
	for id := int64(1); id < s.Next; id++ {
		if invoice, ok := s.Invoices[id]; ok {
			result = append(result, *invoice)
		}
	}
	return result, nil
}

// ClaimDue claims every pending invoice.
func (s *InvoiceRepositoryStub) ClaimDue(ctx context.Context) ([]model.DueInvoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.DueInvoice
	for id := int64(1); id < s.Next; id++ {
		invoice, ok := s.Invoices[id]
		if !ok || invoice.Status != model.InvoiceStatusPending {
			continue
		}
		invoice.Status = model.InvoiceStatusSentForPayment
		invoice.UpdatedAt = time.Now()

		due := model.DueInvoice{Invoice: *invoice}
		if s.Customers != nil {
			if customer, ok := s.Customers.Customers[invoice.CustomerID]; ok {
				due.Customer = *customer
			}
		}
		result = append(result, due)
	}
	return result, nil
}

// SetStatus updates invoice status or returns not found.
func (s *InvoiceRepositoryStub) SetStatus(ctx context.Context, id int64, status model.InvoiceStatus) (*model.Invoice, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	invoice, ok := s.Invoices[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	invoice.Status = status
	invoice.UpdatedAt = time.Now()
	copied := *invoice
	return &copied, nil
}

// FactoryStub bundles the repository stubs behind the factory interface.
type FactoryStub struct {
	InvoiceRepo  *InvoiceRepositoryStub
	CustomerRepo *CustomerRepositoryStub
}

// NewFactoryStub constructs a factory with linked repository stubs.
func NewFactoryStub() *FactoryStub {
	customers := NewCustomerRepositoryStub()
	return &FactoryStub{
		InvoiceRepo:  NewInvoiceRepositoryStub(customers),
		CustomerRepo: customers,
	}
}

// Invoices returns the invoice repository stub.
func (f *FactoryStub) Invoices() repository.InvoiceRepository { return f.InvoiceRepo }

// Customers returns the customer repository stub.
func (f *FactoryStub) Customers() repository.CustomerRepository { return f.CustomerRepo }

// StatusOf returns the current status of a stored invoice.
func (s *InvoiceRepositoryStub) StatusOf(id int64) model.InvoiceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if invoice, ok := s.Invoices[id]; ok {
		return invoice.Status
	}
	return ""
}
