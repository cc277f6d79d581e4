package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/nordpay/billing/internal/domain/model"
	"github.com/nordpay/billing/internal/domain/repository"
)

const (
	customerCount       = 100
	invoicesPerCustomer = 10
	minAmount           = 10
	maxAmount           = 500
)

// Seeder populates the database with demo customers and invoices so a fresh
// deployment has something to bill.
type Seeder struct {
	repos  repository.Factory
	logger *slog.Logger
}

// NewSeeder constructs Seeder.
func NewSeeder(repos repository.Factory, logger *slog.Logger) *Seeder {
	return &Seeder{repos: repos, logger: logger}
}

// Run creates demo data unless customers already exist. Every customer gets a
// random billing currency and ten invoices in that currency, the first one
// pending and the rest already paid.
func (s *Seeder) Run(ctx context.Context) error {
	existing, err := s.repos.Customers().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("check existing customers: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info("seed skipped, customers already present", slog.Int("customers", len(existing)))
		return nil
	}

	currencies := model.Currencies()
	for i := 0; i < customerCount; i++ {
		currency := currencies[rand.Intn(len(currencies))]
		customer, err := s.repos.Customers().Create(ctx, currency)
		if err != nil {
			return fmt.Errorf("seed customer: %w", err)
		}

		for j := 0; j < invoicesPerCustomer; j++ {
			status := model.InvoiceStatusPaid
			if j == 0 {
				status = model.InvoiceStatusPending
			}
			amount := model.NewMoney(randomAmount(), customer.Currency)
			if _, err := s.repos.Invoices().Create(ctx, customer.ID, amount, status); err != nil {
				return fmt.Errorf("seed invoice for customer %d: %w", customer.ID, err)
			}
		}
	}

	s.logger.Info("seeded demo data",
		slog.Int("customers", customerCount),
		slog.Int("invoices", customerCount*invoicesPerCustomer),
	)
	return nil
}

func randomAmount() decimal.Decimal {
	v := minAmount + rand.Float64()*(maxAmount-minAmount)
	return decimal.NewFromFloat(v).Round(2)
}
