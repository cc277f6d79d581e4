package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nordpay/billing/internal/domain/model"
	testhelpers "github.com/nordpay/billing/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSeederPopulatesDemoData(t *testing.T) {
	repos := testhelpers.NewFactoryStub()
	seeder := NewSeeder(repos, testLogger())

	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("seed returned error: %v", err)
	}

	customers, err := repos.Customers().GetAll(context.Background())
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(customers) != customerCount {
		t.Fatalf("expected %d customers, got %d", customerCount, len(customers))
	}

	invoices, err := repos.Invoices().GetAll(context.Background())
	if err != nil {
		t.Fatalf("list invoices: %v", err)
	}
	if len(invoices) != customerCount*invoicesPerCustomer {
		t.Fatalf("expected %d invoices, got %d", customerCount*invoicesPerCustomer, len(invoices))
	}

	currencies := make(map[int64]model.Currency, len(customers))
	for _, c := range customers {
		currencies[c.ID] = c.Currency
	}

	pendingByCustomer := make(map[int64]int)
	minValue := decimal.NewFromInt(minAmount)
	maxValue := decimal.NewFromInt(maxAmount)
	for _, invoice := range invoices {
		if invoice.Status == model.InvoiceStatusPending {
			pendingByCustomer[invoice.CustomerID]++
		} else if invoice.Status != model.InvoiceStatusPaid {
			t.Fatalf("unexpected seeded status %s", invoice.Status)
		}
		if invoice.Amount.Currency != currencies[invoice.CustomerID] {
			t.Fatalf("invoice %d not in customer currency", invoice.ID)
		}
		if invoice.Amount.Value.LessThan(minValue) || invoice.Amount.Value.GreaterThan(maxValue) {
			t.Fatalf("invoice %d amount %s out of range", invoice.ID, invoice.Amount.Value)
		}
	}

	for _, c := range customers {
		if pendingByCustomer[c.ID] != 1 {
			t.Fatalf("expected exactly one pending invoice for customer %d, got %d", c.ID, pendingByCustomer[c.ID])
		}
	}
}

func TestSeederSkipsWhenDataExists(t *testing.T) {
	repos := testhelpers.NewFactoryStub()
	if _, err := repos.Customers().Create(context.Background(), model.CurrencyEUR); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	seeder := NewSeeder(repos, testLogger())
	if err := seeder.Run(context.Background()); err != nil {
		t.Fatalf("seed returned error: %v", err)
	}

	customers, _ := repos.Customers().GetAll(context.Background())
	if len(customers) != 1 {
		t.Fatalf("expected seeding to be skipped, got %d customers", len(customers))
	}
	invoices, _ := repos.Invoices().GetAll(context.Background())
	if len(invoices) != 0 {
		t.Fatalf("expected no invoices, got %d", len(invoices))
	}
}
