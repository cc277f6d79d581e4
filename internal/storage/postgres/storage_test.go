package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/nordpay/billing/internal/domain/errors"
	"github.com/nordpay/billing/internal/domain/model"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS customers").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS invoices").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_invoices_status").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
}

func invoiceColumns() []string {
	return []string{"id", "customer_id", "amount", "currency", "status", "created_at", "updated_at"}
}

func TestInitSchema(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	expectSchema(mock)

	if err := storage.initSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInvoiceClaimDueReturnsJoinedPairs(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	now := time.Now()
	amount := decimal.RequireFromString("125.40")
	rows := pgxmockv3.NewRows([]string{
		"id", "customer_id", "amount", "currency", "status", "created_at", "updated_at",
		"cu_id", "cu_currency", "cu_created_at",
	}).AddRow(
		int64(1), int64(7), amount, "DKK", "SENT_FOR_PAYMENT", now, now,
		int64(7), model.CurrencyUSD, now,
	)
	mock.ExpectQuery("WITH claimed AS").
		WithArgs("PENDING", "SENT_FOR_PAYMENT").
		WillReturnRows(rows)

	due, err := storage.Invoices().ClaimDue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected one claimed invoice, got %d", len(due))
	}
	if due[0].Invoice.Status != model.InvoiceStatusSentForPayment {
		t.Fatalf("expected claimed status, got %s", due[0].Invoice.Status)
	}
	if !due[0].Invoice.Amount.Value.Equal(amount) {
		t.Fatalf("expected amount %s, got %s", amount, due[0].Invoice.Amount.Value)
	}
	if due[0].Customer.ID != 7 || due[0].Customer.Currency != model.CurrencyUSD {
		t.Fatalf("unexpected customer %+v", due[0].Customer)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInvoiceClaimDueEmpty(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("WITH claimed AS").
		WithArgs("PENDING", "SENT_FOR_PAYMENT").
		WillReturnRows(pgxmockv3.NewRows([]string{"id"}))

	due, err := storage.Invoices().ClaimDue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected empty claim, got %d", len(due))
	}
}

func TestInvoiceSetStatusNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE invoices SET status=").
		WithArgs("PAID", int64(99)).
		WillReturnRows(pgxmockv3.NewRows(invoiceColumns()))

	_, err := storage.Invoices().SetStatus(context.Background(), 99, model.InvoiceStatusPaid)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInvoiceSetStatusReturnsUpdatedInvoice(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("UPDATE invoices SET status=").
		WithArgs("PAID", int64(3)).
		WillReturnRows(pgxmockv3.NewRows(invoiceColumns()).
			AddRow(int64(3), int64(1), decimal.RequireFromString("10"), "EUR", "PAID", now, now))

	inv, err := storage.Invoices().SetStatus(context.Background(), 3, model.InvoiceStatusPaid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Status != model.InvoiceStatusPaid {
		t.Fatalf("expected PAID, got %s", inv.Status)
	}
	if inv.Amount.Currency != model.CurrencyEUR {
		t.Fatalf("expected EUR, got %s", inv.Amount.Currency)
	}
}

func TestInvoiceGetByIDNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, customer_id, amount, currency, status, created_at, updated_at").
		WithArgs(int64(404)).
		WillReturnRows(pgxmockv3.NewRows(invoiceColumns()))

	_, err := storage.Invoices().GetByID(context.Background(), 404)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInvoiceGetAll(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT id, customer_id, amount, currency, status, created_at, updated_at").
		WillReturnRows(pgxmockv3.NewRows(invoiceColumns()).
			AddRow(int64(1), int64(1), decimal.RequireFromString("10"), "EUR", "PENDING", now, now).
			AddRow(int64(2), int64(1), decimal.RequireFromString("20"), "EUR", "PAID", now, now))

	invoices, err := storage.Invoices().GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(invoices) != 2 {
		t.Fatalf("expected two invoices, got %d", len(invoices))
	}
	if invoices[1].Status != model.InvoiceStatusPaid {
		t.Fatalf("unexpected status %s", invoices[1].Status)
	}
}

func TestInvoiceCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	now := time.Now()
	amount := model.NewMoney(decimal.RequireFromString("42.00"), model.CurrencySEK)
	mock.ExpectQuery("INSERT INTO invoices").
		WithArgs(int64(5), amount.Value, "SEK", "PENDING").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	inv, err := storage.Invoices().Create(context.Background(), 5, amount, model.InvoiceStatusPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.ID != 11 || inv.CustomerID != 5 {
		t.Fatalf("unexpected invoice %+v", inv)
	}
}

func TestCustomerCreateAndGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO customers").
		WithArgs("GBP").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(9), now))

	customer, err := storage.Customers().Create(context.Background(), model.CurrencyGBP)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.ID != 9 || customer.Currency != model.CurrencyGBP {
		t.Fatalf("unexpected customer %+v", customer)
	}

	mock.ExpectQuery("SELECT id, currency, created_at FROM customers").
		WithArgs(int64(12)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "currency", "created_at"}))

	if _, err := storage.Customers().GetByID(context.Background(), 12); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
