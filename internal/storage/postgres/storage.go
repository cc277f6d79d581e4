package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/nordpay/billing/internal/domain/errors"
	"github.com/nordpay/billing/internal/domain/model"
	"github.com/nordpay/billing/internal/domain/repository"
)

// DB is the subset of pgxpool.Pool used by the storage. It is an interface so
// tests can substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DB
	logger *slog.Logger
}

type invoiceRepository struct {
	storage *Storage
}

type customerRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Invoices() repository.InvoiceRepository {
	return &invoiceRepository{storage: s}
}

func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
            id SERIAL PRIMARY KEY,
            currency TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS invoices (
            id SERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            amount NUMERIC(19,4) NOT NULL,
            currency TEXT NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- CustomerRepository implementation ---

func (r *customerRepository) Create(ctx context.Context, currency model.Currency) (*model.Customer, error) {
	const query = `INSERT INTO customers (currency) VALUES ($1) RETURNING id, created_at`
	c := model.Customer{Currency: currency}
	if err := r.storage.pool.QueryRow(ctx, query, string(currency)).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	const query = `SELECT id, currency, created_at FROM customers WHERE id=$1`
	var c model.Customer
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Currency, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) GetAll(ctx context.Context) ([]model.Customer, error) {
	const query = `SELECT id, currency, created_at FROM customers ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Currency, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- InvoiceRepository implementation ---

func (r *invoiceRepository) Create(ctx context.Context, customerID int64, amount model.Money, status model.InvoiceStatus) (*model.Invoice, error) {
	const query = `INSERT INTO invoices (customer_id, amount, currency, status)
                   VALUES ($1, $2, $3, $4)
                   RETURNING id, created_at, updated_at`
	inv := model.Invoice{CustomerID: customerID, Amount: amount, Status: status}
	err := r.storage.pool.QueryRow(ctx, query, customerID, amount.Value, string(amount.Currency), string(status)).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	const query = `SELECT id, customer_id, amount, currency, status, created_at, updated_at
                   FROM invoices WHERE id=$1`
	inv, err := scanInvoice(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepository) GetAll(ctx context.Context) ([]model.Invoice, error) {
	const query = `SELECT id, customer_id, amount, currency, status, created_at, updated_at
                   FROM invoices ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ClaimDue flips every PENDING invoice to SENT_FOR_PAYMENT and returns the
// claimed rows joined with their customers. The update and the read happen in
// a single statement, so two concurrent cycles can never claim the same
// invoice.
func (r *invoiceRepository) ClaimDue(ctx context.Context) ([]model.DueInvoice, error) {
	const query = `WITH claimed AS (
                       UPDATE invoices SET status=$2, updated_at=NOW()
                       WHERE status=$1
                       RETURNING id, customer_id, amount, currency, status, created_at, updated_at
                   )
                   SELECT cl.id, cl.customer_id, cl.amount, cl.currency, cl.status, cl.created_at, cl.updated_at,
                          cu.id, cu.currency, cu.created_at
                   FROM claimed cl
                   JOIN customers cu ON cu.id = cl.customer_id`

	rows, err := r.storage.pool.Query(ctx, query,
		string(model.InvoiceStatusPending), string(model.InvoiceStatusSentForPayment))
	if err != nil {
		return nil, fmt.Errorf("claim due invoices: %w", err)
	}
	defer rows.Close()

	var result []model.DueInvoice
	for rows.Next() {
		var (
			due      model.DueInvoice
			value    decimal.Decimal
			currency string
			status   string
		)
		err := rows.Scan(
			&due.Invoice.ID, &due.Invoice.CustomerID, &value, &currency, &status,
			&due.Invoice.CreatedAt, &due.Invoice.UpdatedAt,
			&due.Customer.ID, &due.Customer.Currency, &due.Customer.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		due.Invoice.Amount = model.Money{Value: value, Currency: model.Currency(currency)}
		due.Invoice.Status = model.InvoiceStatus(status)
		result = append(result, due)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *invoiceRepository) SetStatus(ctx context.Context, id int64, status model.InvoiceStatus) (*model.Invoice, error) {
	const query = `UPDATE invoices SET status=$1, updated_at=NOW()
                   WHERE id=$2
                   RETURNING id, customer_id, amount, currency, status, created_at, updated_at`
	inv, err := scanInvoice(r.storage.pool.QueryRow(ctx, query, string(status), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*model.Invoice, error) {
	var (
		inv      model.Invoice
		value    decimal.Decimal
		currency string
		status   string
	)
	err := row.Scan(&inv.ID, &inv.CustomerID, &value, &currency, &status, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Amount = model.Money{Value: value, Currency: model.Currency(currency)}
	inv.Status = model.InvoiceStatus(status)
	return &inv, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
