package repository

import (
	"context"

	"github.com/nordpay/billing/internal/domain/model"
)

// InvoiceRepository describes persistence operations with invoices. ClaimDue
// is the billing cycle's claim gateway: it must atomically flip every PENDING
// invoice to SENT_FOR_PAYMENT so that no concurrent cycle can observe the same
// invoice as due.
type InvoiceRepository interface {
	Create(ctx context.Context, customerID int64, amount model.Money, status model.InvoiceStatus) (*model.Invoice, error)
	GetByID(ctx context.Context, id int64) (*model.Invoice, error)
	GetAll(ctx context.Context) ([]model.Invoice, error)
	ClaimDue(ctx context.Context) ([]model.DueInvoice, error)
	SetStatus(ctx context.Context, id int64, status model.InvoiceStatus) (*model.Invoice, error)
}
