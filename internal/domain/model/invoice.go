package model

import "time"

// InvoiceStatus describes the billing lifecycle of an invoice.
type InvoiceStatus string

const (
	// InvoiceStatusPending marks an invoice awaiting billing.
	InvoiceStatusPending InvoiceStatus = "PENDING"
	// InvoiceStatusSentForPayment marks an invoice claimed by an
	// in-progress billing cycle.
	InvoiceStatusSentForPayment InvoiceStatus = "SENT_FOR_PAYMENT"
	// InvoiceStatusPaid is terminal: the gateway accepted the charge.
	InvoiceStatusPaid InvoiceStatus = "PAID"
	// InvoiceStatusCustomerNotFound is terminal: the gateway could not
	// resolve the invoice's customer.
	InvoiceStatusCustomerNotFound InvoiceStatus = "CUSTOMER_NOT_FOUND"
	// InvoiceStatusCurrencyMismatch is terminal: the gateway rejected the
	// charge because of a currency problem.
	InvoiceStatusCurrencyMismatch InvoiceStatus = "CURRENCY_MISMATCH"
)

// Terminal reports whether no further automatic transition happens from s.
func (s InvoiceStatus) Terminal() bool {
	switch s {
	case InvoiceStatusPaid, InvoiceStatusCustomerNotFound, InvoiceStatusCurrencyMismatch:
		return true
	}
	return false
}

// Invoice is a transient copy of a persisted invoice held during a billing run.
type Invoice struct {
	ID         int64
	CustomerID int64
	Amount     Money
	Status     InvoiceStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DueInvoice pairs a claimed invoice with its owning customer.
type DueInvoice struct {
	Invoice  Invoice
	Customer Customer
}
