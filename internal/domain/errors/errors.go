package errors

import (
	"errors"
	"fmt"

	"github.com/nordpay/billing/internal/domain/model"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidCurrency = errors.New("invalid currency")
)

// NetworkError marks a transient failure talking to an external capability.
// Charges failing with it are retried with backoff; everything else is not.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: network failure", e.Op)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// CustomerNotFoundError is raised by the payment gateway when it cannot
// resolve the charged customer.
type CustomerNotFoundError struct {
	CustomerID int64
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer %d not found", e.CustomerID)
}

// CurrencyMismatchError is raised by the payment gateway when the invoice
// currency does not match the account currency on its side.
type CurrencyMismatchError struct {
	InvoiceID int64
	Invoice   model.Currency
	Account   model.Currency
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("invoice %d currency mismatch: invoice %s, account %s", e.InvoiceID, e.Invoice, e.Account)
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
