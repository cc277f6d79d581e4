package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceResponse describes an invoice returned by the API.
type InvoiceResponse struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
