package model

import "time"

// Customer is the owner of invoices; its currency is the billing currency.
type Customer struct {
	ID        int64
	Currency  Currency
	CreatedAt time.Time
}
