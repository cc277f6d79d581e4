package model

import "github.com/shopspring/decimal"

// Money is an exact monetary amount in a single currency.
type Money struct {
	Value    decimal.Decimal
	Currency Currency
}

// NewMoney constructs a Money value.
func NewMoney(value decimal.Decimal, currency Currency) Money {
	return Money{Value: value, Currency: currency}
}

// Equal reports whether both amount and currency match.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Value.Equal(other.Value)
}

func (m Money) String() string {
	return m.Value.String() + " " + string(m.Currency)
}
