package model

import "fmt"

// Currency is an ISO 4217 code supported by the billing engine.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyDKK Currency = "DKK"
	CurrencySEK Currency = "SEK"
	CurrencyGBP Currency = "GBP"
)

var supportedCurrencies = []Currency{
	CurrencyEUR,
	CurrencyUSD,
	CurrencyDKK,
	CurrencySEK,
	CurrencyGBP,
}

// Currencies returns the closed set of supported currency codes.
func Currencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

// ParseCurrency validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	for _, c := range supportedCurrencies {
		if string(c) == code {
			return c, nil
		}
	}
	return "", fmt.Errorf("unsupported currency %q", code)
}
