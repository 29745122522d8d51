package coinlots

import (
	"strings"

	"github.com/Rhymond/go-money"
)

// fiatCurrencies is the closed set of fiat currencies a trade list may be
// denominated in. Anything outside this set traded in a ledger is treated
// as an asset and enters the matching pools.
var fiatCurrencies = []string{
	"AED", "ARS", "AUD", "BRL", "CAD", "CHF", "CLP", "CNY", "CZK", "DKK",
	"EUR", "GBP", "HKD", "HUF", "IDR", "ILS", "INR", "JPY", "KRW", "MXN",
	"MYR", "NOK", "NZD", "PHP", "PKR", "PLN", "RON", "RUB", "SEK", "SGD",
	"THB", "TRY", "TWD", "UAH", "USD", "ZAR",
}

var fiatIndex = func() map[string]bool {
	m := make(map[string]bool, len(fiatCurrencies))
	for _, c := range fiatCurrencies {
		m[c] = true
	}
	return m
}()

// IsFiat reports whether the currency code is a supported fiat currency.
// The check is case-insensitive.
func IsFiat(currency string) bool {
	return fiatIndex[strings.ToUpper(strings.TrimSpace(currency))]
}

// FiatCurrencies returns the supported fiat currency codes in order.
func FiatCurrencies() []string {
	out := make([]string, len(fiatCurrencies))
	copy(out, fiatCurrencies)
	return out
}

// CurrencySymbol returns the display symbol for a fiat currency ("$" for
// USD), or the code itself for crypto assets unknown to go-money.
func CurrencySymbol(currency string) string {
	if c := money.GetCurrency(strings.ToUpper(currency)); c != nil {
		return c.Grapheme
	}
	return strings.ToUpper(currency)
}
