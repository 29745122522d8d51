package coinlots

import (
	"fmt"
	"time"
)

// RateSource looks up the historical exchange rate between two currencies
// at a given instant. Implementations are expected to average multiple
// sub-samples when the source returns more than one tick for the hour
// containing 'at'. A pair with no data at all is an ErrNoData failure.
type RateSource interface {
	HistoricalRate(fromCurrency, toCurrency string, at time.Time) (float64, error)
}

// PriceSource looks up the current price of an asset in a valuation
// currency. A missing price is not an error: ok is false and the caller
// treats the asset's current value as zero.
type PriceSource interface {
	CurrentPrice(asset, currency string) (price float64, ok bool, err error)
}

// Converter converts monetary amounts between currencies at a historical
// instant, via an injected rate source.
type Converter struct {
	rates RateSource
}

// NewConverter returns a converter backed by 'rates'.
func NewConverter(rates RateSource) *Converter { return &Converter{rates: rates} }

// Convert returns 'amount' expressed in 'toCurrency' at instant 'at'.
// Converting a currency onto itself is the identity and never hits the
// rate source. The result is not rounded; rounding belongs to the caller.
func (c *Converter) Convert(amount Money, toCurrency string, at time.Time) (Money, error) {
	if amount.Currency() == toCurrency {
		return amount, nil
	}
	rate, err := c.rates.HistoricalRate(amount.Currency(), toCurrency, at)
	if err != nil {
		return Money{}, fmt.Errorf("cannot convert %s to %s at %s: %w", amount.Currency(), toCurrency, at.Format(time.RFC3339), err)
	}
	return M(amount.MulRate(rate).Amount(), toCurrency), nil
}
