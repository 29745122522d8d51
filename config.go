package coinlots

import (
	"fmt"
	"strings"
)

// DefaultPrecision is the number of decimal places kept by all derived
// values (valuations, pool remainders, match slices).
const DefaultPrecision = 8

// Config carries the process-wide settings of a gains computation: the
// ordered list of valuation currencies and the internal decimal precision.
// It is passed explicitly to the Normalizer, Matcher and Aggregator.
type Config struct {
	// Currencies is the ordered list of valuation currencies. The first
	// entry is the primary valuation currency and must be fiat: it is the
	// one currency whose trade values come verbatim from the ledger.
	Currencies []string

	// Precision is the number of decimal places, DefaultPrecision if zero.
	Precision int32
}

// NewConfig builds a configuration from the primary fiat currency and the
// additional valuation currencies. Currency codes are upper-cased and
// de-duplicated, preserving order.
func NewConfig(primary string, valuation ...string) (Config, error) {
	primary = strings.ToUpper(strings.TrimSpace(primary))
	if !IsFiat(primary) {
		return Config{}, fmt.Errorf("%w: primary valuation currency %q is not a supported fiat currency", ErrSchema, primary)
	}
	currencies := []string{primary}
	for _, c := range valuation {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		seen := false
		for _, known := range currencies {
			if known == c {
				seen = true
				break
			}
		}
		if !seen {
			currencies = append(currencies, c)
		}
	}
	return Config{Currencies: currencies, Precision: DefaultPrecision}, nil
}

// Primary returns the primary valuation currency.
func (c Config) Primary() string { return c.Currencies[0] }

// ValidateCurrencies checks every valuation currency against the fiat table
// and the given set of known crypto symbols, so a typoed code fails fast
// instead of producing a report full of missing-price caveats.
func (c Config) ValidateCurrencies(known map[string]bool) error {
	for _, cur := range c.Currencies {
		if IsFiat(cur) || known[cur] {
			continue
		}
		return fmt.Errorf("%w: unsupported valuation currency %q", ErrSchema, cur)
	}
	return nil
}

// precision returns the configured precision, defaulting to DefaultPrecision.
func (c Config) precision() int32 {
	if c.Precision == 0 {
		return DefaultPrecision
	}
	return c.Precision
}
