package coinlots

import (
	"fmt"
	"strings"
)

// Normalizer attaches a value in every valuation currency to raw trades.
// Only the primary-currency value comes verbatim from the ledger; every
// other one is derived through the Converter at the trade's instant.
type Normalizer struct {
	cfg       Config
	converter *Converter
}

// NewNormalizer returns a normalizer for the given configuration and
// historical rate source.
func NewNormalizer(cfg Config, rates RateSource) *Normalizer {
	return &Normalizer{cfg: cfg, converter: NewConverter(rates)}
}

// Normalize returns a copy of 'trades' with BuyValue and SellValue
// populated for every valuation currency.
//
// For each currency c the value is chosen the way the source ledger
// format defines it:
//  1. if the buy asset is c itself, the value is the buy quantity (an
//     asset is worth exactly one unit of itself);
//  2. else if the sell asset is c, the value is the sell quantity;
//  3. else if the sell quantity is zero (a one-sided acquisition), the
//     value is the buy side's figure converted from the primary currency;
//  4. otherwise it is the sell side's converted figure.
//
// The chosen value is rounded to the configured precision and assigned to
// BOTH sides of the trade: a trade has a single fair value per currency.
// This mirrors the source ledger semantics exactly, including for the
// primary currency.
func (n *Normalizer) Normalize(trades []Trade) ([]Trade, error) {
	primary := n.cfg.Primary()
	places := n.cfg.precision()

	out := make([]Trade, len(trades))
	for i, t := range trades {
		buyPrimary := t.BuyValue.Get(primary)
		sellPrimary := t.SellValue.Get(primary)

		t.BuyValue = NewValuation()
		t.SellValue = NewValuation()

		for _, currency := range n.cfg.Currencies {
			convBuy, err := n.converter.Convert(buyPrimary, currency, t.Time)
			if err != nil {
				return nil, fmt.Errorf("trade %s at %s: %w", t.Type, t.Time, err)
			}
			convSell, err := n.converter.Convert(sellPrimary, currency, t.Time)
			if err != nil {
				return nil, fmt.Errorf("trade %s at %s: %w", t.Type, t.Time, err)
			}

			var value Money
			switch {
			case strings.EqualFold(t.BuyAsset, currency):
				value = M(t.BuyQuantity.value, currency)
			case strings.EqualFold(t.SellAsset, currency):
				value = M(t.SellQuantity.value, currency)
			case t.SellQuantity.IsZero():
				value = convBuy
			default:
				value = convSell
			}
			value = value.Round(places)

			t.BuyValue.Set(value)
			t.SellValue.Set(value)
		}
		out[i] = t
	}
	return out, nil
}
