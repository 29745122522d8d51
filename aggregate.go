package coinlots

import (
	"fmt"
	"log"
	"sort"
	"strconv"
)

// TotalsRow is one line of an aggregation: the pivot key values, the
// summed quantity and the summed per-currency value columns. The
// synthetic grand-total row keeps its quantity blank: quantities summed
// across heterogeneous assets are meaningless.
type TotalsRow struct {
	Keys     []string // e.g. ["2024", "BTC"], or ["BTC"], or ["Total"]
	Quantity Quantity
	Grand    bool // grand-total row: Quantity is blank
	Buy      Valuation
	Sell     Valuation
	Gain     Valuation
}

// grandTotalKey labels the synthetic rollup row across all groups.
const grandTotalKey = "Total"

// Aggregator rolls matched and unmatched positions up into realized and
// unrealized totals. Unrealized positions are valued through an injected
// current-price source.
type Aggregator struct {
	cfg    Config
	prices PriceSource
}

// NewAggregator returns an aggregator for the given configuration and
// current-price source.
func NewAggregator(cfg Config, prices PriceSource) *Aggregator {
	return &Aggregator{cfg: cfg, prices: prices}
}

// RealizedTotals groups the non-gift matches by (sell year, asset) and
// sums quantity and every per-currency buy, sell and gain column. The
// last row is the grand total across all groups, quantity blanked.
func (a *Aggregator) RealizedTotals(matches []Match) []TotalsRow {
	groups := make(map[string]*TotalsRow)
	for _, m := range matches {
		if m.Gift {
			continue
		}
		year := strconv.Itoa(m.SellTime.UTC().Year())
		key := year + "\x00" + m.Asset
		row, ok := groups[key]
		if !ok {
			row = &TotalsRow{Keys: []string{year, m.Asset}, Buy: NewValuation(), Sell: NewValuation(), Gain: NewValuation()}
			groups[key] = row
		}
		row.Quantity = row.Quantity.Add(m.Quantity)
		row.Buy = row.Buy.Add(m.BuyValue)
		row.Sell = row.Sell.Add(m.SellValue)
		row.Gain = row.Gain.Add(m.GainLoss)
	}
	return a.finish(groups, 2)
}

// UnrealizedTotals groups the still-held positions by asset, values each
// group at the current price in every valuation currency, and computes
// the unrealized gain against the remaining cost basis. An asset the
// price source does not know contributes zero and is reported as a
// caveat, not an error.
func (a *Aggregator) UnrealizedTotals(open []Position) (rows []TotalsRow, caveats []string, err error) {
	groups := make(map[string]*TotalsRow)
	for _, p := range open {
		row, ok := groups[p.Asset]
		if !ok {
			row = &TotalsRow{Keys: []string{p.Asset}, Buy: NewValuation(), Sell: NewValuation(), Gain: NewValuation()}
			groups[p.Asset] = row
		}
		row.Quantity = row.Quantity.Add(p.Quantity)
		row.Buy = row.Buy.Add(p.BuyValue)
	}

	missing := make(map[string]bool)
	for _, row := range groups {
		asset := row.Keys[0]
		for _, currency := range a.cfg.Currencies {
			price, ok, perr := a.prices.CurrentPrice(asset, currency)
			if perr != nil {
				return nil, nil, fmt.Errorf("cannot price %s in %s: %w", asset, currency, perr)
			}
			if !ok && !missing[asset] {
				missing[asset] = true
				caveat := fmt.Sprintf("no current price for %s; its current value is reported as zero", asset)
				log.Println(caveat)
				caveats = append(caveats, caveat)
			}
			sell := M(price, currency).Mul(row.Quantity).Round(a.cfg.precision())
			row.Sell.Set(sell)
			row.Gain[currency] = sell.Sub(row.Buy.Get(currency))
		}
	}
	return a.finish(groups, 1), caveats, nil
}

// finish orders the grouped rows by their keys and appends the grand
// total across all of them. 'keys' is the pivot key width, needed when
// there is no group at all.
func (a *Aggregator) finish(groups map[string]*TotalsRow, keys int) []TotalsRow {
	rows := make([]TotalsRow, 0, len(groups)+1)
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		for k := range rows[i].Keys {
			if rows[i].Keys[k] != rows[j].Keys[k] {
				return rows[i].Keys[k] < rows[j].Keys[k]
			}
		}
		return false
	})

	grand := TotalsRow{Grand: true, Buy: NewValuation(), Sell: NewValuation(), Gain: NewValuation()}
	grand.Keys = make([]string, keys)
	grand.Keys[0] = grandTotalKey
	for _, row := range rows {
		grand.Buy = grand.Buy.Add(row.Buy)
		grand.Sell = grand.Sell.Add(row.Sell)
		grand.Gain = grand.Gain.Add(row.Gain)
	}
	return append(rows, grand)
}

// AveragePrices derives the per-unit view of a totals table: every value
// column divided by the row quantity. The grand-total row is dropped,
// division by its blanked quantity being meaningless.
func AveragePrices(totals []TotalsRow) []TotalsRow {
	out := make([]TotalsRow, 0, len(totals))
	for _, row := range totals {
		if row.Grand {
			continue
		}
		avg := TotalsRow{Keys: row.Keys, Quantity: row.Quantity, Buy: NewValuation(), Sell: NewValuation(), Gain: NewValuation()}
		for c, m := range row.Buy {
			avg.Buy[c] = m.Div(row.Quantity)
		}
		for c, m := range row.Sell {
			avg.Sell[c] = m.Div(row.Quantity)
		}
		for c, m := range row.Gain {
			avg.Gain[c] = m.Div(row.Quantity)
		}
		out = append(out, avg)
	}
	return out
}
