package coinlots

import (
	"fmt"
	"time"
)

// poolEntry is a mutable working copy of one side of a trade, tracked in
// the buy or sell pool. Quantity and valuations decrease as matches
// consume the entry; it leaves its pool once the remaining quantity
// rounds to exactly zero at the configured precision.
type poolEntry struct {
	Asset    string
	Quantity Quantity
	Value    Valuation
	Venue    string
	Note     string
	Time     time.Time
}

// Match is one matching event between exactly one buy pool entry and one
// sell pool entry of the same asset.
type Match struct {
	Asset     string
	Quantity  Quantity
	BuyTime   time.Time
	SellTime  time.Time
	BuyValue  Valuation
	SellValue Valuation
	GainLoss  Valuation // sell value minus buy value, per currency
	BuyVenue  string
	SellVenue string
	BuyNote   string
	SellNote  string
	Gift      bool // gift disposals stay out of the realized report
}

func (m Match) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("asset", m.Asset)
	w.Append("quantity", m.Quantity)
	w.Append("buy_date", m.BuyTime.Format(time.RFC3339))
	w.Append("sell_date", m.SellTime.Format(time.RFC3339))
	w.Append("buy_value", m.BuyValue)
	w.Append("sell_value", m.SellValue)
	w.Append("gain_loss", m.GainLoss)
	w.Optional("buy_exchange", m.BuyVenue)
	w.Optional("sell_exchange", m.SellVenue)
	w.Optional("buy_comment", m.BuyNote)
	w.Optional("sell_comment", m.SellNote)
	return w.MarshalJSON()
}

// Position is a buy pool entry never fully consumed by a sell: a
// currently held lot. It has no sell date.
type Position struct {
	Asset    string
	Quantity Quantity
	BuyTime  time.Time
	BuyValue Valuation
	BuyVenue string
	BuyNote  string
}

// MatchResult is the outcome of a FIFO matching run: every matching
// event, gift disposals included, plus the still-held positions.
type MatchResult struct {
	Matches []Match
	Open    []Position
}

// Realized returns the matches that belong in the realized report,
// excluding gift disposals.
func (r *MatchResult) Realized() []Match {
	out := make([]Match, 0, len(r.Matches))
	for _, m := range r.Matches {
		if !m.Gift {
			out = append(out, m)
		}
	}
	return out
}

// Matcher runs the FIFO lot-matching state machine over normalized trades.
type Matcher struct {
	cfg Config
}

// NewMatcher returns a matcher for the given configuration.
func NewMatcher(cfg Config) *Matcher { return &Matcher{cfg: cfg} }

// Match splits the trades into a buy pool and a sell pool of non-fiat
// entries, then repeatedly matches the globally earliest sell against the
// earliest buy of the same asset until the sell pool is empty.
//
// Each iteration consumes min(buy remaining, sell remaining) units and
// the proportional share of every per-currency value from both entries,
// rounded to the configured precision. An entry whose remaining quantity
// rounds to zero leaves its pool.
//
// It fails with ErrInconsistentLedger when an asset's sells exceed its
// buys, or when a sell can only be matched against a later buy.
func (k *Matcher) Match(trades []Trade) (*MatchResult, error) {
	places := k.cfg.precision()
	buys, sells := pools(trades)

	if err := checkQuantities(buys, sells, places); err != nil {
		return nil, err
	}

	result := &MatchResult{}
	for len(sells) > 0 {
		si := earliest(sells, "")
		sell := sells[si]
		bi := earliest(buys, sell.Asset)
		if bi < 0 {
			// checkQuantities guarantees enough buy quantity, so an empty
			// buy pool for this asset cannot happen; guard anyway.
			return nil, fmt.Errorf("%w: no buy left to match sell of %s on %s", ErrInconsistentLedger, sell.Asset, sell.Time.Format(time.RFC3339))
		}
		buy := buys[bi]

		if sell.Time.Before(buy.Time) {
			return nil, fmt.Errorf("%w: sell of %s on %s cannot be matched with a buy; the closest buy occurred later, on %s",
				ErrInconsistentLedger, sell.Asset, sell.Time.Format(time.RFC3339), buy.Time.Format(time.RFC3339))
		}

		matched := MinQuantity(buy.Quantity, sell.Quantity)
		buySlice := buy.Value.Slice(matched, buy.Quantity, places)
		sellSlice := sell.Value.Slice(matched, sell.Quantity, places)

		result.Matches = append(result.Matches, Match{
			Asset:     sell.Asset,
			Quantity:  matched,
			BuyTime:   buy.Time,
			SellTime:  sell.Time,
			BuyValue:  buySlice,
			SellValue: sellSlice,
			GainLoss:  sellSlice.Sub(buySlice),
			BuyVenue:  buy.Venue,
			SellVenue: sell.Venue,
			BuyNote:   buy.Note,
			SellNote:  sell.Note,
			Gift:      isGiftNote(sell.Note),
		})

		buys = consume(buys, bi, matched, buySlice, places)
		sells = consume(sells, si, matched, sellSlice, places)
	}

	for _, b := range buys {
		result.Open = append(result.Open, Position{
			Asset:    b.Asset,
			Quantity: b.Quantity,
			BuyTime:  b.Time,
			BuyValue: b.Value,
			BuyVenue: b.Venue,
			BuyNote:  b.Note,
		})
	}
	return result, nil
}

// pools extracts the buy- and sell-side pool entries from the trades.
// Fiat sides and zero quantities never enter a pool: fiat is the measure,
// not a position to match.
func pools(trades []Trade) (buys, sells []*poolEntry) {
	for _, t := range trades {
		if !t.BuyQuantity.IsZero() && !IsFiat(t.BuyAsset) {
			buys = append(buys, &poolEntry{
				Asset:    t.BuyAsset,
				Quantity: t.BuyQuantity,
				Value:    t.BuyValue.Clone(),
				Venue:    t.Venue,
				Note:     t.Note,
				Time:     t.Time,
			})
		}
		if !t.SellQuantity.IsZero() && !IsFiat(t.SellAsset) {
			sells = append(sells, &poolEntry{
				Asset:    t.SellAsset,
				Quantity: t.SellQuantity,
				Value:    t.SellValue.Clone(),
				Venue:    t.Venue,
				Note:     t.Note,
				Time:     t.Time,
			})
		}
	}
	return buys, sells
}

// checkQuantities verifies, per asset, that the total quantity sold does
// not exceed the total quantity acquired. A violation means the ledger
// records a sale of an asset never acquired.
func checkQuantities(buys, sells []*poolEntry, places int32) error {
	bought := make(map[string]Quantity)
	sold := make(map[string]Quantity)
	for _, b := range buys {
		bought[b.Asset] = bought[b.Asset].Add(b.Quantity)
	}
	for _, s := range sells {
		sold[s.Asset] = sold[s.Asset].Add(s.Quantity)
	}
	for asset, q := range sold {
		if q.Round(places).GreaterThan(bought[asset].Round(places)) {
			return fmt.Errorf("%w: the units sold of %s (%s) exceed the units acquired (%s)",
				ErrInconsistentLedger, asset, q, bought[asset])
		}
	}
	return nil
}

// earliest returns the index of the pool entry with the earliest trade
// time, restricted to 'asset' when non-empty, or -1 when none qualifies.
// Insertion order breaks ties, keeping the scan stable.
func earliest(pool []*poolEntry, asset string) int {
	best := -1
	for i, e := range pool {
		if asset != "" && e.Asset != asset {
			continue
		}
		if best < 0 || e.Time.Before(pool[best].Time) {
			best = i
		}
	}
	return best
}

// consume subtracts the matched quantity and value slice from pool entry
// 'i', rounding the remainders, and drops the entry once its remaining
// quantity is exactly zero.
func consume(pool []*poolEntry, i int, matched Quantity, slice Valuation, places int32) []*poolEntry {
	e := pool[i]
	e.Quantity = e.Quantity.Sub(matched).Round(places)
	e.Value = e.Value.SubRound(slice, places)
	if e.Quantity.IsZero() {
		return append(pool[:i], pool[i+1:]...)
	}
	return pool
}
