package coinlots

// Valuation is a trade value expressed in every valuation currency,
// keyed by upper-case currency code.
type Valuation map[string]Money

// NewValuation returns an empty valuation ready to be filled.
func NewValuation() Valuation { return make(Valuation) }

// Get returns the value in 'currency', a zero Money in that currency if absent.
func (v Valuation) Get(currency string) Money {
	if m, ok := v[currency]; ok {
		return m
	}
	return Money{cur: currency}
}

// Set records the value in its currency.
func (v Valuation) Set(m Money) { v[m.Currency()] = m }

// Clone returns an independent copy.
func (v Valuation) Clone() Valuation {
	out := make(Valuation, len(v))
	for c, m := range v {
		out[c] = m
	}
	return out
}

// Slice returns the proportional share matched/total of every value,
// rounded to 'places'. Partial lot consumption must preserve per-unit
// valuation, so the share is computed against the remaining value, not
// the original one.
func (v Valuation) Slice(matched, total Quantity, places int32) Valuation {
	ratio := matched.Div(total)
	out := make(Valuation, len(v))
	for c, m := range v {
		out[c] = m.Mul(ratio).Round(places)
	}
	return out
}

// SubRound subtracts 'other' value by value, rounding each result to 'places'.
func (v Valuation) SubRound(other Valuation, places int32) Valuation {
	out := make(Valuation, len(v))
	for c, m := range v {
		out[c] = m.Sub(other.Get(c)).Round(places)
	}
	return out
}

// Sub subtracts 'other' value by value without rounding.
func (v Valuation) Sub(other Valuation) Valuation {
	out := make(Valuation, len(v))
	for c, m := range v {
		out[c] = m.Sub(other.Get(c))
	}
	return out
}

// Add sums 'other' into a new valuation, value by value.
func (v Valuation) Add(other Valuation) Valuation {
	out := v.Clone()
	for c, m := range other {
		out[c] = out.Get(c).Add(m)
	}
	return out
}
