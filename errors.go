package coinlots

import "errors"

// The three fatal error classes of a gains computation. Any of them aborts
// the whole run: gain figures are meaningless if a single trade's valuation
// is unresolved. Callers match them with errors.Is.
var (
	// ErrNoData reports that a price source has no data for a requested
	// currency pair or instant.
	ErrNoData = errors.New("no price data")

	// ErrInconsistentLedger reports a ledger that cannot be matched: sells
	// exceed buys for an asset, or a sell predates every available buy.
	ErrInconsistentLedger = errors.New("inconsistent ledger")

	// ErrSchema reports an input whose shape is wrong: missing required
	// columns, unsupported currency codes, unparseable cells.
	ErrSchema = errors.New("invalid trade list")
)
