// Package coinlots computes realized and unrealized capital gains for a
// ledger of asset trades, valued simultaneously in several currencies,
// using FIFO lot matching.
//
// The pipeline is:
//   - Import: a CoinTracking-style trade list CSV is read into Trade
//     records ([ImportTrades]).
//   - Normalize: every trade is given a value in each valuation currency,
//     using historical exchange rates ([Normalizer]).
//   - Match: sell quantities are matched against the oldest outstanding
//     buys of the same asset, splitting lots proportionally ([Matcher]).
//   - Aggregate: matched and still-held quantities are rolled up into
//     realized and unrealized totals and average prices ([Aggregator]).
//   - Report: the resulting tables are shaped for an external sink
//     ([Report], [Sink]).
//
// Price lookups are injected behind the [RateSource] and [PriceSource]
// interfaces; [CryptoCompare] and [CoinMarketCap] are the shipped
// implementations. All lot arithmetic is exact decimal arithmetic rounded
// to a configurable number of places (8 by default).
//
// This package is the foundational logic for the `clg` command-line tool.
package coinlots
