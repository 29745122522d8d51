package coinlots

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// This file contains functions to access the CoinMarketCap API, the
// current-price source for unrealized positions.

const coinmarketcapBase = "https://api.coinmarketcap.com/v2/"

// CoinMarketCap is the PriceSource backed by api.coinmarketcap.com.
// Tickers are cached for two minutes only; the listings (symbol to coin
// id) are fetched once per run.
//
// The client sleeps 200ms after every ticker lookup as a rate-limit
// courtesy to the service. That pacing is this capability's policy, not
// the Aggregator's.
type CoinMarketCap struct {
	client *http.Client
	base   string
	pace   time.Duration
	ids    map[string]int // symbol -> coinmarketcap id, lazily loaded
}

// NewCoinMarketCap returns a client for the public CoinMarketCap API.
func NewCoinMarketCap() *CoinMarketCap {
	return &CoinMarketCap{
		client: cachedClient(2 * time.Minute),
		base:   coinmarketcapBase,
		pace:   200 * time.Millisecond,
	}
}

// CurrentPrice returns the current price of one unit of 'asset' in
// 'currency'. An asset CoinMarketCap does not list is not an error: ok is
// false and the held position is valued at zero.
//
//	https://api.coinmarketcap.com/v2/ticker/1/?convert=EUR
//	{ "data": { "quotes": { "EUR": { "price": 57123.45, ... } } } }
func (c *CoinMarketCap) CurrentPrice(asset, currency string) (price float64, ok bool, err error) {
	if c.ids == nil {
		if c.ids, err = c.listings(); err != nil {
			return 0, false, err
		}
	}
	// pacing applies to every lookup, failed and unlisted ones included
	defer time.Sleep(c.pace)

	id, ok := c.ids[strings.ToUpper(asset)]
	if !ok {
		return 0, false, nil
	}

	currency = strings.ToUpper(currency)
	addr := fmt.Sprintf("%sticker/%d/?convert=%s", c.base, id, currency)
	var jobj any
	if err := jwget(c.client, addr, &jobj); err != nil {
		return 0, false, fmt.Errorf("error retrieving current price of %s: %w", asset, err)
	}

	path := fmt.Sprintf("$.data.quotes.%s.price", currency)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, false, fmt.Errorf("%w: unexpected coinmarketcap payload for %s/%s: %v", ErrNoData, asset, currency, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	if jlist, isList := jval.([]any); isList && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, isFloat := jval.(float64)
	if !isFloat {
		return 0, false, fmt.Errorf("%w: coinmarketcap price for %s/%s is not a number", ErrNoData, asset, currency)
	}
	return val, true, nil
}

// listings fetches the symbol to coin-id map. The CPC symbol is pinned:
// CoinMarketCap's listings carry a stale duplicate for it.
func (c *CoinMarketCap) listings() (map[string]int, error) {
	addr := c.base + "listings/"
	var payload struct {
		Data []struct {
			ID     int    `json:"id"`
			Symbol string `json:"symbol"`
		} `json:"data"`
	}
	// listings are fetched fresh, not from the disk cache: a new coin
	// must be priceable the day it appears.
	if err := jwget(new(http.Client), addr, &payload); err != nil {
		return nil, fmt.Errorf("error retrieving coinmarketcap listings: %w", err)
	}
	ids := make(map[string]int, len(payload.Data))
	for _, coin := range payload.Data {
		ids[strings.ToUpper(coin.Symbol)] = coin.ID
	}
	ids["CPC"] = 2482
	return ids, nil
}
