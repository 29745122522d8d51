package coinlots

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// This file contains functions to access the CryptoCompare API, the
// historical rate source of the engine.

const cryptocompareBase = "https://min-api.cryptocompare.com/data/"

// cryptocompare_api_key is the environment variable holding an optional
// API key. The public endpoints work without one, at a lower rate limit.
const cryptocompare_api_key = "CRYPTOCOMPARE_API_KEY"

// CryptoCompare is the RateSource backed by min-api.cryptocompare.com.
// Responses are cached on disk (daily bucket): the histohour candles of a
// past hour never change.
type CryptoCompare struct {
	client *http.Client
	base   string
	apiKey string
}

// NewCryptoCompare returns a client for the public CryptoCompare API.
func NewCryptoCompare() *CryptoCompare {
	return &CryptoCompare{client: daily(), base: cryptocompareBase, apiKey: os.Getenv(cryptocompare_api_key)}
}

// withKey appends the API key to a request address when one is set.
func (cc *CryptoCompare) withKey(addr string) string {
	if cc.apiKey == "" {
		return addr
	}
	sep := "?"
	if strings.Contains(addr, "?") {
		sep = "&"
	}
	return addr + sep + "api_key=" + cc.apiKey
}

// HistoricalRate returns the exchange rate between two currencies at the
// hour containing 'at', as the mean of the hourly closes CryptoCompare
// returns around that instant.
//
//	https://min-api.cryptocompare.com/data/histohour?fsym=USD&tsym=BTC&limit=1&toTs=1521810000
//	{
//	  "Response": "Success",
//	  "Data": [
//	    { "time": 1521806400, "close": 0.000118, ... },
//	    { "time": 1521810000, "close": 0.000119, ... }
//	  ]
//	}
//
// A non-Success response is an ErrNoData failure naming the pair: most
// likely CryptoCompare has no data for one of the two currencies.
func (cc *CryptoCompare) HistoricalRate(fromCurrency, toCurrency string, at time.Time) (float64, error) {
	fromCurrency = strings.ToUpper(fromCurrency)
	toCurrency = strings.ToUpper(toCurrency)

	addr := cc.withKey(fmt.Sprintf("%shistohour?fsym=%s&tsym=%s&limit=1&toTs=%d", cc.base, fromCurrency, toCurrency, at.UTC().Unix()))
	var jobj any
	if err := jwget(cc.client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("error retrieving rate %s/%s: %w", fromCurrency, toCurrency, err)
	}

	if status, _ := jsonpath.Get("$.Response", jobj); status != "Success" {
		return 0, fmt.Errorf("%w: cryptocompare has no rate for %s/%s", ErrNoData, fromCurrency, toCurrency)
	}

	jval, err := jsonpath.Get("$.Data[*].close", jobj)
	if err != nil {
		return 0, fmt.Errorf("%w: unexpected cryptocompare payload for %s/%s: %v", ErrNoData, fromCurrency, toCurrency, err)
	}
	closes, ok := jval.([]any)
	if !ok || len(closes) == 0 {
		return 0, fmt.Errorf("%w: cryptocompare returned no candle for %s/%s", ErrNoData, fromCurrency, toCurrency)
	}

	// average the sub-samples of the hour
	var sum float64
	for _, c := range closes {
		v, ok := c.(float64)
		if !ok {
			return 0, fmt.Errorf("%w: cryptocompare close is not a number for %s/%s", ErrNoData, fromCurrency, toCurrency)
		}
		sum += v
	}
	return sum / float64(len(closes)), nil
}

// Currencies returns the set of coin symbols CryptoCompare knows, used to
// validate user-chosen valuation currencies before any computation runs.
func (cc *CryptoCompare) Currencies() (map[string]bool, error) {
	addr := cc.withKey(cc.base + "all/coinlist")
	var payload struct {
		Response string                 `json:"Response"`
		Data     map[string]interface{} `json:"Data"`
	}
	if err := jwget(cc.client, addr, &payload); err != nil {
		return nil, fmt.Errorf("error retrieving cryptocompare coin list: %w", err)
	}
	if payload.Response != "Success" {
		return nil, fmt.Errorf("%w: cryptocompare coin list unavailable", ErrNoData)
	}
	coins := make(map[string]bool, len(payload.Data))
	for symbol := range payload.Data {
		coins[strings.ToUpper(strings.TrimSpace(symbol))] = true
	}
	return coins, nil
}
