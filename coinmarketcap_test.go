package coinlots

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCoinMarketCapCurrentPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ticker/1/" {
			t.Errorf("path = %q, want /ticker/1/", r.URL.Path)
		}
		if got := r.URL.Query().Get("convert"); got != "EUR" {
			t.Errorf("convert = %q, want EUR", got)
		}
		fmt.Fprint(w, `{"data":{"quotes":{"EUR":{"price":57123.45}}}}`)
	}))
	defer srv.Close()

	// listings are pre-resolved: the lazy fetch hits the live service.
	c := &CoinMarketCap{
		client: srv.Client(),
		base:   srv.URL + "/",
		ids:    map[string]int{"BTC": 1},
	}

	price, ok, err := c.CurrentPrice("btc", "eur")
	if err != nil {
		t.Fatalf("CurrentPrice() failed: %v", err)
	}
	if !ok {
		t.Fatal("CurrentPrice() ok = false, want true")
	}
	if price != 57123.45 {
		t.Errorf("price = %v, want 57123.45", price)
	}
}

func TestCoinMarketCapUnknownAsset(t *testing.T) {
	c := &CoinMarketCap{ids: map[string]int{"BTC": 1}}

	// an unlisted asset is not an error, just unpriceable
	_, ok, err := c.CurrentPrice("NOSUCHCOIN", "EUR")
	if err != nil {
		t.Fatalf("CurrentPrice() failed: %v", err)
	}
	if ok {
		t.Error("CurrentPrice() ok = true for an unlisted asset")
	}
}

func TestCoinMarketCapPacesEveryLookup(t *testing.T) {
	pace := 50 * time.Millisecond
	c := &CoinMarketCap{ids: map[string]int{"BTC": 1}, pace: pace}

	// even an unlisted asset must pay the rate-limit delay
	start := time.Now()
	if _, _, err := c.CurrentPrice("NOSUCHCOIN", "EUR"); err != nil {
		t.Fatalf("CurrentPrice() failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < pace {
		t.Errorf("CurrentPrice() returned after %v, want at least %v", elapsed, pace)
	}
}
