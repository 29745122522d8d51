package coinlots

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// fakeRates serves historical rates from a fixed "FROM/TO" table.
type fakeRates struct {
	rates map[string]float64
}

func (f fakeRates) HistoricalRate(from, to string, at time.Time) (float64, error) {
	if r, ok := f.rates[from+"/"+to]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("%w: no rate for %s/%s", ErrNoData, from, to)
}

func setupNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	cfg, err := NewConfig("EUR", "USD", "BTC")
	if err != nil {
		t.Fatalf("NewConfig() failed: %v", err)
	}
	rates := fakeRates{rates: map[string]float64{
		"EUR/USD": 1.2,
		"EUR/BTC": 0.0001,
	}}
	return NewNormalizer(cfg, rates)
}

func TestNormalizeTrade(t *testing.T) {
	n := setupNormalizer(t)

	// A regular crypto-to-crypto trade: the sell side's ledger value is
	// the trade's fair value, converted into each extra currency; in the
	// bought asset's own currency the fair value is the bought quantity.
	trades := []Trade{{
		Type:        "Trade",
		BuyQuantity: Q(2), BuyAsset: "BTC", BuyValue: val("EUR", 290),
		SellQuantity: Q(10), SellAsset: "ETH", SellValue: val("EUR", 300),
		Time: day(1),
	}}

	out, err := n.Normalize(trades)
	if err != nil {
		t.Fatalf("Normalize() failed: %v", err)
	}

	got := out[0]
	cases := []struct {
		currency string
		want     Money
	}{
		{"EUR", M(300, "EUR")},   // sell side's ledger value
		{"USD", M(360, "USD")},   // 300 * 1.2
		{"BTC", M(2, "BTC")},     // the bought quantity itself
	}
	for _, c := range cases {
		if v := got.BuyValue.Get(c.currency); !v.Equal(c.want) {
			t.Errorf("buy value in %s = %s, want %s", c.currency, v.Amount(), c.want.Amount())
		}
		// one fair value per trade: both sides carry it
		if v := got.SellValue.Get(c.currency); !v.Equal(c.want) {
			t.Errorf("sell value in %s = %s, want %s", c.currency, v.Amount(), c.want.Amount())
		}
	}
}

func TestNormalizeDeposit(t *testing.T) {
	n := setupNormalizer(t)

	// A one-sided acquisition: no sell side, so the buy side's figure is
	// the fair value. In EUR itself the value is the deposited quantity.
	trades := []Trade{{
		Type:        "Deposit",
		BuyQuantity: Q(1000), BuyAsset: "EUR", BuyValue: val("EUR", 1000),
		Time: day(1),
	}}

	out, err := n.Normalize(trades)
	if err != nil {
		t.Fatalf("Normalize() failed: %v", err)
	}
	got := out[0]
	if v := got.BuyValue.Get("EUR"); !v.Equal(M(1000, "EUR")) {
		t.Errorf("buy value in EUR = %s, want 1000", v.Amount())
	}
	if v := got.BuyValue.Get("USD"); !v.Equal(M(1200, "USD")) {
		t.Errorf("buy value in USD = %s, want 1200", v.Amount())
	}
}

func TestNormalizeSellSideCurrency(t *testing.T) {
	n := setupNormalizer(t)

	// Selling the valuation currency itself: the fair value in that
	// currency is the quantity sold, not a conversion.
	trades := []Trade{{
		Type:        "Trade",
		BuyQuantity: Q(0.5), BuyAsset: "ETH", BuyValue: val("EUR", 95),
		SellQuantity: Q(0.003), SellAsset: "BTC", SellValue: val("EUR", 100),
		Time: day(1),
	}}

	out, err := n.Normalize(trades)
	if err != nil {
		t.Fatalf("Normalize() failed: %v", err)
	}
	if v := out[0].BuyValue.Get("BTC"); !v.Equal(M(0.003, "BTC")) {
		t.Errorf("buy value in BTC = %s, want 0.003", v.Amount())
	}
}

func TestNormalizeRounding(t *testing.T) {
	cfg, err := NewConfig("EUR", "USD")
	if err != nil {
		t.Fatalf("NewConfig() failed: %v", err)
	}
	n := NewNormalizer(cfg, fakeRates{rates: map[string]float64{"EUR/USD": 1.0 / 3.0}})

	trades := []Trade{{
		Type:        "Trade",
		BuyQuantity: Q(1), BuyAsset: "BTC", BuyValue: val("EUR", 100),
		SellQuantity: Q(100), SellAsset: "EUR", SellValue: val("EUR", 100),
		Time: day(1),
	}}
	out, err := n.Normalize(trades)
	if err != nil {
		t.Fatalf("Normalize() failed: %v", err)
	}
	want, _ := ParseMoney("33.33333333", "USD")
	if v := out[0].BuyValue.Get("USD"); !v.Equal(want) {
		t.Errorf("buy value in USD = %s, want %s", v.Amount(), want.Amount())
	}
}

func TestNormalizeMissingRate(t *testing.T) {
	cfg, err := NewConfig("EUR", "JPY")
	if err != nil {
		t.Fatalf("NewConfig() failed: %v", err)
	}
	n := NewNormalizer(cfg, fakeRates{})

	trades := []Trade{{
		Type:        "Trade",
		BuyQuantity: Q(1), BuyAsset: "BTC", BuyValue: val("EUR", 100),
		SellQuantity: Q(100), SellAsset: "EUR", SellValue: val("EUR", 100),
		Time: day(1),
	}}
	_, err = n.Normalize(trades)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Normalize() error = %v, want ErrNoData", err)
	}
}
