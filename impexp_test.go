package coinlots

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleTradeList = `"Type","Buy","Cur.","Sell","Cur.","Buy value in EUR","Sell value in EUR","Exchange","Comment","Trade Date"
"Trade","0.5","btc","500","EUR","500","500","Kraken","","02.01.2021 10:30"
"Deposit","1000","EUR","-","","1000","-","Bank","","01.01.2021 08:00"
"Trade","-","","0.1","BTC","-","0","Kraken","gift","05.03.2021 17:45"
`

func TestImportTrades(t *testing.T) {
	list, err := ImportTrades(strings.NewReader(sampleTradeList))
	if err != nil {
		t.Fatalf("ImportTrades() failed: %v", err)
	}

	if list.Primary != "EUR" {
		t.Errorf("primary currency = %q, want EUR", list.Primary)
	}
	if len(list.Trades) != 3 {
		t.Fatalf("got %d trades, want 3", len(list.Trades))
	}
	// the raw rows are kept for the report's input echo
	if len(list.Header) != 10 || len(list.Records) != 3 {
		t.Errorf("raw echo = %d columns, %d rows; want 10 and 3", len(list.Header), len(list.Records))
	}

	tr := list.Trades[0]
	if tr.Type != "Trade" {
		t.Errorf("type = %q, want Trade", tr.Type)
	}
	if tr.BuyAsset != "BTC" {
		t.Errorf("buy asset = %q, want BTC (upper-cased)", tr.BuyAsset)
	}
	if !tr.BuyQuantity.Equal(Q(0.5)) {
		t.Errorf("buy quantity = %s, want 0.5", tr.BuyQuantity)
	}
	if got := tr.BuyValue.Get("EUR"); !got.Equal(M(500, "EUR")) {
		t.Errorf("buy value = %s, want 500 EUR", got.Amount())
	}
	want := time.Date(2021, time.January, 2, 10, 30, 0, 0, time.UTC)
	if !tr.Time.Equal(want) {
		t.Errorf("time = %s, want %s", tr.Time, want)
	}

	// "-" cells mean zero
	deposit := list.Trades[1]
	if !deposit.SellQuantity.IsZero() {
		t.Errorf("deposit sell quantity = %s, want 0", deposit.SellQuantity)
	}
	if got := deposit.SellValue.Get("EUR"); !got.IsZero() {
		t.Errorf("deposit sell value = %s, want 0", got.Amount())
	}

	gift := list.Trades[2]
	if !gift.IsGift() {
		t.Error("third trade should be recognized as a gift")
	}
}

func TestImportTradesMissingColumn(t *testing.T) {
	input := `"Type","Buy","Cur.","Buy value in EUR","Trade Date"
"Trade","1","BTC","100","02.01.2021 10:30"
`
	_, err := ImportTrades(strings.NewReader(input))
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("ImportTrades() error = %v, want ErrSchema", err)
	}
	for _, missing := range []string{"sell", "exchange", "comment"} {
		if !strings.Contains(err.Error(), missing) {
			t.Errorf("error %q does not name missing column %q", err, missing)
		}
	}
}

func TestImportTradesNoFiatValue(t *testing.T) {
	input := `"Type","Buy","Cur.","Sell","Cur.","Buy value in BTC","Sell value in BTC","Exchange","Comment","Trade Date"
"Trade","1","ETH","0.1","BTC","1","1","Kraken","","02.01.2021 10:30"
`
	_, err := ImportTrades(strings.NewReader(input))
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("ImportTrades() error = %v, want ErrSchema", err)
	}
}

func TestImportTradesBadCells(t *testing.T) {
	testCases := []struct {
		name string
		row  string
	}{
		{"bad quantity", `"Trade","abc","BTC","500","EUR","500","500","Kraken","","02.01.2021 10:30"`},
		{"bad value", `"Trade","0.5","BTC","500","EUR","x","500","Kraken","","02.01.2021 10:30"`},
		{"bad date", `"Trade","0.5","BTC","500","EUR","500","500","Kraken","","2021-01-02"`},
	}
	header := `"Type","Buy","Cur.","Sell","Cur.","Buy value in EUR","Sell value in EUR","Exchange","Comment","Trade Date"`
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ImportTrades(strings.NewReader(header + "\n" + tc.row + "\n"))
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("ImportTrades() error = %v, want ErrSchema", err)
			}
			// errors carry the 1-based file line of the bad row
			if !strings.Contains(err.Error(), "line 2") {
				t.Errorf("error %q does not name the line", err)
			}
		})
	}
}

func TestNormalizeColumns(t *testing.T) {
	got := normalizeColumns([]string{"Type", "Buy", "Cur.", "Sell", "Cur.", "Buy value in EUR", "Sell value in EUR", "Exchange", "Comment", "Trade Date"})
	want := []string{"type", "buy", "buy_currency", "sell", "sell_currency", "buy_value_eur", "sell_value_eur", "exchange", "comment", "trade_date"}
	if len(got) != len(want) {
		t.Fatalf("got %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
}
