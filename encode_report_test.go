package coinlots

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// assertCSVFile checks that "<dir>/<name>.csv" exists and parses as CSV
// with at least the header line.
func assertCSVFile(t *testing.T, dir, name string) [][]string {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, name+".csv"))
	if err != nil {
		t.Fatalf("table %q was not written: %v", name, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("table %q is not valid CSV: %v", name, err)
	}
	if len(records) == 0 {
		t.Fatalf("table %q has no header", name)
	}
	return records
}

func TestCSVSinkWriteTable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out") // the sink creates the directory
	sink := CSVSink{Dir: dir}

	table := Table{
		Name:    "sample",
		Columns: []string{"currency", "quantity"},
		Rows: [][]string{
			{"BTC", "1.5"},
			{"ETH", "10"},
		},
	}
	if err := sink.WriteTable(table); err != nil {
		t.Fatalf("WriteTable() failed: %v", err)
	}

	records := assertCSVFile(t, dir, "sample")
	if len(records) != 3 {
		t.Fatalf("got %d lines, want 3", len(records))
	}
	if records[0][0] != "currency" {
		t.Errorf("header = %v, want the column names first", records[0])
	}
	if records[2][0] != "ETH" || records[2][1] != "10" {
		t.Errorf("row = %v, want [ETH 10]", records[2])
	}
}

func TestEncodeMatches(t *testing.T) {
	matches := []Match{
		{
			Asset: "BTC", Quantity: Q(2),
			BuyTime: day(3), SellTime: day(5),
			BuyValue: val("EUR", 120), SellValue: val("EUR", 300), GainLoss: val("EUR", 180),
			BuyVenue: "Binance", SellVenue: "Kraken",
		},
		{
			Asset: "ETH", Quantity: Q(1),
			BuyTime: day(1), SellTime: day(6),
			BuyValue: val("EUR", 50), SellValue: val("EUR", 40), GainLoss: val("EUR", -10),
		},
	}

	var buf bytes.Buffer
	if err := EncodeMatches(&buf, matches); err != nil {
		t.Fatalf("EncodeMatches() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}

	// the writer fixes the field order
	if !strings.HasPrefix(lines[0], `{"asset":"BTC","quantity":"2","buy_date":"2021-01-03T10:00:00Z","sell_date":"2021-01-05T10:00:00Z"`) {
		t.Errorf("line = %s, want asset, quantity and dates first", lines[0])
	}
	if !strings.Contains(lines[0], `"buy_value":{"EUR":{"currency":"EUR","amount":"120"}}`) {
		t.Errorf("line = %s, want the per-currency buy value", lines[0])
	}
	if !strings.Contains(lines[0], `"sell_exchange":"Kraken"`) {
		t.Errorf("line = %s, want the sell exchange", lines[0])
	}
	// empty venue and comment fields are omitted entirely
	if strings.Contains(lines[0], "comment") {
		t.Errorf("line = %s, want no comment fields", lines[0])
	}
	if strings.Contains(lines[1], "exchange") {
		t.Errorf("line = %s, want no exchange fields", lines[1])
	}
	if !strings.Contains(lines[1], `"gain_loss":{"EUR":{"currency":"EUR","amount":"-10"}}`) {
		t.Errorf("line = %s, want the negative gain", lines[1])
	}
}
