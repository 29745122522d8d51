package coinlots

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// this file contains functions to read the trade-list import format.
// It is the CSV export of a CoinTracking-style trade list: one trade per
// line, with a buy side, a sell side, and the trade value expressed in
// exactly one fiat currency.

// tradeTimeLayout is the trade-list timestamp format, UTC.
const tradeTimeLayout = "02.01.2006 15:04"

// TradeList is an imported trade list: the raw rows as read (echoed back
// in the report), the detected primary valuation currency and the parsed
// trades.
type TradeList struct {
	Header  []string   // raw column names, as found in the file
	Records [][]string // raw rows, as found in the file
	Primary string     // primary valuation currency, detected from the header
	Trades  []Trade
}

// ImportTrades reads a trade list CSV from 'r'.
//
// Column names are normalized (lower-case, spaces to underscores, "in"
// dropped, a "Cur." column renamed after the column it qualifies), the
// primary valuation currency is detected as the fiat currency of the
// "buy_value_<cur>" column, and the presence of every required column is
// checked before any row is parsed. Any shape problem is an ErrSchema.
func ImportTrades(r io.Reader) (*TradeList, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read trade list: %v", ErrSchema, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: trade list is empty", ErrSchema)
	}

	list := &TradeList{Header: records[0], Records: records[1:]}
	columns := normalizeColumns(records[0])

	list.Primary, err = primaryValuationCurrency(columns)
	if err != nil {
		return nil, err
	}
	if err := checkRequiredColumns(columns, list.Primary); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	lower := strings.ToLower(list.Primary)
	for n, row := range list.Records {
		t := Trade{
			Type:      cell(row, "type"),
			BuyAsset:  strings.ToUpper(cell(row, "buy_currency")),
			SellAsset: strings.ToUpper(cell(row, "sell_currency")),
			Venue:     cell(row, "exchange"),
			Note:      cell(row, "comment"),
			BuyValue:  NewValuation(),
			SellValue: NewValuation(),
		}

		if t.BuyQuantity, err = ParseQuantity(cell(row, "buy")); err != nil {
			return nil, fmt.Errorf("%w: line %d: bad buy quantity: %v", ErrSchema, n+2, err)
		}
		if t.SellQuantity, err = ParseQuantity(cell(row, "sell")); err != nil {
			return nil, fmt.Errorf("%w: line %d: bad sell quantity: %v", ErrSchema, n+2, err)
		}

		buyValue, err := ParseMoney(cell(row, "buy_value_"+lower), list.Primary)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad buy value: %v", ErrSchema, n+2, err)
		}
		sellValue, err := ParseMoney(cell(row, "sell_value_"+lower), list.Primary)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad sell value: %v", ErrSchema, n+2, err)
		}
		t.BuyValue.Set(buyValue.Round(DefaultPrecision))
		t.SellValue.Set(sellValue.Round(DefaultPrecision))
		t.BuyQuantity = t.BuyQuantity.Round(DefaultPrecision)
		t.SellQuantity = t.SellQuantity.Round(DefaultPrecision)

		if t.Time, err = time.ParseInLocation(tradeTimeLayout, cell(row, "trade_date"), time.UTC); err != nil {
			return nil, fmt.Errorf("%w: line %d: bad trade date %q: %v", ErrSchema, n+2, cell(row, "trade_date"), err)
		}

		list.Trades = append(list.Trades, t)
	}
	return list, nil
}

// normalizeColumns turns the raw trade-list header into canonical column
// names. A "Cur." column carries the currency of the column before it, so
// it is renamed "<previous>_currency".
func normalizeColumns(header []string) []string {
	columns := make([]string, 0, len(header))
	previous := ""
	for _, c := range header {
		c = strings.TrimSpace(strings.ReplaceAll(strings.ToLower(c), " ", "_"))
		c = strings.ReplaceAll(c, "_in_", "_")
		if strings.HasPrefix(c, "cur.") {
			c = previous + "_currency"
		}
		columns = append(columns, c)
		previous = c
	}
	return columns
}

// primaryValuationCurrency finds the fiat currency of the buy value
// column. The trade list must carry its values in exactly one supported
// fiat currency; when several buy value columns exist the last fiat one
// wins.
func primaryValuationCurrency(columns []string) (string, error) {
	primary := ""
	for _, c := range columns {
		if !strings.HasPrefix(c, "buy_value_") {
			continue
		}
		currency := strings.ToUpper(c[strings.LastIndex(c, "_")+1:])
		if IsFiat(currency) {
			primary = currency
		}
	}
	if primary == "" {
		return "", fmt.Errorf("%w: no buy value column in a supported fiat currency (one of %s)",
			ErrSchema, strings.Join(FiatCurrencies(), ", "))
	}
	return primary, nil
}

// checkRequiredColumns verifies the trade list has every required column.
func checkRequiredColumns(columns []string, primary string) error {
	lower := strings.ToLower(primary)
	required := []string{
		"type",
		"buy", "buy_currency", "buy_value_" + lower,
		"sell", "sell_currency", "sell_value_" + lower,
		"exchange", "comment", "trade_date",
	}
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	var missing []string
	for _, c := range required {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing required column(s): %s", ErrSchema, strings.Join(missing, ", "))
	}
	return nil
}
