package coinlots

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// reportTimeLayout is how trade instants appear in the output tables.
const reportTimeLayout = "2006-01-02T15:04:05+00:00"

// Table is one tabular output view: a name, ordered columns, and rows of
// preformatted cells. The engine places no constraint on where a table
// ends up; that is the Sink's business.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Sink persists tables. Implementations decide the storage format.
type Sink interface {
	WriteTable(t Table) error
}

// Report is the complete outcome of a gains computation: the six output
// views plus the non-fatal caveats collected along the way. The realized
// matches are kept as records too, for structured export (EncodeMatches).
type Report struct {
	Input              Table // echo of the raw trade list
	Combined           Table // matches and still-held positions
	RealizedTotals     Table
	RealizedAverages   Table
	UnrealizedTotals   Table
	UnrealizedAverages Table
	Matches            []Match // realized matches, gift disposals excluded
	Caveats            []string
}

// Tables returns the report views in their canonical order.
func (r *Report) Tables() []Table {
	return []Table{r.Input, r.Combined, r.RealizedTotals, r.RealizedAverages, r.UnrealizedTotals, r.UnrealizedAverages}
}

// Encode hands every table to the sink, in order.
func (r *Report) Encode(s Sink) error {
	for _, t := range r.Tables() {
		if err := s.WriteTable(t); err != nil {
			return fmt.Errorf("cannot write table %q: %w", t.Name, err)
		}
	}
	return nil
}

// GenerateReport runs the whole pipeline over an imported trade list:
// normalize, match, aggregate, shape. It is the single entry point the
// CLI uses.
func GenerateReport(cfg Config, list *TradeList, rates RateSource, prices PriceSource) (*Report, error) {
	trades, err := NewNormalizer(cfg, rates).Normalize(list.Trades)
	if err != nil {
		return nil, err
	}
	result, err := NewMatcher(cfg).Match(trades)
	if err != nil {
		return nil, err
	}

	agg := NewAggregator(cfg, prices)
	realized := agg.RealizedTotals(result.Matches)
	unrealized, caveats, err := agg.UnrealizedTotals(result.Open)
	if err != nil {
		return nil, err
	}

	return AssembleReport(cfg, list, result, realized, unrealized, caveats), nil
}

// AssembleReport shapes the computation results into the six output
// views. Pure reshaping: no business logic happens here.
func AssembleReport(cfg Config, list *TradeList, result *MatchResult, realized, unrealized []TotalsRow, caveats []string) *Report {
	return &Report{
		Input:              inputTable(list),
		Combined:           combinedTable(cfg, result),
		RealizedTotals:     totalsTable(cfg, "realized_totals", "sell_year", realized, 2),
		RealizedAverages:   totalsTable(cfg, "realized_average_prices", "sell_year", AveragePrices(realized), 8),
		UnrealizedTotals:   totalsTable(cfg, "unrealized_totals", "", unrealized, 2),
		UnrealizedAverages: totalsTable(cfg, "unrealized_average_prices", "", AveragePrices(unrealized), 8),
		Matches:            result.Realized(),
		Caveats:            caveats,
	}
}

// inputTable echoes the raw trade list as read.
func inputTable(list *TradeList) Table {
	return Table{Name: "input", Columns: list.Header, Rows: list.Records}
}

// combinedRow is the internal merge of a match and a still-held position;
// a position has a zero SellTime.
type combinedRow struct {
	asset      string
	quantity   Quantity
	buyTime    time.Time
	sellTime   time.Time
	buy        Valuation
	sell       Valuation
	gain       Valuation
	dates      bool // row has a sell side
	buyVenue   string
	sellVenue  string
	buyNote    string
	sellNote   string
}

// combinedTable lists every non-gift match followed by the still-held
// positions, ordered by sell date then buy date, both descending.
// Position rows have no sell date and sort after all real dates.
func combinedTable(cfg Config, result *MatchResult) Table {
	var rows []combinedRow
	for _, m := range result.Realized() {
		rows = append(rows, combinedRow{
			asset: m.Asset, quantity: m.Quantity,
			buyTime: m.BuyTime, sellTime: m.SellTime, dates: true,
			buy: m.BuyValue, sell: m.SellValue, gain: m.GainLoss,
			buyVenue: m.BuyVenue, sellVenue: m.SellVenue,
			buyNote: m.BuyNote, sellNote: m.SellNote,
		})
	}
	for _, p := range result.Open {
		rows = append(rows, combinedRow{
			asset: p.Asset, quantity: p.Quantity,
			buyTime: p.BuyTime,
			buy:     p.BuyValue,
			buyVenue: p.BuyVenue, buyNote: p.BuyNote,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.dates != b.dates {
			return a.dates // rows without a sell date go last
		}
		if !a.sellTime.Equal(b.sellTime) {
			return a.sellTime.After(b.sellTime)
		}
		return a.buyTime.After(b.buyTime)
	})

	columns := []string{"currency", "quantity", "buy_date", "sell_date"}
	columns = append(columns, valuationColumns(cfg)...)
	columns = append(columns, "buy_exchange", "sell_exchange", "buy_comment", "sell_comment")

	t := Table{Name: "buy_and_sell_match", Columns: columns}
	for _, r := range rows {
		cells := []string{r.asset, r.quantity.Round(8).String(), r.buyTime.UTC().Format(reportTimeLayout)}
		if r.dates {
			cells = append(cells, r.sellTime.UTC().Format(reportTimeLayout))
		} else {
			cells = append(cells, "")
		}
		for _, c := range cfg.Currencies {
			cells = append(cells, r.buy.Get(c).Round(8).Amount().String())
			if r.dates {
				cells = append(cells, r.sell.Get(c).Round(8).Amount().String(), r.gain.Get(c).Round(8).Amount().String())
			} else {
				cells = append(cells, "", "")
			}
		}
		if r.dates {
			cells = append(cells, r.buyVenue, r.sellVenue, r.buyNote, r.sellNote)
		} else {
			cells = append(cells, r.buyVenue, "", r.buyNote, "")
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// totalsTable shapes a totals (or averages) view. 'yearColumn' names the
// leading pivot column when the rows carry one; values are rounded to
// 'places' (2 for totals, 8 for per-unit averages).
func totalsTable(cfg Config, name, yearColumn string, rows []TotalsRow, places int32) Table {
	columns := []string{}
	if yearColumn != "" {
		columns = append(columns, yearColumn)
	}
	columns = append(columns, "currency", "quantity")
	columns = append(columns, valuationColumns(cfg)...)

	t := Table{Name: name, Columns: columns}
	for _, row := range rows {
		cells := append([]string{}, row.Keys...)
		if row.Grand {
			cells = append(cells, "")
		} else {
			cells = append(cells, row.Quantity.Round(8).String())
		}
		for _, c := range cfg.Currencies {
			cells = append(cells,
				row.Buy.Get(c).Round(places).Amount().String(),
				row.Sell.Get(c).Round(places).Amount().String(),
				row.Gain.Get(c).Round(places).Amount().String(),
			)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// valuationColumns returns the per-currency value column triplets, in
// configuration order.
func valuationColumns(cfg Config) []string {
	var columns []string
	for _, c := range cfg.Currencies {
		lower := strings.ToLower(c)
		columns = append(columns, "buy_value_"+lower, "sell_value_"+lower, "gain_loss_"+lower)
	}
	return columns
}
