package renderer

import (
	"strings"
	"testing"

	"github.com/coinlots/coinlots"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func sampleReport() *coinlots.Report {
	return &coinlots.Report{
		Combined: coinlots.Table{
			Name:    "buy_and_sell_match",
			Columns: []string{"currency", "quantity", "buy_date", "sell_date"},
			Rows: [][]string{
				{"BTC", "2", "2021-01-03T00:00:00+00:00", "2021-01-05T00:00:00+00:00"},
				{"BTC", "3", "2021-01-03T00:00:00+00:00", ""},
			},
		},
		RealizedTotals: coinlots.Table{
			Name:    "realized_totals",
			Columns: []string{"sell_year", "currency", "quantity"},
			Rows: [][]string{
				{"2021", "BTC", "12"},
				{"Total", "", ""},
			},
		},
		RealizedAverages: coinlots.Table{
			Name:    "realized_average_prices",
			Columns: []string{"sell_year", "currency", "quantity"},
			Rows:    [][]string{{"2021", "BTC", "12"}},
		},
		UnrealizedTotals: coinlots.Table{
			Name:    "unrealized_totals",
			Columns: []string{"currency", "quantity"},
		},
		UnrealizedAverages: coinlots.Table{
			Name:    "unrealized_average_prices",
			Columns: []string{"currency", "quantity"},
		},
		Caveats: []string{"no current price for XYZ, using 0"},
	}
}

func TestReportMarkdownStructure(t *testing.T) {
	md := ReportMarkdown(sampleReport())

	source := []byte(md)
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := parser.Parse(text.NewReader(source))

	var headings []string
	var tables, tableRows int
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			var b strings.Builder
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			headings = append(headings, b.String())
		case *east.Table:
			tables++
		case *east.TableRow:
			tableRows++
		}
		return ast.WalkContinue, nil
	})

	wantHeadings := []string{
		"Capital Gains Report",
		"Matched and Held Lots",
		"Realized Totals",
		"Realized Average Prices",
		"Unrealized Totals",
		"Unrealized Average Prices",
	}
	if len(headings) != len(wantHeadings) {
		t.Fatalf("got headings %v, want %v", headings, wantHeadings)
	}
	for i, want := range wantHeadings {
		if headings[i] != want {
			t.Errorf("heading[%d] = %q, want %q", i, headings[i], want)
		}
	}

	// Three populated views render as tables, two empty views as placeholders.
	if tables != 3 {
		t.Errorf("got %d tables, want 3", tables)
	}
	// 2 combined + 2 realized + 1 averages data rows (headers not counted).
	if tableRows != 5 {
		t.Errorf("got %d table rows, want 5", tableRows)
	}
	if want := "Nothing to report."; strings.Count(md, want) != 2 {
		t.Errorf("want two empty-view placeholders %q in:\n%s", want, md)
	}
}

func TestReportMarkdownCaveats(t *testing.T) {
	md := ReportMarkdown(sampleReport())
	if !strings.Contains(md, "> no current price for XYZ, using 0") {
		t.Errorf("caveat not rendered as blockquote:\n%s", md)
	}
}

func TestReportMarkdownRaggedRow(t *testing.T) {
	r := &coinlots.Report{
		Combined: coinlots.Table{
			Columns: []string{"a", "b", "c"},
			Rows:    [][]string{{"only"}},
		},
	}
	md := ReportMarkdown(r)
	if !strings.Contains(md, "| only |  |  |") {
		t.Errorf("short row not padded to column count:\n%s", md)
	}
}
