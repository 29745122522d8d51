// Package renderer shapes a coinlots report into markdown for terminal
// display.
package renderer

import (
	"fmt"
	"strings"

	"github.com/coinlots/coinlots"
)

// ReportMarkdown renders the computed views of the report to a markdown
// string. The raw input echo is left to the CSV sink: it is already in
// the user's hands.
func ReportMarkdown(r *coinlots.Report) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Capital Gains Report\n\n")

	for _, caveat := range r.Caveats {
		fmt.Fprintf(&b, "> %s\n", caveat)
	}
	if len(r.Caveats) > 0 {
		fmt.Fprintln(&b)
	}

	section(&b, "Matched and Held Lots", r.Combined)
	section(&b, "Realized Totals", r.RealizedTotals)
	section(&b, "Realized Average Prices", r.RealizedAverages)
	section(&b, "Unrealized Totals", r.UnrealizedTotals)
	section(&b, "Unrealized Average Prices", r.UnrealizedAverages)

	return b.String()
}

func section(b *strings.Builder, title string, t coinlots.Table) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(t.Rows) == 0 {
		fmt.Fprint(b, "Nothing to report.\n\n")
		return
	}
	tableMarkdown(b, t)
	fmt.Fprintln(b)
}

// tableMarkdown writes one markdown pipe table: the key column is
// left-aligned, everything else right-aligned.
func tableMarkdown(b *strings.Builder, t coinlots.Table) {
	fmt.Fprintf(b, "| %s |\n", strings.Join(t.Columns, " | "))
	marks := make([]string, len(t.Columns))
	for i := range marks {
		if i == 0 {
			marks[i] = ":---"
		} else {
			marks[i] = "---:"
		}
	}
	fmt.Fprintf(b, "|%s|\n", strings.Join(marks, "|"))
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
	}
}
