package coinlots

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// this file contains the shipped report sinks. The engine itself is
// sink-agnostic; see the renderer package for the markdown view.

// EncodeMatches writes the realized matches as JSON Lines, one match per
// line, in the field order Match.MarshalJSON defines.
func EncodeMatches(w io.Writer, matches []Match) error {
	enc := json.NewEncoder(w)
	for _, m := range matches {
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("cannot encode match of %s: %w", m.Asset, err)
		}
	}
	return nil
}

// CSVSink persists each report table as "<Dir>/<table name>.csv".
type CSVSink struct {
	Dir string
}

// WriteTable writes one table as a CSV file, header first.
func (s CSVSink) WriteTable(t Table) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(s.Dir, t.Name+".csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("cannot flush %s.csv: %w", t.Name, err)
	}
	return nil
}
