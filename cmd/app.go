// Package cmd implements the CLI application to compute capital gains
// from a trade ledger.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/coinlots/coinlots"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&currenciesCmd{}, "reports")
	c.Register(&AssistCmd{}, "assistant")
}

// parseCurrencies turns the -c flag value into a Config. The first
// valuation currency always comes from the ledger itself; extras are
// comma separated.
func parseCurrencies(primary, extras string) (coinlots.Config, error) {
	var valuation []string
	for _, c := range strings.Split(extras, ",") {
		if c = strings.TrimSpace(c); c != "" {
			valuation = append(valuation, c)
		}
	}
	return coinlots.NewConfig(primary, valuation...)
}

// importTradesFile reads a trade ledger CSV export.
func importTradesFile(filename string) (*coinlots.TradeList, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open trades file %q: %w", filename, err)
	}
	defer f.Close()
	return coinlots.ImportTrades(f)
}
