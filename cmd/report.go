package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/coinlots/coinlots"
	"github.com/coinlots/coinlots/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	input      string
	currencies string
	csvDir     string
	jsonFile   string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "capital gains and losses from a trade ledger" }
func (*reportCmd) Usage() string {
	return `clg report -i <trades.csv> [-c <currencies>] [-csv <dir>]

  Matches sells against buys first-in-first-out and displays the realized
  and unrealized gains per year and asset, valued in every requested currency.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "trades.csv", "Trade ledger CSV export to report on.")
	f.StringVar(&c.currencies, "c", "", "Extra valuation currencies, comma separated (e.g. 'USD,BTC'). The ledger's own currency is always first.")
	f.StringVar(&c.csvDir, "csv", "", "Also write every view as a CSV file into this directory.")
	f.StringVar(&c.jsonFile, "json", "", "Also write the realized matches as JSON Lines into this file.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	list, err := importTradesFile(c.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	cfg, err := parseCurrencies(list.Primary, c.currencies)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in currencies: %v\n", err)
		return subcommands.ExitUsageError
	}

	rates := coinlots.NewCryptoCompare()
	if needsCoinList(cfg) {
		coins, err := rates.Currencies()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving currency list: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := cfg.ValidateCurrencies(coins); err != nil {
			fmt.Fprintf(os.Stderr, "Error in currencies: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	report, err := coinlots.GenerateReport(cfg, list, rates, coinlots.NewCoinMarketCap())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing gains: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.jsonFile != "" {
		if err := writeMatchesJSON(c.jsonFile, report.Matches); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing matches file: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Wrote realized matches to %s\n", c.jsonFile)
	}

	if c.csvDir != "" {
		if err := report.Encode(coinlots.CSVSink{Dir: c.csvDir}); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV files: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Wrote report tables to %s\n", c.csvDir)
	}

	printMarkdown(renderer.ReportMarkdown(report))
	return subcommands.ExitSuccess
}

// needsCoinList reports whether any valuation currency is not fiat, so the
// coin list lookup is only paid when it can actually rule something out.
func needsCoinList(cfg coinlots.Config) bool {
	for _, cur := range cfg.Currencies {
		if !coinlots.IsFiat(cur) {
			return true
		}
	}
	return false
}

func writeMatchesJSON(filename string, matches []coinlots.Match) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return coinlots.EncodeMatches(f, matches)
}
