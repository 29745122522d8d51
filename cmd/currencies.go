package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/coinlots/coinlots"
	"github.com/google/subcommands"
)

// currenciesCmd holds the flags for the 'currencies' subcommand.
type currenciesCmd struct {
	remote bool
}

func (*currenciesCmd) Name() string     { return "currencies" }
func (*currenciesCmd) Synopsis() string { return "list the currencies a report can be valued in" }
func (*currenciesCmd) Usage() string {
	return `clg currencies [-remote]

  Lists the fiat currencies accepted as a ledger's primary currency.
  With -remote, also lists every symbol the rate provider can convert,
  any of which can be passed to 'report -c'.
`
}

func (c *currenciesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.remote, "remote", false, "Also query the rate provider for its convertible symbols.")
}

func (c *currenciesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var b strings.Builder
	fmt.Fprint(&b, "## Fiat Currencies\n\n")
	for _, code := range coinlots.FiatCurrencies() {
		fmt.Fprintf(&b, "* %s (%s)\n", code, coinlots.CurrencySymbol(code))
	}

	if c.remote {
		symbols, err := coinlots.NewCryptoCompare().Currencies()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing convertible symbols: %v\n", err)
			return subcommands.ExitFailure
		}
		list := make([]string, 0, len(symbols))
		for s := range symbols {
			list = append(list, s)
		}
		sort.Strings(list)
		fmt.Fprintf(&b, "\n## Convertible Symbols\n\n%s\n", strings.Join(list, ", "))
	}

	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
