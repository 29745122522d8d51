package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/coinlots/coinlots"
	"github.com/coinlots/coinlots/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// AssistCmd is the subcommand for the AI assistant.
type AssistCmd struct {
	input      string
	currencies string
}

// Name returns the name of the command.
func (*AssistCmd) Name() string { return "assist" }

// Synopsis returns a short one-line synopsis of the command.
func (*AssistCmd) Synopsis() string { return "Start an interactive session with the AI assistant." }

// Usage returns a long-form usage string.
func (*AssistCmd) Usage() string {
	return `clg assist [-i <trades.csv>] [-c <currencies>] [question]:
  Start an interactive session with the AI assistant over the trade ledger.
`
}

// SetFlags sets the flags for the command.
func (c *AssistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "trades.csv", "Trade ledger CSV export the assistant works on.")
	f.StringVar(&c.currencies, "c", "", "Extra valuation currencies, comma separated.")
}

// Execute executes the command.
func (c *AssistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	var valuation []string
	for _, cur := range strings.Split(c.currencies, ",") {
		if cur = strings.TrimSpace(cur); cur != "" {
			valuation = append(valuation, cur)
		}
	}
	books := &agent.Books{
		TradesFile: c.input,
		Currencies: valuation,
		Rates:      coinlots.NewCryptoCompare(),
		Prices:     coinlots.NewCoinMarketCap(),
	}

	analyst := agent.NewAnalyst()
	accountant := agent.NewAccountant(books)
	a := agent.New(os.Stdout, os.Stdin, analyst, accountant)

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
