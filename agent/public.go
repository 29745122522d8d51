package agent

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/coinlots/coinlots"
	"github.com/coinlots/coinlots/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclarations(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand the capital gains and tax consequences of the
			trades recorded in his ledger. Check the ledger first to understand which assets he holds.

			Devise a plan of questions to ask each expert and come up with the best response to the
			user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst creates the market analyst expert. It has Google Search and
// nothing else: recent news and grounding, not the user's books.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an expert market analyst,
		very well aware of crypto assets, exchanges, and the latest market news.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in crypto markets. You can search and find anything related to
			assets, exchanges, funds and regulation. You leverage Google Search to ground
			your assertions, and you know how to relate the latest news to the user's request.
				`}}},
		},
	}
}

// Books locates the user's trade ledger and the market sources needed to
// value it. The accountant's tools run the gains pipeline over it.
type Books struct {
	TradesFile string
	Currencies []string
	Rates      coinlots.RateSource
	Prices     coinlots.PriceSource
}

// NewAccountant creates the accountant expert over the given books.
func NewAccountant(books *Books) *Expert {
	lib := []Function{books.gainsReport(), books.heldAssets()}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He is in charge of reading the user's trade ledger.
		He can compute the realized and unrealized capital gains and every relevant figure
		about the user's positions.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclarations(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's crypto trade ledger.
				You know how to use the Tools to extract relevant information about the user's
				trades and gains. You are part of a team of experts; yours is everything about
				the user's ledger. Pardon their approximative language and figure out what they meant.

				Use the available tools to get information about the user's ledger:
				  - the full capital gains report (matched lots, totals, averages)
				  - the list of assets the user still holds
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a Function from a declaration and a closure.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// report runs the whole gains pipeline over the books.
func (b *Books) report() (*coinlots.Report, error) {
	f, err := os.Open(b.TradesFile)
	if err != nil {
		return nil, fmt.Errorf("could not open trades file %q: %w", b.TradesFile, err)
	}
	defer f.Close()

	list, err := coinlots.ImportTrades(f)
	if err != nil {
		return nil, err
	}
	cfg, err := coinlots.NewConfig(list.Primary, b.Currencies...)
	if err != nil {
		return nil, err
	}
	return coinlots.GenerateReport(cfg, list, b.Rates, b.Prices)
}

func (b *Books) gainsReport() Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "GainsReport",
			Description: `GainsReport computes the full capital gains report from the user's trade ledger:
			every matched buy/sell lot with its gain or loss, the still-held positions,
			and the realized and unrealized totals and average prices per year and asset.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted report with one table per view.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			resp := &genai.FunctionResponse{ID: id, Name: "GainsReport"}
			report, err := b.report()
			if err != nil {
				resp.Response = map[string]any{"error": err.Error()}
				return resp
			}
			resp.Response = map[string]any{"output": renderer.ReportMarkdown(report)}
			return resp
		},
	}
}

func (b *Books) heldAssets() Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "HeldAssets",
			Description: `HeldAssets lists the assets the user still holds, with the open quantity of each.`,
			Parameters:  &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "One line per held asset: symbol and open quantity.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			resp := &genai.FunctionResponse{ID: id, Name: "HeldAssets"}
			report, err := b.report()
			if err != nil {
				resp.Response = map[string]any{"error": err.Error()}
				return resp
			}

			held := make(map[string]string)
			var order []string
			for _, row := range report.UnrealizedTotals.Rows {
				if len(row) < 2 || row[0] == "Total" {
					continue
				}
				if _, seen := held[row[0]]; !seen {
					order = append(order, row[0])
				}
				held[row[0]] = row[1]
			}
			var out strings.Builder
			for _, asset := range order {
				fmt.Fprintf(&out, "%s: %s\n", asset, held[asset])
			}
			if out.Len() == 0 {
				out.WriteString("no held assets\n")
			}
			resp.Response = map[string]any{"output": out.String()}
			return resp
		},
	}
}
