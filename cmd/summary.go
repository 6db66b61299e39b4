package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradeledger/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	ledger string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the amounts traded per ticker" }
func (*summaryCmd) Usage() string {
	return `tl summary [-ledger <file>]

  Displays, for every ticker, the number of trades, the amounts bought and
  sold, and the time of the last trade.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledger, "ledger", "", "Ledger file")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	path, ledger, err := loadLedger(cfg, c.ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SummaryMarkdown(ledger, cfg.Currency))
	return subcommands.ExitSuccess
}
