package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradeledger/renderer"
	"github.com/google/subcommands"
)

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct {
	ledger string
	ticker string
	tail   int
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the recorded trades" }
func (*showCmd) Usage() string {
	return `tl show [-ledger <file>] [-ticker <ticker>] [-tail <n>]

  Displays the ledger as a table. The first column is the index of the record,
  as expected by 'tl annotate'.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledger, "ledger", "", "Ledger file")
	f.StringVar(&c.ticker, "ticker", "", "Only display the trades of this ticker")
	f.IntVar(&c.tail, "tail", 0, "Only display the last n trades")
}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.tail < 0 {
		fmt.Fprintf(os.Stderr, "Error: -tail cannot be negative\n")
		return subcommands.ExitUsageError
	}
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

	printMarkdown(renderer.LedgerMarkdown(ledger, renderer.LedgerOptions{
		Ticker:   c.ticker,
		Tail:     c.tail,
		Currency: cfg.Currency,
	}))
	return subcommands.ExitSuccess
}
