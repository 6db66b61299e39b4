package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradeledger"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	ledger string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `tl fmt [-ledger <file>]

  Validates and formats the ledger file. This command reads all records,
  sorts them by time, writes decimals in their shortest form and the header
  with the canonical column names, and writes the ledger back in place.
  Remarks and ratings are kept.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledger, "ledger", "", "Ledger file")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	path, ledger, err := loadLedger(cfg, c.ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: no ledger found at %q.\n", path)
		return subcommands.ExitSuccess
	}

	if err := tradeledger.SaveLedger(path, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted ledger %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Successfully formatted %d records of %q.\n", ledger.Len(), path)
	return subcommands.ExitSuccess
}
