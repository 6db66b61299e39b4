package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradeledger"
	"github.com/etnz/tradeledger/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// annotateCmd holds the flags for the 'annotate' subcommand.
type annotateCmd struct {
	ledger string
	index  int
	remark string
	rating int
}

func (*annotateCmd) Name() string     { return "annotate" }
func (*annotateCmd) Synopsis() string { return "set the remark or the rating of a recorded trade" }
func (*annotateCmd) Usage() string {
	return `tl annotate -i <index> [-remark <text>] [-rating <n>]

  Sets the remark and/or the rating of the record at index, as displayed by
  'tl show'. Flags that are not given leave the annotation unchanged.

Usage Examples:
$ tl annotate -i 12 -remark "bought the dip" -rating 4
`
}

func (c *annotateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledger, "ledger", "", "Ledger file")
	f.IntVar(&c.index, "i", -1, "Index of the record")
	f.StringVar(&c.remark, "remark", "", "Free text remark")
	f.IntVar(&c.rating, "rating", 0, "Rating of the trade")
}

func (c *annotateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	if !set["i"] {
		fmt.Fprintf(os.Stderr, "Error: -i is required\n")
		return subcommands.ExitUsageError
	}
	if !set["remark"] && !set["rating"] {
		fmt.Fprintf(os.Stderr, "Error: nothing to annotate, use -remark or -rating\n")
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

	if set["remark"] {
		if err := ledger.SetRemark(c.index, c.remark); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if set["rating"] {
		if err := ledger.SetRating(c.index, c.rating); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	if err := tradeledger.SaveLedger(path, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	rec, _ := ledger.Record(c.index)
	log.Info().Int("index", c.index).Str("ledger", path).Msg("record annotated")
	fmt.Fprintf(stdout, "%s: %s\n", rec.Time.Format(tradeledger.TimeFormat), renderer.Trade(rec.Trade, cfg.Currency))
	return subcommands.ExitSuccess
}
