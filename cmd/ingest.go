package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/tradeledger"
	"github.com/etnz/tradeledger/broker"
	"github.com/etnz/tradeledger/config"
	"github.com/etnz/tradeledger/fingerprint"
	"github.com/etnz/tradeledger/ingest"
	"github.com/etnz/tradeledger/renderer"
	"github.com/google/subcommands"
)

// ingestFlags are the settings an ingestion can override on the command line.
// Empty values keep the configured setting.
type ingestFlags struct {
	dir      string
	ledger   string
	history  string
	broker   string
	gap      time.Duration
	minTotal string
	anchor   string
}

func (c *ingestFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Folder of broker exports")
	f.StringVar(&c.ledger, "ledger", "", "Ledger file")
	f.StringVar(&c.history, "history", "", "File recording the exports already seen")
	f.StringVar(&c.broker, "broker", "", fmt.Sprintf("Export layout, one of %v", broker.Names()))
	f.DurationVar(&c.gap, "gap", 0, "Maximum time between two fills of the same trade")
	f.StringVar(&c.minTotal, "min-total", "", "Trades with a lower total are not recorded")
	f.StringVar(&c.anchor, "anchor", "", "Gap measured from the 'previous' fill or the 'first' fill of a trade")
}

// options applies the flags on cfg and returns the resulting run options.
func (c *ingestFlags) options(cfg *config.Config) (ingest.Options, error) {
	if c.dir != "" {
		cfg.SourceDir = c.dir
	}
	if c.ledger != "" {
		cfg.LedgerFile = c.ledger
	}
	if c.history != "" {
		cfg.HistoryFile = c.history
	}
	if c.broker != "" {
		cfg.Broker = c.broker
	}
	if c.gap != 0 {
		cfg.Gap = c.gap
	}
	if c.anchor != "" {
		cfg.Anchor = c.anchor
	}
	threshold := cfg.Threshold()
	if c.minTotal != "" {
		var err error
		if threshold, err = tradeledger.ParseDecimal(c.minTotal); err != nil {
			return ingest.Options{}, fmt.Errorf("invalid -min-total %q: %w", c.minTotal, err)
		}
		if threshold.IsNegative() {
			return ingest.Options{}, fmt.Errorf("-min-total cannot be negative, got %s", threshold)
		}
	}
	if err := cfg.Validate(); err != nil {
		return ingest.Options{}, err
	}

	schema, err := cfg.Schema()
	if err != nil {
		return ingest.Options{}, err
	}
	combine, err := cfg.CombineOptions()
	if err != nil {
		return ingest.Options{}, err
	}
	return ingest.Options{
		Dir:      cfg.SourceDir,
		Ledger:   cfg.LedgerFile,
		Tracker:  fingerprint.NewTracker(fingerprint.NewFileStore(cfg.History())),
		Schema:   schema,
		Combine:  combine,
		MinTotal: &threshold,
	}, nil
}

// ingestCmd holds the flags for the 'ingest' subcommand.
type ingestCmd struct {
	ingestFlags
}

func (*ingestCmd) Name() string { return "ingest" }
func (*ingestCmd) Synopsis() string {
	return "record the trades of new or modified broker exports into the ledger"
}
func (*ingestCmd) Usage() string {
	return `tl ingest [-dir <folder>] [-ledger <file>] [-broker <name>] [-gap <duration>] [-min-total <amount>] [-anchor previous|first]

  Reads the exports of the folder that are new or modified since the previous
  run, collapses partial fills into trades and appends the trades not yet
  recorded to the ledger. Existing records and their annotations are kept.

  Exports that cannot be read are reported and the exit status is 1, the other
  exports are still recorded.

Usage Examples:
$ tl ingest
$ tl ingest -dir ~/Downloads/exports -gap 2m -min-total 100
`
}

func (c *ingestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	opts, err := c.options(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	report, err := ingest.Run(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error ingesting %q: %v\n", opts.Dir, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.IngestMarkdown(report))

	if err := report.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Some exports were not recorded:\n%v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
