package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradeledger/ingest"
	"github.com/etnz/tradeledger/renderer"
	"github.com/google/subcommands"
)

// changesCmd holds the flags for the 'changes' subcommand.
type changesCmd struct {
	ingestFlags
}

func (*changesCmd) Name() string     { return "changes" }
func (*changesCmd) Synopsis() string { return "list the exports the next ingestion would read" }
func (*changesCmd) Usage() string {
	return `tl changes [-dir <folder>] [-history <file>]

  Lists the exports that are new or modified since the previous ingestion,
  and the exports that disappeared. Nothing is read nor recorded.
`
}

func (c *changesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Folder of broker exports")
	f.StringVar(&c.ledger, "ledger", "", "Ledger file, locates the default history file")
	f.StringVar(&c.history, "history", "", "File recording the exports already seen")
}

func (c *changesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	scan, err := ingest.Changes(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning %q: %v\n", opts.Dir, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ChangesMarkdown(scan))
	return subcommands.ExitSuccess
}
