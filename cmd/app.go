// Package cmd implements the tl command line application.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tradeledger"
	"github.com/etnz/tradeledger/config"
	"github.com/etnz/tradeledger/logger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&ingestCmd{}, "ingestion")
	c.Register(&changesCmd{}, "ingestion")

	c.Register(&showCmd{}, "ledger")
	c.Register(&summaryCmd{}, "ledger")
	c.Register(&annotateCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file. Defaults to $TL_CONFIG, then "+config.DefaultFile+" if it exists")
var plain = flag.Bool("plain", false, "Print raw markdown instead of rendering it for the terminal")

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// loadConfig loads the settings and configures the logger accordingly.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

// loadLedger loads the ledger file, defaulting to the configured one.
func loadLedger(cfg *config.Config, path string) (string, *tradeledger.Ledger, error) {
	if path == "" {
		path = cfg.LedgerFile
	}
	ledger, err := tradeledger.LoadLedger(path)
	return path, ledger, err
}

// printMarkdown renders md for the terminal, or prints it as is with -plain.
func printMarkdown(md string) {
	if *plain {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Debug().Err(err).Msg("cannot render markdown, printing it raw")
		out = md
	}
	fmt.Fprint(stdout, out)
}
