// Command tl records broker trade exports into a CSV trade ledger.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tradeledger/broker"
	"github.com/etnz/tradeledger/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion.
// Install it with COMP_INSTALL=1 tl.
func completion() *complete.Command {
	csvFiles := predict.Files("*.csv")
	dirs := predict.Dirs("*")
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"plain":  predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"ingest": {Flags: map[string]complete.Predictor{
				"dir":       dirs,
				"ledger":    csvFiles,
				"history":   predict.Files("*"),
				"broker":    predict.Set(broker.Names()),
				"gap":       predict.Something,
				"min-total": predict.Something,
				"anchor":    predict.Set{"previous", "first"},
			}},
			"changes": {Flags: map[string]complete.Predictor{
				"dir":     dirs,
				"ledger":  csvFiles,
				"history": predict.Files("*"),
			}},
			"show": {Flags: map[string]complete.Predictor{
				"ledger": csvFiles,
				"ticker": predict.Something,
				"tail":   predict.Something,
			}},
			"summary": {Flags: map[string]complete.Predictor{
				"ledger": csvFiles,
			}},
			"annotate": {Flags: map[string]complete.Predictor{
				"ledger": csvFiles,
				"i":      predict.Something,
				"remark": predict.Something,
				"rating": predict.Something,
			}},
			"fmt": {Flags: map[string]complete.Predictor{
				"ledger": csvFiles,
			}},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}

func main() {
	name := path.Base(os.Args[0])
	completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
