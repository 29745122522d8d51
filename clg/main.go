package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/coinlots/coinlots/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the CLI for shell completion. Running
// `COMP_INSTALL=1 clg` installs it.
var completion = &complete.Command{
	Sub: map[string]*complete.Command{
		"report": {
			Flags: map[string]complete.Predictor{
				"i":   predict.Files("*.csv"),
				"c":   predict.Something,
				"csv": predict.Dirs("*"),
			},
		},
		"currencies": {
			Flags: map[string]complete.Predictor{
				"remote": predict.Nothing,
			},
		},
		"assist": {
			Flags: map[string]complete.Predictor{
				"i": predict.Files("*.csv"),
				"c": predict.Something,
			},
		},
		"help":     {},
		"flags":    {},
		"commands": {},
	},
}

func main() {
	completion.Complete("clg")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
