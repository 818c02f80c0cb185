package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play blackjack at an interactive table"`
	Train    TrainCmd         `cmd:"" help:"Practice basic strategy and card counting"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate basic strategy play against the house edge"`
	Edges    EdgesCmd         `cmd:"" help:"Show house edges for rule configurations"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack table, strategy trainer and simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
