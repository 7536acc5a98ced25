package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"1" help:"Play an interactive game in the terminal"`
	Demo    DemoCmd          `cmd:"" help:"Score a canned example game and print the sheet"`
	Server  ServerCmd        `cmd:"" help:"Run the scoreboard server"`
	Join    JoinCmd          `cmd:"" help:"Keep score against a remote scoreboard server"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tenpin"),
		kong.Description("Ten-pin bowling scorekeeper"),
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
