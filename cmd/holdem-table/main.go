package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lox/holdem-table/internal/display"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every subcommand.
type Globals struct {
	Config  string `short:"c" type:"path" env:"HOLDEM_CONFIG" default:"holdem.hcl" help:"HCL configuration file"`
	Debug   bool   `env:"HOLDEM_DEBUG" help:"Enable debug logging"`
	NoColor bool   `env:"NO_COLOR" help:"Disable coloured output"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"withargs" help:"Sit players at a table and play in a terminal UI"`
	Odds    OddsCmd          `cmd:"" help:"Calculate showdown equity for known hands"`
	History HistoryCmd       `cmd:"" help:"List recently completed rounds"`
	Stats   StatsCmd         `cmd:"" help:"Show per-player results over recent rounds"`
	Top     TopCmd           `cmd:"" help:"Show a lifetime leaderboard"`
	Rank    RankCmd          `cmd:"" help:"Show a player's place on a lifetime leaderboard"`
}

func main() {
	// A missing .env file is fine; the environment and flags still apply.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-table"),
		kong.Description("No-limit Texas Hold'em table for the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(&cli.Globals),
	)
	if cli.NoColor {
		display.DisableColor()
	}
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
