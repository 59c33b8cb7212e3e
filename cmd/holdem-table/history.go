package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lox/holdem-table/internal/config"
	"github.com/lox/holdem-table/internal/display"
	"github.com/lox/holdem-table/internal/fileutil"
	"github.com/lox/holdem-table/internal/statistics"
	"github.com/lox/holdem-table/internal/store"
)

// HistoryCmd prints the most recent rounds saved by the configured store.
type HistoryCmd struct {
	Limit int    `short:"n" default:"10" help:"Number of rounds to show"`
	JSON  string `name:"json" type:"path" help:"Also write the rounds to this file as JSON"`
}

func (c *HistoryCmd) Run(g *Globals) error {
	_, rounds, err := recentRounds(g, c.Limit)
	if err != nil {
		return err
	}
	if c.JSON != "" {
		err := fileutil.WriteAtomic(c.JSON, 0o644, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(rounds)
		})
		if err != nil {
			return fmt.Errorf("failed to export rounds: %w", err)
		}
	}
	return display.Rounds(os.Stdout, display.DefaultStyles(), rounds)
}

// StatsCmd summarises results per player over the most recent rounds.
type StatsCmd struct {
	Limit int `short:"n" default:"1000" help:"Number of rounds to include"`
}

func (c *StatsCmd) Run(g *Globals) error {
	cfg, rounds, err := recentRounds(g, c.Limit)
	if err != nil {
		return err
	}
	sum, err := statistics.Summarize(rounds, cfg.Table.MinimumBet)
	if err != nil {
		return err
	}
	return display.Stats(os.Stdout, display.DefaultStyles(), sum)
}

func recentRounds(g *Globals, limit int) (*config.Config, []store.RoundRecord, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	rounds, err := st.RecentRounds(ctx, limit)
	if err != nil {
		return nil, nil, err
	}
	return cfg, rounds, nil
}
