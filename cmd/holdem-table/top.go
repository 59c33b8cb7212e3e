package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lox/holdem-table/internal/config"
	"github.com/lox/holdem-table/internal/display"
	"github.com/lox/holdem-table/internal/store"
)

const leaderboardPage = 10

// TopCmd lists the page of a lifetime leaderboard that holds rank N.
type TopCmd struct {
	Stat string `arg:"" optional:"" default:"cash" help:"Statistic to rank by: cash, bank, net, rounds, wins or bankrupts"`
	N    int    `short:"n" default:"1" help:"Show the page of ten that includes this rank"`
}

func (c *TopCmd) Run(g *Globals) error {
	stat, err := store.ParseStat(c.Stat)
	if err != nil {
		return err
	}
	if c.N < 1 {
		return fmt.Errorf("rank must be at least 1, got %d", c.N)
	}
	offset := (c.N - 1) / leaderboardPage * leaderboardPage

	ctx := context.Background()
	st, err := openStore(ctx, g)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ranked, err := st.TopPlayers(ctx, stat, leaderboardPage, offset)
	if err != nil {
		return err
	}
	return display.TopPlayers(os.Stdout, display.DefaultStyles(), stat, offset+1, ranked)
}

// RankCmd shows where one player stands on a lifetime leaderboard.
type RankCmd struct {
	Player string `arg:"" help:"Player to look up"`
	Stat   string `arg:"" optional:"" default:"cash" help:"Statistic to rank by"`
}

func (c *RankCmd) Run(g *Globals) error {
	stat, err := store.ParseStat(c.Stat)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := openStore(ctx, g)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	r, ok, err := st.PlayerRank(ctx, c.Player, stat)
	if err != nil {
		return err
	}
	return display.PlayerRank(os.Stdout, display.DefaultStyles(), stat, c.Player, r, ok)
}

func openStore(ctx context.Context, g *Globals) (store.Store, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}
