package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/display"
	"github.com/lox/holdem-table/internal/evaluator"
	"github.com/lox/holdem-table/internal/randutil"
)

// OddsCmd estimates each hand's share of the pot at showdown.
type OddsCmd struct {
	Hands   []string `arg:"" required:"" help:"Player hands such as 'AcKd' 'QhJs'"`
	Board   string   `short:"b" help:"Community cards (e.g. 'Td7s8h')"`
	Trials  int      `short:"i" default:"100000" help:"Number of Monte-Carlo trials"`
	Exact   bool     `short:"e" help:"Enumerate every board instead of sampling"`
	Workers int      `help:"Parallel workers (0 uses the CPU count)"`
	Seed    *int64   `help:"Random seed for reproducible results"`
}

func (c *OddsCmd) Run(_ *Globals) error {
	seats, err := parseHands(c.Hands)
	if err != nil {
		return err
	}

	var board []deck.Card
	if c.Board != "" {
		if board, err = deck.ParseCards(c.Board); err != nil {
			return fmt.Errorf("board: %w", err)
		}
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	sim := evaluator.NewSimulator(randutil.New(seed), evaluator.WithWorkers(c.Workers))
	if err := sim.SetSeats(seats); err != nil {
		return err
	}
	if err := sim.SetCommunity(board); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	if c.Exact {
		err = sim.Enumerate(ctx)
	} else {
		err = sim.Run(ctx, c.Trials)
	}
	if err != nil {
		return err
	}

	styles := display.DefaultStyles()
	if err := display.Odds(os.Stdout, styles, sim, seats, board); err != nil {
		return err
	}
	fmt.Println(styles.Info.Render(fmt.Sprintf("calculated in %s", time.Since(start).Round(time.Millisecond))))
	return nil
}

func parseHands(hands []string) ([]evaluator.Seat, error) {
	seats := make([]evaluator.Seat, 0, len(hands))
	for i, h := range hands {
		cards, err := deck.ParseCards(h)
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(cards) != 2 {
			return nil, fmt.Errorf("hand %d: must contain exactly 2 cards, got %d", i+1, len(cards))
		}
		seats = append(seats, evaluator.Seat{Name: fmt.Sprintf("hand %d", i+1), Hole: cards})
	}
	return seats, nil
}
