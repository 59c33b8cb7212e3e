package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/evaluator"
)

// Odds writes an equity table for seats after a simulation has run.
func Odds(w io.Writer, s *Styles, sim *evaluator.Simulator, seats []evaluator.Seat, board []deck.Card) error {
	if len(board) > 0 {
		fmt.Fprintf(w, "%s\n%s\n\n", s.HandInfo.Render("board"), s.Cards(board))
	}

	holes := make(map[string][]deck.Card, len(seats))
	for _, seat := range seats {
		holes[seat.Name] = seat.Hole
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", s.HandInfo.Render("hand"), s.HandInfo.Render("win"), s.HandInfo.Render("tie"))
	trials := sim.Trials()
	for _, o := range sim.Odds() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			s.Actions.Render(deck.FormatCards(holes[o.Name])),
			s.Success.Render(fmt.Sprintf("%.1f%%", pct(o.Wins, trials))),
			s.Warning.Render(fmt.Sprintf("%.1f%%", pct(o.Ties, trials))))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d trials, %.1f%% split\n", trials, pct(sim.Splits(), trials))
	return err
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
