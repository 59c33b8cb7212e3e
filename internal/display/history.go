package display

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/lox/holdem-table/internal/store"
)

// Rounds writes a summary of each round, newest first as given.
func Rounds(w io.Writer, s *Styles, rounds []store.RoundRecord) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, s.Info.Render("No rounds played yet"))
		return err
	}

	for i, r := range rounds {
		if i > 0 {
			fmt.Fprintln(w)
		}
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(w, "%s %s  %s\n", s.Header.Render(id), r.EndedAt.Local().Format(time.DateTime),
			s.Info.Render(r.EndedAt.Sub(r.StartedAt).Round(time.Second).String()))
		if r.Board != "" {
			fmt.Fprintf(w, "  board %s\n", r.Board)
		}
		for j, pot := range r.Pots {
			winners := strings.Join(pot.Winners, ", ")
			if winners == "" {
				winners = "returned"
			}
			fmt.Fprintf(w, "  pot %d: %d to %s\n", j+1, pot.Amount, winners)
		}

		names := make([]string, 0, len(r.Deltas))
		for name := range r.Deltas {
			names = append(names, name)
		}
		slices.SortFunc(names, func(a, b string) int {
			return cmp.Or(cmp.Compare(r.Deltas[b], r.Deltas[a]), cmp.Compare(a, b))
		})
		for _, name := range names {
			fmt.Fprintf(w, "  %-12s %+d\n", name, r.Deltas[name])
		}
	}
	return nil
}
