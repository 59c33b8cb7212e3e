package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lox/holdem-table/internal/statistics"
)

// Stats writes a leaderboard of per-player results.
func Stats(w io.Writer, s *Styles, sum *statistics.Summary) error {
	if sum.Rounds == 0 {
		_, err := fmt.Fprintln(w, s.Info.Render("No rounds played yet"))
		return err
	}

	fmt.Fprintf(w, "%s %d rounds, %d chips awarded\n\n", s.Header.Render("STATS"), sum.Rounds, sum.Chips)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "player\trounds\twon\tnet\tbb/round\t95% ci\tbiggest pot")
	for _, p := range sum.Ranked() {
		lo, hi := p.ConfidenceInterval95()
		fmt.Fprintf(tw, "%s\t%d\t%d\t%+d\t%+.2f\t[%+.2f, %+.2f]\t%d\n",
			p.Name, p.Rounds, p.Won, p.Net, p.Mean(), lo, hi, p.BiggestPot)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := sum.Validate(); err != nil {
		_, err = fmt.Fprintln(w, s.Warning.Render(err.Error()))
		return err
	}
	return nil
}
