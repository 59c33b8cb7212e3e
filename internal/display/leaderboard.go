package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/lox/holdem-table/internal/store"
)

var statTitles = map[store.Stat]string{
	store.StatCash:      "Cash",
	store.StatBank:      "Bank",
	store.StatNet:       "Net Cash",
	store.StatRounds:    "Rounds (min. 1 round)",
	store.StatWins:      "Wins (min. 1 round)",
	store.StatBankrupts: "Bankrupts",
}

func statValue(stat store.Stat, v int) string {
	switch stat {
	case store.StatCash, store.StatBank, store.StatNet:
		return fmt.Sprintf("$%d", v)
	}
	return fmt.Sprint(v)
}

// TopPlayers writes one page of a lifetime leaderboard. first is the rank
// the page was asked to start at.
func TopPlayers(w io.Writer, s *Styles, stat store.Stat, first int, ranked []store.RankedPlayer) error {
	if len(ranked) == 0 {
		_, err := fmt.Fprintln(w, s.Info.Render("No players ranked yet"))
		return err
	}

	title := fmt.Sprintf("Top %d-%d %s", first, first+len(ranked)-1, statTitles[stat])
	fmt.Fprintln(w, s.Header.Render(title))
	for _, r := range ranked {
		fmt.Fprintf(w, "  #%-3d %-12s %s\n", r.Rank, r.Name, s.HandInfo.Render(statValue(stat, r.Value)))
	}
	return nil
}

// PlayerRank writes a single player's standing for stat.
func PlayerRank(w io.Writer, s *Styles, stat store.Stat, name string, r store.RankedPlayer, ok bool) error {
	if !ok {
		msg := fmt.Sprintf("No %s ranking for %s", strings.ToLower(statTitles[stat]), name)
		_, err := fmt.Fprintln(w, s.Info.Render(msg))
		return err
	}
	_, err := fmt.Fprintf(w, "%s: #%d %s %s\n", statTitles[stat], r.Rank, r.Name, s.HandInfo.Render(statValue(stat, r.Value)))
	return err
}
