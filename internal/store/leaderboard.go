package store

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownStat is returned for a leaderboard statistic that is not tracked.
var ErrUnknownStat = errors.New("unknown statistic")

// Stat is a lifetime player statistic that players can be ranked by.
type Stat string

const (
	StatCash      Stat = "cash"
	StatBank      Stat = "bank"
	StatNet       Stat = "net" // cash plus bank
	StatRounds    Stat = "rounds"
	StatWins      Stat = "wins"
	StatBankrupts Stat = "bankrupts"
)

// Stats lists every rankable statistic.
var Stats = []Stat{StatCash, StatBank, StatNet, StatRounds, StatWins, StatBankrupts}

// ParseStat resolves a statistic name, ignoring case.
func ParseStat(name string) (Stat, error) {
	switch s := Stat(strings.ToLower(name)); s {
	case StatCash, StatBank, StatNet, StatRounds, StatWins, StatBankrupts:
		return s, nil
	case "netcash":
		return StatNet, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStat, name)
}

func (s Stat) validate() error {
	if !slices.Contains(Stats, s) {
		return fmt.Errorf("%w: %q", ErrUnknownStat, string(s))
	}
	return nil
}

// Value returns the record's value for stat.
func (r PlayerRecord) Value(stat Stat) int {
	switch stat {
	case StatCash:
		return r.Cash
	case StatBank:
		return r.Bank
	case StatNet:
		return r.Cash + r.Bank
	case StatRounds:
		return r.Rounds
	case StatWins:
		return r.Wins
	case StatBankrupts:
		return r.Bankrupts
	}
	return 0
}

// Qualifies reports whether r appears on the leaderboard for s. Round based
// statistics only rank players who have played at least once.
func (s Stat) Qualifies(r PlayerRecord) bool {
	switch s {
	case StatRounds, StatWins:
		return r.Rounds > 0
	}
	return true
}

// RankedPlayer is a player's record with their leaderboard position. Equal
// values share a rank and the next rank is skipped.
type RankedPlayer struct {
	PlayerRecord
	Rank  int
	Value int
}

// rankPlayers orders the qualifying records best first, breaking ties by
// name, and assigns competition ranks.
func rankPlayers(records []PlayerRecord, stat Stat) []RankedPlayer {
	out := make([]RankedPlayer, 0, len(records))
	for _, r := range records {
		if stat.Qualifies(r) {
			out = append(out, RankedPlayer{PlayerRecord: r, Value: r.Value(stat)})
		}
	}
	slices.SortFunc(out, func(a, b RankedPlayer) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	for i := range out {
		out[i].Rank = i + 1
		if i > 0 && out[i].Value == out[i-1].Value {
			out[i].Rank = out[i-1].Rank
		}
	}
	return out
}

// sqlExpr returns the column expression and filter used to rank by stat.
func (s Stat) sqlExpr() (expr, where string, err error) {
	switch s {
	case StatCash, StatBank, StatBankrupts:
		return string(s), "1 = 1", nil
	case StatNet:
		return "cash + bank", "1 = 1", nil
	case StatRounds, StatWins:
		return string(s), "rounds > 0", nil
	}
	return "", "", s.validate()
}
