// Package statistics summarises players' results over a run of rounds.
package statistics

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/lox/holdem-table/internal/store"
)

// Player accumulates one player's results, measured in big blinds per round.
type Player struct {
	Name   string
	Rounds int
	Won    int // rounds finished with a profit
	Net    int // chips
	SumBB  float64
	SumBB2 float64 // sum of squares for the variance
	Values []float64

	// BiggestPot is the largest pot, in chips, the player took a share of.
	BiggestPot int
}

// Add records one round's net result.
func (p *Player) Add(netChips int, bigBlind int) {
	bb := float64(netChips) / float64(bigBlind)
	p.Rounds++
	p.Net += netChips
	p.SumBB += bb
	p.SumBB2 += bb * bb
	p.Values = append(p.Values, bb)
	if netChips > 0 {
		p.Won++
	}
}

// Mean returns the average result in big blinds per round.
func (p *Player) Mean() float64 {
	if p.Rounds == 0 {
		return 0
	}
	return p.SumBB / float64(p.Rounds)
}

// Variance returns the sample variance of the per-round results.
func (p *Player) Variance() float64 {
	if p.Rounds < 2 {
		return 0
	}
	mean := p.Mean()
	return (p.SumBB2 - float64(p.Rounds)*mean*mean) / float64(p.Rounds-1)
}

func (p *Player) StdDev() float64 {
	return math.Sqrt(p.Variance())
}

// StdError returns the standard error of the mean.
func (p *Player) StdError() float64 {
	if p.Rounds == 0 {
		return 0
	}
	return p.StdDev() / math.Sqrt(float64(p.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (p *Player) ConfidenceInterval95() (float64, float64) {
	mean := p.Mean()
	margin := 1.96 * p.StdError()
	return mean - margin, mean + margin
}

// Median returns the median per-round result.
func (p *Player) Median() float64 {
	if len(p.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(p.Values)
	slices.Sort(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Summary holds every player seen in a set of rounds.
type Summary struct {
	BigBlind int
	Rounds   int
	Chips    int // total chips awarded across all pots
	Players  map[string]*Player
}

// Summarize folds round records into per-player statistics.
func Summarize(rounds []store.RoundRecord, bigBlind int) (*Summary, error) {
	if bigBlind <= 0 {
		return nil, fmt.Errorf("big blind must be positive, got %d", bigBlind)
	}

	s := &Summary{BigBlind: bigBlind, Players: make(map[string]*Player)}
	for _, r := range rounds {
		s.Rounds++
		for name, delta := range r.Deltas {
			s.player(name).Add(delta, bigBlind)
		}
		for _, pot := range r.Pots {
			s.Chips += pot.Amount
			for _, name := range pot.Winners {
				p := s.player(name)
				p.BiggestPot = max(p.BiggestPot, pot.Amount)
			}
		}
	}
	return s, nil
}

func (s *Summary) player(name string) *Player {
	p, ok := s.Players[name]
	if !ok {
		p = &Player{Name: name}
		s.Players[name] = p
	}
	return p
}

// Ranked returns the players ordered by net winnings, best first.
func (s *Summary) Ranked() []*Player {
	players := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, p)
	}
	slices.SortFunc(players, func(a, b *Player) int {
		return cmp.Or(cmp.Compare(b.Net, a.Net), cmp.Compare(a.Name, b.Name))
	})
	return players
}

// Validate checks the chip accounting: what one player won another lost.
func (s *Summary) Validate() error {
	net := 0
	for _, p := range s.Players {
		net += p.Net
	}
	if net != 0 {
		return fmt.Errorf("ledger mismatch: players net %+d chips over %d rounds", net, s.Rounds)
	}
	return nil
}
