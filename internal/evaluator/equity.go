package evaluator

import (
	"context"
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"
	"runtime"

	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/randutil"
	"golang.org/x/sync/errgroup"
)

// DefaultTrials is the number of Monte-Carlo trials run when no count is given.
const DefaultTrials = 5000

// ErrNoLiveSeats is returned when every seat has folded.
var ErrNoLiveSeats = errors.New("evaluator: no live seats to simulate")

// Seat is one player's view in an equity simulation.
type Seat struct {
	Name   string
	Hole   []deck.Card
	Folded bool
}

// Odds is the per-seat result of a simulation.
type Odds struct {
	Name   string
	Wins   int
	Ties   int
	WinPct int
	TiePct int
}

// Simulator estimates each live seat's chance of winning or tying once the
// remaining community cards are revealed. Counters accumulate across calls to
// Run until the community changes or Reset is called.
type Simulator struct {
	rng       *rand.Rand
	workers   int
	seats     []Seat
	community []deck.Card

	wins   []int
	ties   []int
	splits int
	trials int
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithWorkers fixes the number of parallel workers. Results for a given seed
// are only reproducible for a fixed worker count.
func WithWorkers(n int) SimulatorOption {
	return func(s *Simulator) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewSimulator creates a simulator that derives all worker randomness from rng.
func NewSimulator(rng *rand.Rand, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		rng:     rng,
		workers: min(runtime.NumCPU(), 8),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSeats replaces the seats and clears the counters. Folded seats are not
// evaluated but their hole cards are kept out of the unseen population.
func (s *Simulator) SetSeats(seats []Seat) error {
	var used CardSet
	for _, seat := range seats {
		if len(seat.Hole) != 2 {
			return fmt.Errorf("seat %s: need 2 hole cards, got %d", seat.Name, len(seat.Hole))
		}
		for _, c := range seat.Hole {
			if used.Contains(c) {
				return fmt.Errorf("seat %s %s: %w", seat.Name, c, ErrDuplicateCard)
			}
			used.Add(c)
		}
	}
	s.seats = seats
	s.community = nil
	s.Reset()
	return nil
}

// SetCommunity records the revealed community cards and clears the counters,
// since the unseen population has changed.
func (s *Simulator) SetCommunity(cards []deck.Card) error {
	if len(cards) > 5 {
		return fmt.Errorf("community of %d cards", len(cards))
	}
	used := s.known()
	for _, c := range cards {
		if used.Contains(c) {
			return fmt.Errorf("community %s: %w", c, ErrDuplicateCard)
		}
		used.Add(c)
	}
	s.community = append(s.community[:0], cards...)
	s.Reset()
	return nil
}

// Reset zeroes the counters.
func (s *Simulator) Reset() {
	s.wins = make([]int, len(s.seats))
	s.ties = make([]int, len(s.seats))
	s.splits = 0
	s.trials = 0
}

// Trials returns the number of completed trials since the last reset.
func (s *Simulator) Trials() int {
	return s.trials
}

func (s *Simulator) known() CardSet {
	var used CardSet
	for _, seat := range s.seats {
		for _, c := range seat.Hole {
			used.Add(c)
		}
	}
	for _, c := range s.community {
		used.Add(c)
	}
	return used
}

func (s *Simulator) live() []int {
	var idx []int
	for i, seat := range s.seats {
		if !seat.Folded {
			idx = append(idx, i)
		}
	}
	return idx
}

// tally is one worker's counters plus its scratch space for scoring.
type tally struct {
	wins, ties    []int
	splits, count int
	values        []uint32 // per live seat, overwritten every trial
}

func newTally(seats, live int) *tally {
	return &tally{wins: make([]int, seats), ties: make([]int, seats), values: make([]uint32, live)}
}

func (s *Simulator) merge(t *tally) {
	for i := range t.wins {
		s.wins[i] += t.wins[i]
		s.ties[i] += t.ties[i]
	}
	s.splits += t.splits
	s.trials += t.count
}

// Run performs trials random completions split across parallel workers. Each
// worker shuffles a private copy of the unseen cards.
func (s *Simulator) Run(ctx context.Context, trials int) error {
	live := s.live()
	if len(live) == 0 {
		return ErrNoLiveSeats
	}
	if trials <= 0 {
		trials = DefaultTrials
	}
	unseen := s.known().Complement()
	need := 5 - len(s.community)

	workers := min(s.workers, trials)
	per, extra := trials/workers, trials%workers
	tallies := make([]*tally, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		n := per
		if w < extra {
			n++
		}
		rng := randutil.Child(s.rng)
		t := newTally(len(s.seats), len(live))
		tallies[w] = t

		g.Go(func() error {
			pool := append([]deck.Card(nil), unseen...)
			board := make([]deck.Card, 5)
			copy(board, s.community)
			scratch := make([]deck.Card, 7)
			for i := range n {
				if i%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				for k := range need {
					j := k + rng.IntN(len(pool)-k)
					pool[k], pool[j] = pool[j], pool[k]
					board[len(s.community)+k] = pool[k]
				}
				s.score(live, board, scratch, t)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, t := range tallies {
		s.merge(t)
	}
	return nil
}

// Enumerate scores every possible completion of the board exactly once,
// giving exact probabilities. It is practical from the flop onwards.
func (s *Simulator) Enumerate(ctx context.Context) error {
	live := s.live()
	if len(live) == 0 {
		return ErrNoLiveSeats
	}
	unseen := s.known().Complement()
	need := 5 - len(s.community)
	board := make([]deck.Card, 5)
	copy(board, s.community)
	scratch := make([]deck.Card, 7)
	t := newTally(len(s.seats), len(live))

	var walk func(start, k int) error
	walk = func(start, k int) error {
		if k == need {
			s.score(live, board, scratch, t)
			if t.count%1024 == 0 {
				return ctx.Err()
			}
			return nil
		}
		for i := start; i <= len(unseen)-(need-k); i++ {
			board[len(s.community)+k] = unseen[i]
			if err := walk(i+1, k+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, 0); err != nil {
		return err
	}
	s.merge(t)
	return nil
}

func (s *Simulator) score(live []int, board, scratch []deck.Card, t *tally) {
	best := uint32(0)
	winners := 0
	values := t.values
	for i, seat := range live {
		scratch = append(scratch[:0], s.seats[seat].Hole...)
		scratch = append(scratch, board...)
		values[i] = bestValue(scratch)
		switch {
		case values[i] > best:
			best, winners = values[i], 1
		case values[i] == best:
			winners++
		}
	}
	for i, seat := range live {
		if values[i] != best {
			continue
		}
		if winners == 1 {
			t.wins[seat]++
		} else {
			t.ties[seat]++
		}
	}
	if winners > 1 {
		t.splits++
	}
	t.count++
}

func (s *Simulator) index(name string) int {
	for i, seat := range s.seats {
		if seat.Name == name {
			return i
		}
	}
	return -1
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(total)))
}

// WinPct is the rounded percentage of trials name won outright.
func (s *Simulator) WinPct(name string) int {
	if i := s.index(name); i >= 0 {
		return percent(s.wins[i], s.trials)
	}
	return 0
}

// TiePct is the rounded percentage of trials name shared the best hand.
func (s *Simulator) TiePct(name string) int {
	if i := s.index(name); i >= 0 {
		return percent(s.ties[i], s.trials)
	}
	return 0
}

// SplitPct is the rounded percentage of trials that ended in a split pot.
// Together with every seat's WinPct it accounts for all trials.
func (s *Simulator) SplitPct() int {
	return percent(s.splits, s.trials)
}

// Odds returns the counters for every live seat in seat order.
func (s *Simulator) Odds() []Odds {
	out := make([]Odds, 0, len(s.seats))
	for i, seat := range s.seats {
		if seat.Folded {
			continue
		}
		out = append(out, Odds{
			Name:   seat.Name,
			Wins:   s.wins[i],
			Ties:   s.ties[i],
			WinPct: percent(s.wins[i], s.trials),
			TiePct: percent(s.ties[i], s.trials),
		})
	}
	return out
}

// Splits returns the number of trials that ended in a tie.
func (s *Simulator) Splits() int {
	return s.splits
}
