package game

import (
	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/store"
)

// Stats are lifetime counters carried between rounds.
type Stats struct {
	Rounds    int
	Wins      int
	Idles     int
	Bankrupts int
}

// Player is a seated player's table and round state.
type Player struct {
	Name string
	// Cash is the stack at the start of the street; chips committed this
	// street are tracked in Bet and only leave Cash when the street settles.
	Cash int
	// Bank is an off-table reserve used to top up a busted stack.
	Bank int
	Bet  int
	// Change is the net result of the current round.
	Change int
	Hole   []deck.Card

	Folded bool
	AllIn  bool
	Quit   bool
	Idled  bool

	Stats Stats
}

func newPlayer(rec store.PlayerRecord) *Player {
	return &Player{
		Name: rec.Name,
		Cash: rec.Cash,
		Bank: rec.Bank,
		Stats: Stats{
			Rounds:    rec.Rounds,
			Wins:      rec.Wins,
			Idles:     rec.Idles,
			Bankrupts: rec.Bankrupts,
		},
	}
}

func (p *Player) record() store.PlayerRecord {
	return store.PlayerRecord{
		Name:      p.Name,
		Cash:      p.Cash,
		Bank:      p.Bank,
		Rounds:    p.Stats.Rounds,
		Wins:      p.Stats.Wins,
		Idles:     p.Stats.Idles,
		Bankrupts: p.Stats.Bankrupts,
	}
}

// canBet reports whether the player can still take a voluntary action.
func (p *Player) canBet() bool {
	return !p.Folded && !p.AllIn
}

// withdraw moves up to limit chips from the bank into an empty stack.
func (p *Player) withdraw(limit int) int {
	if p.Cash > 0 || p.Bank == 0 {
		return 0
	}
	amount := min(p.Bank, limit)
	p.Bank -= amount
	p.Cash += amount
	return amount
}

// reset clears per-round state.
func (p *Player) reset() {
	p.Bet = 0
	p.Change = 0
	p.Hole = nil
	p.Folded = false
	p.AllIn = false
	p.Idled = false
}

// PlayerView is a read-only copy of a player's public state.
type PlayerView struct {
	Name   string
	Cash   int
	Bank   int
	Bet    int
	Folded bool
	AllIn  bool
	Stats  Stats
}

func (p *Player) view() PlayerView {
	return PlayerView{
		Name:   p.Name,
		Cash:   p.Cash,
		Bank:   p.Bank,
		Bet:    p.Bet,
		Folded: p.Folded,
		AllIn:  p.AllIn,
		Stats:  p.Stats,
	}
}
