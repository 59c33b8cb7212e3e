package game

import (
	"errors"
	"fmt"
)

// Street represents the betting round
type Street int

const (
	NoStreet Street = iota
	Preflop
	Flop
	Turn
	River
)

func (s Street) String() string {
	return [...]string{"none", "preflop", "flop", "turn", "river"}[s]
}

// communityCount is the number of community cards visible on a street.
func (s Street) communityCount() int {
	return [...]int{0, 0, 3, 4, 5}[s]
}

// State is the engine's position in the round lifecycle.
type State int

const (
	StateIdle State = iota
	StatePreStart
	StateBlinds
	StateBetting
	StateResolving
	StateShowdown
	StateCleanup
)

func (s State) String() string {
	return [...]string{"idle", "pre-start", "blinds", "betting", "resolving", "showdown", "cleanup"}[s]
}

// Action is a betting command.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "bet"}[a]
}

// ParseAction maps a command word to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold", "f":
		return Fold, nil
	case "check", "k":
		return Check, nil
	case "call", "c":
		return Call, nil
	case "bet", "raise", "b", "r":
		return Bet, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Illegal action errors. They are reported to the acting player only and
// never change table state.
var (
	ErrNoRoundInProgress = errors.New("no round in progress")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrUnknownPlayer     = errors.New("player is not at the table")
	ErrInvalidAmount     = errors.New("bet amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBelowCurrentBet   = errors.New("bet is below the current bet")
	ErrBelowMinRaise     = errors.New("raise is below the minimum raise")
	ErrIllegalCheck      = errors.New("cannot check facing a bet")
)

// Table membership errors.
var (
	ErrAlreadyJoined     = errors.New("player already joined")
	ErrTableFull         = errors.New("table is full")
	ErrRespawnCooldown   = errors.New("player is waiting to respawn")
	ErrRoundInProgress   = errors.New("a round is already in progress")
	ErrNotEnoughPlayers  = errors.New("at least two players are needed")
	ErrInvalidPlayerName = errors.New("player name must not be empty")
)

// ErrRoundAborted wraps structural failures that ended a round early.
var ErrRoundAborted = errors.New("round aborted")

// Limits describes what the acting player may do.
type Limits struct {
	ToCall     int // chips needed to match the table bet
	Committed  int // chips already committed this street
	TableBet   int // the street's high bet
	MinRaiseTo int // smallest legal raise, as a street total
	MaxBet     int // the player's whole stack, as a street total
}

// Result describes an accepted action.
type Result struct {
	Player string
	Action Action
	// Amount is the player's street total after the action.
	Amount int
	AllIn  bool
	Raise  bool
	Auto   bool
}

// betting tracks the table-level state of the current street.
type betting struct {
	tableBet  int
	minRaise  int
	topBettor int // seat index, -1 when unset
}

// validateBet applies the legality rules for a bet of amount (a street
// total) by p. A bet of zero before anyone has bet stands for a check. The
// returned Result is only meaningful when err is nil.
func (b *betting) validateBet(p *Player, amount int) (Result, error) {
	res := Result{Player: p.Name, Action: Bet, Amount: amount}
	switch {
	case amount < 0, amount == 0 && b.tableBet > 0:
		return res, ErrInvalidAmount
	case amount == p.Cash:
		// All-in is always accepted.
		res.AllIn = true
		res.Raise = amount > b.tableBet
		return res, nil
	case amount > p.Cash:
		return res, fmt.Errorf("%w: have %d, bet %d", ErrInsufficientFunds, p.Cash, amount)
	case amount < b.tableBet:
		return res, fmt.Errorf("%w: current bet is %d", ErrBelowCurrentBet, b.tableBet)
	case amount == b.tableBet:
		return res, nil
	case amount-b.tableBet < b.minRaise:
		return res, fmt.Errorf("%w: raise by at least %d", ErrBelowMinRaise, b.minRaise)
	}
	res.Raise = true
	return res, nil
}

// apply records an accepted bet from the player at seat.
func (b *betting) apply(seat int, res Result) {
	switch {
	case res.Raise:
		b.topBettor = seat
		b.minRaise = max(b.minRaise, res.Amount-b.tableBet)
		b.tableBet = res.Amount
	case b.topBettor < 0:
		b.topBettor = seat
	}
}

func (b *betting) canCheck(p *Player) bool {
	return b.tableBet == 0 || p.Bet == b.tableBet
}

func (b *betting) limits(p *Player) Limits {
	return Limits{
		ToCall:     max(0, min(b.tableBet, p.Cash)-p.Bet),
		Committed:  p.Bet,
		TableBet:   b.tableBet,
		MinRaiseTo: min(b.tableBet+b.minRaise, p.Cash),
		MaxBet:     p.Cash,
	}
}
