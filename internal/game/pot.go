package game

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lox/holdem-table/internal/evaluator"
)

// ErrPotMismatch means payouts did not reconcile with the chips in the pots.
var ErrPotMismatch = errors.New("pot totals do not reconcile")

// Contribution is one player's share of a pot.
type Contribution struct {
	Player string
	Amount int
}

// Pot is a main or side pot.
type Pot struct {
	Amount int
	// Contributions are kept in the order players first paid in.
	Contributions []Contribution
	// Eligible players may still win the pot. The set only shrinks.
	Eligible []string
	Winners  []string
	Payouts  map[string]int
}

func (p *Pot) contribute(player string, amount int) {
	p.Amount += amount
	for i := range p.Contributions {
		if p.Contributions[i].Player == player {
			p.Contributions[i].Amount += amount
			return
		}
	}
	p.Contributions = append(p.Contributions, Contribution{Player: player, Amount: amount})
}

func (p *Pot) isEligible(player string) bool {
	return slices.Contains(p.Eligible, player)
}

func (p *Pot) disqualify(player string) {
	p.Eligible = slices.DeleteFunc(p.Eligible, func(name string) bool { return name == player })
}

func (p *Pot) clone() Pot {
	c := *p
	c.Contributions = slices.Clone(p.Contributions)
	c.Eligible = slices.Clone(p.Eligible)
	c.Winners = slices.Clone(p.Winners)
	if p.Payouts != nil {
		c.Payouts = make(map[string]int, len(p.Payouts))
		for k, v := range p.Payouts {
			c.Payouts[k] = v
		}
	}
	return c
}

// Ledger turns per-street commitments into main and side pots and pays them
// out at showdown.
type Ledger struct {
	stakes  map[string]int
	order   []string // players in first-commitment order
	folded  map[string]bool
	allIn   map[string]bool
	pots    []*Pot
	current *Pot
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		stakes: make(map[string]int),
		folded: make(map[string]bool),
		allIn:  make(map[string]bool),
	}
}

// Contribute adds amount to player's commitment for the current street.
func (l *Ledger) Contribute(player string, amount int) {
	if amount <= 0 {
		return
	}
	if !slices.Contains(l.order, player) {
		l.order = append(l.order, player)
	}
	l.stakes[player] += amount
}

// Stake returns player's unsettled commitment for the current street.
func (l *Ledger) Stake(player string) int {
	return l.stakes[player]
}

// MarkAllIn records that player has no chips behind.
func (l *Ledger) MarkAllIn(player string) {
	l.allIn[player] = true
}

// Fold removes player from every pot they could have won. Their chips stay
// in the pots.
func (l *Ledger) Fold(player string) {
	l.folded[player] = true
	for _, p := range l.pots {
		p.disqualify(player)
	}
}

func (l *Ledger) bettors() []string {
	var out []string
	for _, name := range l.order {
		if l.stakes[name] > 0 {
			out = append(out, name)
		}
	}
	return out
}

// needsNewPot reports whether the open pot holds a live player who has
// nothing left to put in, in which case further chips belong to a side pot.
func (l *Ledger) needsNewPot() bool {
	if l.current == nil {
		return true
	}
	for _, name := range l.current.Eligible {
		if !l.folded[name] && l.stakes[name] == 0 {
			return true
		}
	}
	return false
}

func (l *Ledger) openPot() {
	l.current = &Pot{}
	l.pots = append(l.pots, l.current)
}

// Settle moves the street's commitments into pots, opening a side pot for
// every distinct all-in depth. An uncalled excess from a player who still
// has chips is returned in refunds; an all-in player's uncalled excess forms
// a pot that only they can win.
func (l *Ledger) Settle() (refunds map[string]int) {
	refunds = make(map[string]int)
	for {
		bettors := l.bettors()
		if len(bettors) == 0 {
			break
		}
		if len(bettors) == 1 && !l.allIn[bettors[0]] {
			name := bettors[0]
			refunds[name] = l.stakes[name]
			l.stakes[name] = 0
			break
		}

		if l.needsNewPot() {
			l.openPot()
		}

		low := l.stakes[bettors[0]]
		for _, name := range bettors[1:] {
			low = min(low, l.stakes[name])
		}
		for _, name := range bettors {
			l.current.contribute(name, low)
			l.stakes[name] -= low
			if !l.folded[name] && !l.current.isEligible(name) {
				l.current.Eligible = append(l.current.Eligible, name)
			}
		}
	}
	l.order = l.order[:0]
	return refunds
}

// Pots returns a copy of the pots in creation order.
func (l *Ledger) Pots() []Pot {
	out := make([]Pot, len(l.pots))
	for i, p := range l.pots {
		out[i] = p.clone()
	}
	return out
}

// Total returns every chip held by the ledger, settled or not.
func (l *Ledger) Total() int {
	total := 0
	for _, p := range l.pots {
		total += p.Amount
	}
	for _, s := range l.stakes {
		total += s
	}
	return total
}

// Distribute pays out every pot in creation order. A pot with a single
// eligible player is awarded without looking at hands; otherwise the best
// ranked eligible players split it. Odd chips go one at a time to the tied
// winners in seatOrder, which should start left of the button. A pot whose
// eligible players have all folded is returned to its contributors.
func (l *Ledger) Distribute(ranks map[string]evaluator.Hand, seatOrder []string) (map[string]int, error) {
	if l.Total() != l.settledTotal() {
		return nil, fmt.Errorf("%w: unsettled commitments remain", ErrPotMismatch)
	}

	payouts := make(map[string]int)
	paid, owed := 0, 0
	for i, pot := range l.pots {
		owed += pot.Amount
		pot.Payouts = make(map[string]int)

		switch len(pot.Eligible) {
		case 0:
			for _, c := range pot.Contributions {
				pot.Payouts[c.Player] += c.Amount
			}
		case 1:
			pot.Winners = []string{pot.Eligible[0]}
			pot.Payouts[pot.Eligible[0]] = pot.Amount
		default:
			winners, err := bestHands(pot.Eligible, ranks)
			if err != nil {
				return nil, fmt.Errorf("pot %d: %w", i, err)
			}
			pot.Winners = orderBySeat(winners, seatOrder)
			share, odd := pot.Amount/len(winners), pot.Amount%len(winners)
			for j, name := range pot.Winners {
				pot.Payouts[name] = share
				if j < odd {
					pot.Payouts[name]++
				}
			}
		}

		for name, amount := range pot.Payouts {
			payouts[name] += amount
			paid += amount
		}
	}

	if paid != owed {
		return nil, fmt.Errorf("%w: paid %d of %d", ErrPotMismatch, paid, owed)
	}
	return payouts, nil
}

func (l *Ledger) settledTotal() int {
	total := 0
	for _, p := range l.pots {
		total += p.Amount
	}
	return total
}

func bestHands(eligible []string, ranks map[string]evaluator.Hand) ([]string, error) {
	var (
		best    evaluator.Hand
		winners []string
	)
	for _, name := range eligible {
		hand, ok := ranks[name]
		if !ok {
			return nil, fmt.Errorf("no hand ranking for %s", name)
		}
		switch c := hand.Compare(best); {
		case winners == nil || c > 0:
			best, winners = hand, []string{name}
		case c == 0:
			winners = append(winners, name)
		}
	}
	return winners, nil
}

// orderBySeat sorts names by their position in seatOrder. Names missing from
// seatOrder keep their relative order at the end.
func orderBySeat(names, seatOrder []string) []string {
	out := slices.Clone(names)
	pos := func(name string) int {
		if i := slices.Index(seatOrder, name); i >= 0 {
			return i
		}
		return len(seatOrder)
	}
	slices.SortStableFunc(out, func(a, b string) int { return pos(a) - pos(b) })
	return out
}
