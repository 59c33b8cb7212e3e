// Package evaluator ranks poker hands and estimates showdown equity.
package evaluator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lox/holdem-table/internal/deck"
)

var (
	// ErrCardCount is returned when fewer than 5 or more than 7 cards are given.
	ErrCardCount = errors.New("evaluator: need between 5 and 7 cards")
	// ErrDuplicateCard is returned when the same card appears twice.
	ErrDuplicateCard = errors.New("evaluator: duplicate card")
)

const categoryShift = 20

// Evaluate returns the best five-card hand that can be made from cards.
// When more than five cards are supplied every five-card subset is scored.
func Evaluate(cards []deck.Card) (Hand, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return Hand{}, fmt.Errorf("%d cards: %w", len(cards), ErrCardCount)
	}
	var seen CardSet
	for _, c := range cards {
		if !c.Valid() {
			return Hand{}, fmt.Errorf("invalid card %v", c)
		}
		if seen.Contains(c) {
			return Hand{}, fmt.Errorf("%s: %w", c, ErrDuplicateCard)
		}
		seen.Add(c)
	}

	var best [5]deck.Card
	bestValue := uint32(0)
	found := false
	forEachFive(cards, func(five *[5]deck.Card) {
		if v := score(five); !found || v > bestValue {
			best, bestValue, found = *five, v, true
		}
	})
	return build(best), nil
}

// MustEvaluate is Evaluate for inputs known to be valid (for tests)
func MustEvaluate(cards []deck.Card) Hand {
	h, err := Evaluate(cards)
	if err != nil {
		panic(err)
	}
	return h
}

// bestValue is the allocation-free path used by the simulator. The caller
// guarantees 5 to 7 distinct valid cards.
func bestValue(cards []deck.Card) uint32 {
	best := uint32(0)
	forEachFive(cards, func(five *[5]deck.Card) {
		if v := score(five); v > best {
			best = v
		}
	})
	return best
}

// forEachFive calls fn for every five-card subset of cards.
func forEachFive(cards []deck.Card, fn func(*[5]deck.Card)) {
	n := len(cards)
	var five [5]deck.Card
	for a := 0; a < n-4; a++ {
		five[0] = cards[a]
		for b := a + 1; b < n-3; b++ {
			five[1] = cards[b]
			for c := b + 1; c < n-2; c++ {
				five[2] = cards[c]
				for d := c + 1; d < n-1; d++ {
					five[3] = cards[d]
					for e := d + 1; e < n; e++ {
						five[4] = cards[e]
						fn(&five)
					}
				}
			}
		}
	}
}

// classify works out the category and ordered kicker ranks of exactly five
// cards. Kickers are written into kickers and the count is returned.
func classify(five *[5]deck.Card, kickers *[5]deck.Rank) (Category, int) {
	var counts [deck.Ace + 1]uint8
	flush := true
	for i, c := range five {
		counts[c.Rank]++
		if i > 0 && c.Suit != five[0].Suit {
			flush = false
		}
	}

	// Group ranks by multiplicity, highest multiplicity then highest rank.
	n := 0
	for want := uint8(4); want >= 1; want-- {
		for r := deck.Ace; r >= deck.Two; r-- {
			if counts[r] == want {
				kickers[n] = r
				n++
			}
		}
	}

	if n == 5 {
		high, straight := straightHigh(kickers)
		switch {
		case straight && flush:
			kickers[0] = high
			return StraightFlush, 1
		case flush:
			return Flush, 5
		case straight:
			kickers[0] = high
			return Straight, 1
		}
		return HighCard, 5
	}

	switch top := counts[kickers[0]]; {
	case top == 4:
		return FourOfAKind, 2
	case top == 3 && n == 2:
		return FullHouse, 2
	case top == 3:
		return ThreeOfAKind, 3
	case top == 2 && n == 3:
		return TwoPair, 3
	}
	return OnePair, 4
}

// straightHigh expects five distinct ranks in descending order.
func straightHigh(desc *[5]deck.Rank) (deck.Rank, bool) {
	if desc[0]-desc[4] == 4 {
		return desc[0], true
	}
	if desc[0] == deck.Ace && desc[1] == deck.Five && desc[4] == deck.Two {
		return deck.Five, true
	}
	return 0, false
}

func pack(cat Category, kickers []deck.Rank) uint32 {
	v := uint32(cat) << categoryShift
	for i, r := range kickers {
		v |= uint32(r) << (16 - 4*i)
	}
	return v
}

func score(five *[5]deck.Card) uint32 {
	var kickers [5]deck.Rank
	cat, n := classify(five, &kickers)
	return pack(cat, kickers[:n])
}

func build(five [5]deck.Card) Hand {
	var kickers [5]deck.Rank
	cat, n := classify(&five, &kickers)
	ks := slices.Clone(kickers[:n])

	cards := five[:]
	order := func(r deck.Rank) int {
		// Wheel straights show the ace last.
		if (cat == Straight || cat == StraightFlush) && ks[0] == deck.Five && r == deck.Ace {
			return 1
		}
		return int(r)
	}
	var counts [deck.Ace + 1]int
	for _, c := range cards {
		counts[c.Rank]++
	}
	slices.SortFunc(cards, func(a, b deck.Card) int {
		if counts[a.Rank] != counts[b.Rank] {
			return counts[b.Rank] - counts[a.Rank]
		}
		if oa, ob := order(a.Rank), order(b.Rank); oa != ob {
			return ob - oa
		}
		return b.Compare(a)
	})

	return Hand{
		Category: cat,
		Kickers:  ks,
		Cards:    slices.Clone(cards),
		Value:    pack(cat, ks),
	}
}
