package evaluator

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-table/internal/deck"
)

// Category is the primary ranking class of a five-card hand.
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = [...]string{
	"High Card",
	"One Pair",
	"Two Pair",
	"Three of a Kind",
	"Straight",
	"Flush",
	"Full House",
	"Four of a Kind",
	"Straight Flush",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}

// Hand is the best five-card ranking found for a set of cards.
type Hand struct {
	Category Category
	// Kickers holds the deciding ranks in comparison order. For straights it
	// holds only the top card, which is Five for the wheel.
	Kickers []deck.Rank
	// Cards are the five cards that make the hand, grouped cards first.
	Cards []deck.Card
	// Value packs Category and Kickers so that integer comparison matches
	// Compare.
	Value uint32
}

// Compare returns -1 if h is weaker than other, 0 on an exact tie and 1 if h
// is stronger.
func (h Hand) Compare(other Hand) int {
	switch {
	case h.Category < other.Category:
		return -1
	case h.Category > other.Category:
		return 1
	}
	for i := 0; i < len(h.Kickers) && i < len(other.Kickers); i++ {
		if h.Kickers[i] < other.Kickers[i] {
			return -1
		}
		if h.Kickers[i] > other.Kickers[i] {
			return 1
		}
	}
	return 0
}

// Beats reports whether h is strictly stronger than other.
func (h Hand) Beats(other Hand) bool {
	return h.Compare(other) > 0
}

// Describe returns a short human label such as "Pair of Kings".
func (h Hand) Describe() string {
	if len(h.Kickers) == 0 {
		return h.Category.String()
	}
	top := rankName(h.Kickers[0])
	switch h.Category {
	case HighCard:
		return top + " High"
	case OnePair:
		return "Pair of " + plural(top)
	case TwoPair:
		return fmt.Sprintf("%s and %s", plural(top), plural(rankName(h.Kickers[1])))
	case ThreeOfAKind:
		return "Three " + plural(top)
	case Straight:
		return top + "-High Straight"
	case Flush:
		return top + "-High Flush"
	case FullHouse:
		return fmt.Sprintf("%s full of %s", plural(top), plural(rankName(h.Kickers[1])))
	case FourOfAKind:
		return "Four " + plural(top)
	case StraightFlush:
		if h.Kickers[0] == deck.Ace {
			return "Royal Flush"
		}
		return top + "-High Straight Flush"
	}
	return h.Category.String()
}

func (h Hand) String() string {
	return fmt.Sprintf("%s [%s]", h.Describe(), deck.FormatCards(h.Cards))
}

var rankNames = map[deck.Rank]string{
	deck.Two: "Two", deck.Three: "Three", deck.Four: "Four", deck.Five: "Five",
	deck.Six: "Six", deck.Seven: "Seven", deck.Eight: "Eight", deck.Nine: "Nine",
	deck.Ten: "Ten", deck.Jack: "Jack", deck.Queen: "Queen", deck.King: "King",
	deck.Ace: "Ace",
}

func rankName(r deck.Rank) string {
	return rankNames[r]
}

func plural(name string) string {
	if strings.HasSuffix(name, "x") {
		return name + "es"
	}
	return name + "s"
}
