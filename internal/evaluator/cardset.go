package evaluator

import "github.com/lox/holdem-table/internal/deck"

// CardSet is a 52-bit membership set keyed by deck.Card.Index.
type CardSet uint64

// NewCardSet creates a set holding cards.
func NewCardSet(cards ...deck.Card) CardSet {
	var cs CardSet
	for _, c := range cards {
		cs.Add(c)
	}
	return cs
}

// Add marks card as present.
func (cs *CardSet) Add(card deck.Card) {
	*cs |= 1 << uint(card.Index())
}

// Contains reports whether card is present.
func (cs CardSet) Contains(card deck.Card) bool {
	return cs&(1<<uint(card.Index())) != 0
}

// Complement lists every card not in the set, in index order.
func (cs CardSet) Complement() []deck.Card {
	out := make([]deck.Card, 0, deck.Size)
	for i := range deck.Size {
		if cs&(1<<uint(i)) == 0 {
			out = append(out, deck.FromIndex(i))
		}
	}
	return out
}
