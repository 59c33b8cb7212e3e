package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

var (
	// ErrEmptyDeck is returned by Draw when the draw pile is exhausted.
	ErrEmptyDeck = errors.New("deck: draw pile is empty")
	// ErrDuplicateCard means a card is present in more than one place.
	ErrDuplicateCard = errors.New("deck: duplicate card")
	// ErrMissingCard means a card is in neither pile nor held by anyone.
	ErrMissingCard = errors.New("deck: missing card")
)

// Size is the number of cards in a standard deck.
const Size = 52

// Deck holds the cards not yet dealt (the draw pile) and the cards that have
// been taken out of play this round (the discard pile).
type Deck struct {
	draw    []Card
	discard []Card
	rng     *rand.Rand
}

// NewDeck creates a full, shuffled deck using rng for all shuffles.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		draw:    make([]Card, 0, Size),
		discard: make([]Card, 0, Size),
		rng:     rng,
	}
	d.Shuffle()
	return d
}

// All returns the 52 cards in index order.
func All() []Card {
	cards := make([]Card, 0, Size)
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Shuffle resets the deck to all 52 cards, empties the discard pile and
// randomises the order of the draw pile.
func (d *Deck) Shuffle() {
	d.draw = append(d.draw[:0], All()...)
	d.discard = d.discard[:0]
	d.shuffleDraw()
}

func (d *Deck) shuffleDraw() {
	for i := len(d.draw) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	}
}

// Draw removes and returns the top card of the draw pile.
func (d *Deck) Draw() (Card, error) {
	if len(d.draw) == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.draw[len(d.draw)-1]
	d.draw = d.draw[:len(d.draw)-1]
	return card, nil
}

// DrawN draws n cards. On failure no cards are removed.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.draw) {
		return nil, fmt.Errorf("draw %d of %d: %w", n, len(d.draw), ErrEmptyDeck)
	}
	cards := make([]Card, n)
	for i := range cards {
		cards[i], _ = d.Draw()
	}
	return cards, nil
}

// Burn draws the top card straight onto the discard pile.
func (d *Deck) Burn() error {
	card, err := d.Draw()
	if err != nil {
		return err
	}
	d.discard = append(d.discard, card)
	return nil
}

// Discard places cards that have left play onto the discard pile.
func (d *Deck) Discard(cards ...Card) {
	d.discard = append(d.discard, cards...)
}

// Refill moves the discard pile back into the draw pile and reshuffles.
// It must not be called while hands still hold cards. It does nothing when
// the discard pile is empty.
func (d *Deck) Refill() {
	if len(d.discard) == 0 {
		return
	}
	d.draw = append(d.draw, d.discard...)
	d.discard = d.discard[:0]
	d.shuffleDraw()
}

// Remaining returns the size of the draw pile.
func (d *Deck) Remaining() int {
	return len(d.draw)
}

// Discarded returns the size of the discard pile.
func (d *Deck) Discarded() int {
	return len(d.discard)
}

// Verify checks that the draw pile, discard pile and held cards together
// make up exactly one copy of every card.
func (d *Deck) Verify(held ...Card) error {
	var seen [Size]bool
	check := func(where string, cards []Card) error {
		for _, c := range cards {
			if !c.Valid() {
				return fmt.Errorf("%s: invalid card %v", where, c)
			}
			if seen[c.Index()] {
				return fmt.Errorf("%s %s: %w", where, c, ErrDuplicateCard)
			}
			seen[c.Index()] = true
		}
		return nil
	}
	if err := check("draw", d.draw); err != nil {
		return err
	}
	if err := check("discard", d.discard); err != nil {
		return err
	}
	if err := check("held", held); err != nil {
		return err
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("%s: %w", FromIndex(i), ErrMissingCard)
		}
	}
	return nil
}
