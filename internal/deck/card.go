package deck

import (
	"fmt"
	"strings"
)

// Suit is one of the four card suits. The numeric order is used only for
// deterministic sorting and display, never for hand strength.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

var suitSymbols = [...]string{"♣", "♦", "♥", "♠"}
var suitLetters = [...]byte{'c', 'd', 'h', 's'}

func (s Suit) String() string {
	if int(s) < len(suitSymbols) {
		return suitSymbols[s]
	}
	return "?"
}

// Letter returns the single-letter form used by ParseCards.
func (s Suit) Letter() byte {
	if int(s) < len(suitLetters) {
		return suitLetters[s]
	}
	return '?'
}

// IsRed reports whether the suit is hearts or diamonds.
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank is a card face value. Aces are high.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankLetters = "23456789TJQKA"

func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankLetters[r-Two])
}

// Card is an immutable suit and rank pair.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the short form, e.g. "As" or "Td".
func (c Card) String() string {
	return c.Rank.String() + string(c.Suit.Letter())
}

// Pretty returns the rank with the suit symbol, e.g. "A♠".
func (c Card) Pretty() string {
	return c.Rank.String() + c.Suit.String()
}

// Index maps the card to a unique value in [0, 52).
func (c Card) Index() int {
	return int(c.Suit)*13 + int(c.Rank-Two)
}

// Valid reports whether the card has a known suit and rank.
func (c Card) Valid() bool {
	return c.Suit <= Spades && c.Rank >= Two && c.Rank <= Ace
}

// Compare orders cards by rank, breaking ties by suit. It returns -1, 0 or 1.
func (c Card) Compare(other Card) int {
	switch {
	case c.Rank != other.Rank:
		if c.Rank < other.Rank {
			return -1
		}
		return 1
	case c.Suit != other.Suit:
		if c.Suit < other.Suit {
			return -1
		}
		return 1
	}
	return 0
}

// FromIndex is the inverse of Card.Index.
func FromIndex(i int) Card {
	return Card{Suit: Suit(i / 13), Rank: Rank(i%13) + Two}
}

// FormatCards joins cards with spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// ParseCard parses a single two-character card such as "As".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rank, err := parseRank(s[0])
	if err != nil {
		return Card{}, err
	}
	suit, err := parseSuit(s[1])
	if err != nil {
		return Card{}, err
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCards parses a string of card notation into a slice of cards.
// Format: "AsKsQsJsTs" or "As Ks Qs", where each card is [Rank][Suit].
func ParseCards(s string) ([]Card, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string length: %d (must be even)", len(s))
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		rank, err := parseRank(s[i])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		suit, err := parseSuit(s[i+1])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i+1, err)
		}
		cards = append(cards, Card{Suit: suit, Rank: rank})
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

func parseRank(c byte) (Rank, error) {
	if i := strings.IndexByte(rankLetters, upper(c)); i >= 0 {
		return Two + Rank(i), nil
	}
	return 0, fmt.Errorf("invalid rank '%c'", c)
}

func parseSuit(c byte) (Suit, error) {
	switch c {
	case 'c', 'C':
		return Clubs, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'h', 'H':
		return Hearts, nil
	case 's', 'S':
		return Spades, nil
	}
	return 0, fmt.Errorf("invalid suit '%c'", c)
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
