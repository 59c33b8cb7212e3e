package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "AsKsQsJsTs",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Spades, Rank: King},
				{Suit: Spades, Rank: Queen},
				{Suit: Spades, Rank: Jack},
				{Suit: Spades, Rank: Ten},
			},
		},
		{
			name:  "spaced",
			input: "Ah Kd 2c",
			expected: []Card{
				{Suit: Hearts, Rank: Ace},
				{Suit: Diamonds, Rank: King},
				{Suit: Clubs, Rank: Two},
			},
		},
		{
			name:  "case insensitive",
			input: "asKHqDjc",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
				{Suit: Diamonds, Rank: Queen},
				{Suit: Clubs, Rank: Jack},
			},
		},
		{name: "invalid rank", input: "XsKs", wantErr: true},
		{name: "invalid suit", input: "AsKx", wantErr: true},
		{name: "odd length", input: "AsK", wantErr: true},
		{name: "empty string", input: "", expected: []Card{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	assert.Equal(t, []Card{{Suit: Spades, Rank: Ace}}, MustParseCards("As"))
	assert.Panics(t, func() { MustParseCards("invalid") })
}

func TestCardStringRoundTrip(t *testing.T) {
	for _, c := range All() {
		parsed, err := ParseCard(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
		assert.Equal(t, c, FromIndex(c.Index()))
	}
}

func TestCardCompare(t *testing.T) {
	as := MustParseCards("As")[0]
	ah := MustParseCards("Ah")[0]
	ks := MustParseCards("Ks")[0]

	assert.Equal(t, 1, as.Compare(ks), "rank decides first")
	assert.Equal(t, -1, ks.Compare(ah), "rank beats suit")
	assert.Equal(t, 1, as.Compare(ah), "suit breaks rank ties")
	assert.Equal(t, 0, as.Compare(as))
}
