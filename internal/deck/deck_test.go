package deck

import (
	"testing"

	"github.com/lox/holdem-table/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckIsComplete(t *testing.T) {
	d := NewDeck(randutil.New(1))
	assert.Equal(t, Size, d.Remaining())
	assert.Equal(t, 0, d.Discarded())
	require.NoError(t, d.Verify())
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	a := NewDeck(randutil.New(42))
	b := NewDeck(randutil.New(42))
	ca, err := a.DrawN(10)
	require.NoError(t, err)
	cb, err := b.DrawN(10)
	require.NoError(t, err)
	assert.Equal(t, ca, cb)
}

func TestDrawUntilEmpty(t *testing.T) {
	d := NewDeck(randutil.New(7))
	for range Size {
		_, err := d.Draw()
		require.NoError(t, err)
	}
	_, err := d.Draw()
	assert.ErrorIs(t, err, ErrEmptyDeck)
	assert.ErrorIs(t, d.Burn(), ErrEmptyDeck)

	_, err = d.DrawN(1)
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestDrawNLeavesDeckUntouchedOnFailure(t *testing.T) {
	d := NewDeck(randutil.New(7))
	_, err := d.DrawN(Size + 1)
	assert.ErrorIs(t, err, ErrEmptyDeck)
	assert.Equal(t, Size, d.Remaining())
}

func TestVerifyTracksHeldAndDiscarded(t *testing.T) {
	d := NewDeck(randutil.New(3))
	hole, err := d.DrawN(2)
	require.NoError(t, err)
	require.NoError(t, d.Burn())

	// Held cards must be reported or the deck looks short.
	assert.ErrorIs(t, d.Verify(), ErrMissingCard)
	require.NoError(t, d.Verify(hole...))

	// A held card that is also discarded is a duplicate.
	d.Discard(hole[0])
	assert.ErrorIs(t, d.Verify(hole...), ErrDuplicateCard)
}

func TestRefill(t *testing.T) {
	d := NewDeck(randutil.New(9))

	d.Refill()
	assert.Equal(t, Size, d.Remaining(), "refill with empty discard is a no-op")

	hand, err := d.DrawN(5)
	require.NoError(t, err)
	require.NoError(t, d.Burn())
	d.Discard(hand...)
	assert.Equal(t, Size-6, d.Remaining())
	assert.Equal(t, 6, d.Discarded())

	d.Refill()
	assert.Equal(t, Size, d.Remaining())
	assert.Equal(t, 0, d.Discarded())
	require.NoError(t, d.Verify())
}

func TestShuffleResetsDiscard(t *testing.T) {
	d := NewDeck(randutil.New(11))
	require.NoError(t, d.Burn())
	_, err := d.DrawN(3)
	require.NoError(t, err)

	d.Shuffle()
	assert.Equal(t, Size, d.Remaining())
	assert.Equal(t, 0, d.Discarded())
	require.NoError(t, d.Verify())
}
