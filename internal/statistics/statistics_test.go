package statistics

import (
	"testing"

	"github.com/lox/holdem-table/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerEmpty(t *testing.T) {
	p := &Player{}
	assert.Zero(t, p.Mean())
	assert.Zero(t, p.Variance())
	assert.Zero(t, p.StdError())
	assert.Zero(t, p.Median())
}

func TestPlayerMoments(t *testing.T) {
	p := &Player{Name: "alice"}
	for _, chips := range []int{10, -20, 30, 0, -10} {
		p.Add(chips, 10)
	}

	assert.Equal(t, 5, p.Rounds)
	assert.Equal(t, 10, p.Net)
	assert.Equal(t, 2, p.Won)
	assert.InDelta(t, 0.2, p.Mean(), 1e-9)
	// Values in big blinds: 1, -2, 3, 0, -1.
	assert.InDelta(t, 3.7, p.Variance(), 1e-9)
	assert.InDelta(t, 0.0, p.Median(), 1e-9)

	lo, hi := p.ConfidenceInterval95()
	assert.Less(t, lo, p.Mean())
	assert.Greater(t, hi, p.Mean())
	assert.InDelta(t, p.Mean(), (lo+hi)/2, 1e-9)
}

func TestSummarize(t *testing.T) {
	rounds := []store.RoundRecord{
		{
			Pots:   []store.PotRecord{{Amount: 20, Winners: []string{"bob"}}},
			Deltas: map[string]int{"alice": -10, "bob": 10},
		},
		{
			Pots: []store.PotRecord{
				{Amount: 300, Winners: []string{"alice"}},
				{Amount: 100, Winners: []string{"carol"}},
			},
			Deltas: map[string]int{"alice": 150, "bob": -150, "carol": 0},
		},
	}

	s, err := Summarize(rounds, 10)
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.Equal(t, 2, s.Rounds)
	assert.Equal(t, 420, s.Chips)

	ranked := s.Ranked()
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"alice", "carol", "bob"}, []string{ranked[0].Name, ranked[1].Name, ranked[2].Name})
	assert.Equal(t, 300, ranked[0].BiggestPot)
	assert.Equal(t, 1, ranked[1].Rounds)
	assert.Equal(t, -140, ranked[2].Net)
	assert.Equal(t, 20, ranked[2].BiggestPot)
}

func TestSummaryValidateCatchesImbalance(t *testing.T) {
	s, err := Summarize([]store.RoundRecord{{Deltas: map[string]int{"alice": 5}}}, 10)
	require.NoError(t, err)
	assert.ErrorContains(t, s.Validate(), "ledger mismatch")
}

func TestSummarizeRejectsZeroBigBlind(t *testing.T) {
	_, err := Summarize(nil, 0)
	assert.Error(t, err)
}
