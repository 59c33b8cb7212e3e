package evaluator

import (
	"context"
	"testing"

	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seats(t *testing.T, holes ...string) []Seat {
	t.Helper()
	names := []string{"alice", "bob", "carol", "dave"}
	out := make([]Seat, len(holes))
	for i, h := range holes {
		out[i] = Seat{Name: names[i], Hole: deck.MustParseCards(h)}
	}
	return out
}

func TestSimulatorCountersAddUp(t *testing.T) {
	sim := NewSimulator(randutil.New(1), WithWorkers(4))
	require.NoError(t, sim.SetSeats(seats(t, "AsAh", "KsKh", "7c2d")))
	require.NoError(t, sim.Run(context.Background(), 3000))

	assert.Equal(t, 3000, sim.Trials())
	wins := 0
	for _, o := range sim.Odds() {
		wins += o.Wins
	}
	assert.Equal(t, sim.Trials(), wins+sim.Splits(), "every trial is a single win or a split")

	total := sim.SplitPct()
	for _, o := range sim.Odds() {
		total += o.WinPct
	}
	assert.InDelta(t, 100, total, 2, "percentages sum to 100 within rounding")
}

func TestSimulatorIsReproducible(t *testing.T) {
	run := func() []Odds {
		sim := NewSimulator(randutil.New(42), WithWorkers(3))
		require.NoError(t, sim.SetSeats(seats(t, "AsKs", "QhQd")))
		require.NoError(t, sim.SetCommunity(deck.MustParseCards("Js7s2c")))
		require.NoError(t, sim.Run(context.Background(), 2000))
		return sim.Odds()
	}
	assert.Equal(t, run(), run())
}

func TestSimulatorConvergesToEnumeration(t *testing.T) {
	community := deck.MustParseCards("Js7s2c9h")
	players := seats(t, "AsKs", "QhQd", "Tc8c")

	exact := NewSimulator(randutil.New(5))
	require.NoError(t, exact.SetSeats(players))
	require.NoError(t, exact.SetCommunity(community))
	require.NoError(t, exact.Enumerate(context.Background()))
	assert.Equal(t, 52-6-4, exact.Trials(), "one trial per unseen river card")

	mc := NewSimulator(randutil.New(5), WithWorkers(4))
	require.NoError(t, mc.SetSeats(players))
	require.NoError(t, mc.SetCommunity(community))
	require.NoError(t, mc.Run(context.Background(), 20000))

	for i, want := range exact.Odds() {
		got := mc.Odds()[i]
		wantWin := float64(want.Wins) / float64(exact.Trials())
		gotWin := float64(got.Wins) / float64(mc.Trials())
		assert.InDelta(t, wantWin, gotWin, 0.02, want.Name)
	}
}

func TestEnumerateOnFlop(t *testing.T) {
	sim := NewSimulator(randutil.New(1))
	require.NoError(t, sim.SetSeats(seats(t, "AsAh", "KsKh")))
	require.NoError(t, sim.SetCommunity(deck.MustParseCards("2c7d9h")))
	require.NoError(t, sim.Enumerate(context.Background()))

	// C(45, 2) runouts.
	assert.Equal(t, 990, sim.Trials())
	assert.Greater(t, sim.WinPct("alice"), 85)
	assert.Less(t, sim.WinPct("bob"), 15)
}

func TestFoldedSeatIsNotEvaluatedButStaysUnseen(t *testing.T) {
	players := seats(t, "AsAh", "KsKh", "AcAd")
	players[2].Folded = true

	sim := NewSimulator(randutil.New(9))
	require.NoError(t, sim.SetSeats(players))
	require.NoError(t, sim.SetCommunity(deck.MustParseCards("2c7d9h3s")))
	require.NoError(t, sim.Enumerate(context.Background()))

	assert.Equal(t, 52-6-4, sim.Trials(), "folded hole cards never appear on the board")
	assert.Len(t, sim.Odds(), 2)
	assert.Equal(t, 0, sim.WinPct("carol"))
	// Only the two unseen kings give bob the hand; the other aces are folded.
	assert.Equal(t, 2, sim.Odds()[1].Wins)
	assert.Equal(t, 40, sim.Odds()[0].Wins)
}

func TestRiverTieIsCountedAsSplit(t *testing.T) {
	sim := NewSimulator(randutil.New(1))
	require.NoError(t, sim.SetSeats(seats(t, "2c3d", "2h3s")))
	require.NoError(t, sim.SetCommunity(deck.MustParseCards("AsKdQhJcTs")))
	require.NoError(t, sim.Run(context.Background(), 50))

	assert.Equal(t, 100, sim.TiePct("alice"))
	assert.Equal(t, 100, sim.TiePct("bob"))
	assert.Equal(t, 100, sim.SplitPct())
	assert.Equal(t, 0, sim.WinPct("alice"))
}

func TestSetCommunityResetsCounters(t *testing.T) {
	sim := NewSimulator(randutil.New(3), WithWorkers(2))
	require.NoError(t, sim.SetSeats(seats(t, "AsAh", "KsKh")))
	require.NoError(t, sim.Run(context.Background(), 100))
	require.Equal(t, 100, sim.Trials())

	require.NoError(t, sim.SetCommunity(deck.MustParseCards("2c7d9h")))
	assert.Equal(t, 0, sim.Trials())
}

func TestSimulatorRejectsBadSetup(t *testing.T) {
	sim := NewSimulator(randutil.New(3))
	assert.ErrorIs(t, sim.SetSeats(seats(t, "AsAh", "AsKh")), ErrDuplicateCard)

	require.NoError(t, sim.SetSeats(seats(t, "AsAh", "KsKh")))
	assert.ErrorIs(t, sim.SetCommunity(deck.MustParseCards("Ks2c3c")), ErrDuplicateCard)

	folded := seats(t, "AsAh")
	folded[0].Folded = true
	require.NoError(t, sim.SetSeats(folded))
	assert.ErrorIs(t, sim.Run(context.Background(), 10), ErrNoLiveSeats)
}

func TestRunHonoursCancellation(t *testing.T) {
	sim := NewSimulator(randutil.New(3), WithWorkers(2))
	require.NoError(t, sim.SetSeats(seats(t, "AsAh", "KsKh")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sim.Run(ctx, 10000), context.Canceled)
}

func TestScoreReusesWorkerScratch(t *testing.T) {
	sim := NewSimulator(randutil.New(3))
	require.NoError(t, sim.SetSeats(seats(t, "AsAh", "KsKh", "QcQd")))
	live := sim.live()
	board := deck.MustParseCards("2c7d9h3s4d")
	scratch := make([]deck.Card, 7)
	tl := newTally(len(sim.seats), len(live))

	hand := append(deck.MustParseCards("AsAh"), board...)
	perHand := testing.AllocsPerRun(50, func() { bestValue(hand) })
	perTrial := testing.AllocsPerRun(50, func() { sim.score(live, board, scratch, tl) })
	assert.Equal(t, perHand*float64(len(live)), perTrial, "scoring a trial allocates nothing beyond hand evaluation")
	assert.Equal(t, 51, tl.count, "one warm-up call plus 50 runs")
}
