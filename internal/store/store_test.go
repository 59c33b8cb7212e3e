package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/holdem-table/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	sqlite, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "poker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestPlayerRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.LoadPlayer(ctx, "alice")
			require.NoError(t, err)
			assert.False(t, ok)

			alice := PlayerRecord{Name: "alice", Cash: 1200, Bank: 300, Rounds: 4, Wins: 2, Idles: 1}
			bob := PlayerRecord{Name: "bob", Cash: 800, Rounds: 4, Bankrupts: 1}
			require.NoError(t, s.SavePlayers(ctx, []PlayerRecord{alice, bob}))

			got, ok, err := s.LoadPlayer(ctx, "alice")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, alice, got)

			// Saving again overwrites.
			alice.Cash = 0
			alice.Rounds = 5
			require.NoError(t, s.SavePlayers(ctx, []PlayerRecord{alice}))
			got, _, err = s.LoadPlayer(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, alice, got)

			got, _, err = s.LoadPlayer(ctx, "bob")
			require.NoError(t, err)
			assert.Equal(t, bob, got)
		})
	}
}

func TestRecentRounds(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i, id := range []string{"r1", "r2", "r3"} {
				require.NoError(t, s.SaveRound(ctx, RoundRecord{
					ID:        id,
					StartedAt: base.Add(time.Duration(i) * time.Minute),
					EndedAt:   base.Add(time.Duration(i)*time.Minute + 30*time.Second),
					Board:     "As Kd 7c 2h 2s",
					Pots:      []PotRecord{{Amount: 150, Winners: []string{"alice"}}},
					Deltas:    map[string]int{"alice": 100, "bob": -50, "carol": -50},
				}))
			}

			rounds, err := s.RecentRounds(ctx, 2)
			require.NoError(t, err)
			require.Len(t, rounds, 2)
			assert.Equal(t, "r3", rounds[0].ID)
			assert.Equal(t, "r2", rounds[1].ID)
			assert.Equal(t, []PotRecord{{Amount: 150, Winners: []string{"alice"}}}, rounds[0].Pots)
			assert.Equal(t, 100, rounds[0].Deltas["alice"])
			assert.True(t, rounds[0].EndedAt.Equal(base.Add(2*time.Minute+30*time.Second)))
		})
	}
}

func TestLeaderboards(t *testing.T) {
	ctx := context.Background()
	records := []PlayerRecord{
		{Name: "alice", Cash: 1500, Bank: 0, Rounds: 40, Wins: 12},
		{Name: "bob", Cash: 900, Bank: 2000, Rounds: 40, Wins: 9, Bankrupts: 2},
		{Name: "carol", Cash: 1500, Bank: 100, Rounds: 3, Wins: 1},
		{Name: "dave", Cash: 1000},
	}

	names := func(ranked []RankedPlayer) []string {
		var out []string
		for _, r := range ranked {
			out = append(out, r.Name)
		}
		return out
	}

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SavePlayers(ctx, records))

			top, err := s.TopPlayers(ctx, StatCash, 10, 0)
			require.NoError(t, err)
			assert.Equal(t, []string{"alice", "carol", "dave", "bob"}, names(top))
			assert.Equal(t, []int{1, 1, 3, 4}, []int{top[0].Rank, top[1].Rank, top[2].Rank, top[3].Rank},
				"equal cash shares a rank")
			assert.Equal(t, 1500, top[1].Value)

			top, err = s.TopPlayers(ctx, StatNet, 2, 1)
			require.NoError(t, err)
			assert.Equal(t, []string{"carol", "alice"}, names(top))
			assert.Equal(t, 2, top[0].Rank)

			top, err = s.TopPlayers(ctx, StatRounds, 10, 0)
			require.NoError(t, err)
			assert.Equal(t, []string{"alice", "bob", "carol"}, names(top), "players without rounds are not ranked")

			top, err = s.TopPlayers(ctx, StatBankrupts, 10, 10)
			require.NoError(t, err)
			assert.Empty(t, top)

			rank, ok, err := s.PlayerRank(ctx, "bob", StatBankrupts)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 1, rank.Rank)
			assert.Equal(t, 2, rank.Value)

			_, ok, err = s.PlayerRank(ctx, "dave", StatWins)
			require.NoError(t, err)
			assert.False(t, ok, "dave has not played")

			_, ok, err = s.PlayerRank(ctx, "mallory", StatCash)
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = s.TopPlayers(ctx, Stat("style"), 10, 0)
			require.ErrorIs(t, err, ErrUnknownStat)
		})
	}
}

func TestParseStat(t *testing.T) {
	stat, err := ParseStat("NetCash")
	require.NoError(t, err)
	assert.Equal(t, StatNet, stat)

	stat, err = ParseStat("wins")
	require.NoError(t, err)
	assert.Equal(t, StatWins, stat)

	_, err = ParseStat("winrate")
	require.ErrorIs(t, err, ErrUnknownStat)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StorageConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, config.StorageConfig{Driver: config.DriverSQLite, DSN: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, config.StorageConfig{Driver: "mongo"})
	assert.Error(t, err)
}
