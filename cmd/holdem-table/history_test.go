package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/holdem-table/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedHistory writes a config pointing at a fresh SQLite database holding
// two rounds and their players, and returns the flags for it.
func seedHistory(t *testing.T) *Globals {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "table.db")

	st, err := store.OpenSQLite(context.Background(), dbPath)
	require.NoError(t, err)
	start := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	for i, delta := range []int{15, -40} {
		require.NoError(t, st.SaveRound(context.Background(), store.RoundRecord{
			ID:        fmt.Sprintf("round-%d", i+1),
			StartedAt: start.Add(time.Duration(i) * time.Minute),
			EndedAt:   start.Add(time.Duration(i)*time.Minute + 30*time.Second),
			Pots:      []store.PotRecord{{Amount: 80, Winners: []string{"alice"}}},
			Deltas:    map[string]int{"alice": delta, "bob": -delta},
		}))
	}
	require.NoError(t, st.SavePlayers(context.Background(), []store.PlayerRecord{
		{Name: "alice", Cash: 1015, Rounds: 2, Wins: 2},
		{Name: "bob", Cash: 985, Rounds: 2},
	}))
	require.NoError(t, st.Close())

	cfgPath := filepath.Join(dir, "holdem.hcl")
	src := fmt.Sprintf("table {\n  minimum_bet = 10\n}\n\nstorage {\n  driver = \"sqlite\"\n  dsn    = %q\n}\n", dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(src), 0o644))
	return &Globals{Config: cfgPath}
}

func TestHistoryExportsJSON(t *testing.T) {
	g := seedHistory(t)
	out := filepath.Join(t.TempDir(), "rounds.json")

	require.NoError(t, (&HistoryCmd{Limit: 10, JSON: out}).Run(g))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var rounds []store.RoundRecord
	require.NoError(t, json.Unmarshal(data, &rounds))
	require.Len(t, rounds, 2)
	assert.Equal(t, "round-2", rounds[0].ID, "newest first")
	assert.Equal(t, map[string]int{"alice": -40, "bob": 40}, rounds[0].Deltas)
}

func TestRecentRoundsRespectsLimit(t *testing.T) {
	g := seedHistory(t)

	cfg, rounds, err := recentRounds(g, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Table.MinimumBet)
	require.Len(t, rounds, 1)
	assert.Equal(t, "round-2", rounds[0].ID)

	require.NoError(t, (&StatsCmd{Limit: 10}).Run(g))
}

func TestLeaderboardCommands(t *testing.T) {
	g := seedHistory(t)

	require.NoError(t, (&TopCmd{Stat: "cash", N: 1}).Run(g))
	require.NoError(t, (&TopCmd{Stat: "wins", N: 25}).Run(g), "an empty page is not an error")
	require.NoError(t, (&RankCmd{Player: "bob", Stat: "NET"}).Run(g))
	require.NoError(t, (&RankCmd{Player: "nobody", Stat: "cash"}).Run(g))

	err := (&TopCmd{Stat: "winrate", N: 1}).Run(g)
	require.ErrorIs(t, err, store.ErrUnknownStat)
	assert.Error(t, (&TopCmd{Stat: "cash", N: 0}).Run(g))

	st, err := openStore(context.Background(), g)
	require.NoError(t, err)
	defer st.Close()
	top, err := st.TopPlayers(context.Background(), store.StatCash, leaderboardPage, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "alice", top[0].Name)
}
