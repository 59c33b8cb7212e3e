// Package store persists player balances, statistics and round summaries.
// The engine only touches a Store at round boundaries.
package store

import (
	"context"
	"time"
)

// PlayerRecord is everything kept about a player between rounds.
type PlayerRecord struct {
	Name      string
	Cash      int
	Bank      int
	Rounds    int
	Wins      int
	Idles     int
	Bankrupts int
}

// PotRecord summarises one settled pot.
type PotRecord struct {
	Amount  int      `json:"amount"`
	Winners []string `json:"winners"`
}

// RoundRecord summarises a completed round.
type RoundRecord struct {
	ID        string         `json:"id"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
	Board     string         `json:"board"`
	Pots      []PotRecord    `json:"pots"`
	Deltas    map[string]int `json:"deltas"`
}

// Store is the persistence collaborator used by the engine.
type Store interface {
	// LoadPlayer returns the saved record for name. The bool is false when
	// no record exists.
	LoadPlayer(ctx context.Context, name string) (PlayerRecord, bool, error)
	// SavePlayers upserts a batch of records atomically.
	SavePlayers(ctx context.Context, records []PlayerRecord) error
	// SaveRound appends a round summary.
	SaveRound(ctx context.Context, round RoundRecord) error
	// RecentRounds returns up to limit rounds, newest first.
	RecentRounds(ctx context.Context, limit int) ([]RoundRecord, error)
	// TopPlayers returns up to limit players ranked by stat, best first,
	// after skipping offset of them.
	TopPlayers(ctx context.Context, stat Stat, limit, offset int) ([]RankedPlayer, error)
	// PlayerRank returns where name stands for stat. The bool is false when
	// the player has no record or does not qualify for the ranking.
	PlayerRank(ctx context.Context, name string, stat Stat) (RankedPlayer, bool, error)
	Close() error
}
