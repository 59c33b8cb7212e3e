package store

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	mu      sync.RWMutex
	players map[string]PlayerRecord
	rounds  []RoundRecord
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players: make(map[string]PlayerRecord),
	}
}

func (s *MemoryStore) LoadPlayer(_ context.Context, name string) (PlayerRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.players[name]
	return rec, ok, nil
}

func (s *MemoryStore) SavePlayers(_ context.Context, records []PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		s.players[rec.Name] = rec
	}
	return nil
}

func (s *MemoryStore) SaveRound(_ context.Context, round RoundRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	round.Pots = slices.Clone(round.Pots)
	round.Deltas = maps.Clone(round.Deltas)
	s.rounds = append(s.rounds, round)
	return nil
}

func (s *MemoryStore) RecentRounds(_ context.Context, limit int) ([]RoundRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RoundRecord, 0, min(limit, len(s.rounds)))
	for i := len(s.rounds) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.rounds[i])
	}
	return out, nil
}

func (s *MemoryStore) TopPlayers(_ context.Context, stat Stat, limit, offset int) ([]RankedPlayer, error) {
	if err := stat.validate(); err != nil {
		return nil, err
	}
	ranked := rankPlayers(s.records(), stat)
	if offset >= len(ranked) {
		return nil, nil
	}
	ranked = ranked[offset:]
	return ranked[:min(limit, len(ranked))], nil
}

func (s *MemoryStore) PlayerRank(_ context.Context, name string, stat Stat) (RankedPlayer, bool, error) {
	if err := stat.validate(); err != nil {
		return RankedPlayer{}, false, err
	}
	for _, r := range rankPlayers(s.records(), stat) {
		if r.Name == name {
			return r, true, nil
		}
	}
	return RankedPlayer{}, false, nil
}

func (s *MemoryStore) records() []PlayerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Collect(maps.Values(s.players))
}

func (s *MemoryStore) Close() error {
	return nil
}
