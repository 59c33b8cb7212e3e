package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store backed by a SQLite database.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dsn and migrates
// the schema.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to an in-memory database is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{conn: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS players (
		name TEXT PRIMARY KEY,
		cash INTEGER NOT NULL DEFAULT 0,
		bank INTEGER NOT NULL DEFAULT 0,
		rounds INTEGER NOT NULL DEFAULT 0,
		wins INTEGER NOT NULL DEFAULT 0,
		idles INTEGER NOT NULL DEFAULT 0,
		bankrupts INTEGER NOT NULL DEFAULT 0
	);`)
	if err != nil {
		return err
	}

	_, err = s.conn.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		board TEXT NOT NULL DEFAULT '',
		pots TEXT NOT NULL DEFAULT '[]',
		deltas TEXT NOT NULL DEFAULT '{}'
	);`)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) LoadPlayer(ctx context.Context, name string) (PlayerRecord, bool, error) {
	rec := PlayerRecord{Name: name}
	err := s.conn.QueryRowContext(ctx,
		"SELECT cash, bank, rounds, wins, idles, bankrupts FROM players WHERE name = ?", name,
	).Scan(&rec.Cash, &rec.Bank, &rec.Rounds, &rec.Wins, &rec.Idles, &rec.Bankrupts)
	if errors.Is(err, sql.ErrNoRows) {
		return PlayerRecord{}, false, nil
	}
	if err != nil {
		return PlayerRecord{}, false, fmt.Errorf("load player %s: %w", name, err)
	}
	return rec, true, nil
}

func (s *SQLiteStore) SavePlayers(ctx context.Context, records []PlayerRecord) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO players (name, cash, bank, rounds, wins, idles, bankrupts)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		cash = excluded.cash,
		bank = excluded.bank,
		rounds = excluded.rounds,
		wins = excluded.wins,
		idles = excluded.idles,
		bankrupts = excluded.bankrupts`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Name, r.Cash, r.Bank, r.Rounds, r.Wins, r.Idles, r.Bankrupts); err != nil {
			return fmt.Errorf("save player %s: %w", r.Name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) SaveRound(ctx context.Context, round RoundRecord) error {
	pots, err := json.Marshal(round.Pots)
	if err != nil {
		return err
	}
	deltas, err := json.Marshal(round.Deltas)
	if err != nil {
		return err
	}
	_, err = s.conn.ExecContext(ctx,
		"INSERT INTO rounds (id, started_at, ended_at, board, pots, deltas) VALUES (?, ?, ?, ?, ?, ?)",
		round.ID, round.StartedAt.UTC().Format(time.RFC3339Nano), round.EndedAt.UTC().Format(time.RFC3339Nano),
		round.Board, string(pots), string(deltas))
	if err != nil {
		return fmt.Errorf("save round %s: %w", round.ID, err)
	}
	return nil
}

func (s *SQLiteStore) RecentRounds(ctx context.Context, limit int) ([]RoundRecord, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, started_at, ended_at, board, pots, deltas FROM rounds ORDER BY ended_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoundRecord
	for rows.Next() {
		var (
			r                   RoundRecord
			started, ended      string
			potsJSON, deltaJSON string
		)
		if err := rows.Scan(&r.ID, &started, &ended, &r.Board, &potsJSON, &deltaJSON); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, err
		}
		if r.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(potsJSON), &r.Pots); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(deltaJSON), &r.Deltas); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// rankedPlayersQuery selects every qualifying player with a competition rank for
// stat. Extra filters and paging are appended by the caller.
func rankedPlayersQuery(stat Stat) (string, error) {
	expr, where, err := stat.sqlExpr()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
	SELECT name, cash, bank, rounds, wins, idles, bankrupts, value, rnk FROM (
		SELECT name, cash, bank, rounds, wins, idles, bankrupts,
			%[1]s AS value,
			RANK() OVER (ORDER BY %[1]s DESC) AS rnk
		FROM players WHERE %[2]s
	)`, expr, where), nil
}

func scanRanked(scan func(dest ...any) error) (RankedPlayer, error) {
	var r RankedPlayer
	err := scan(&r.Name, &r.Cash, &r.Bank, &r.Rounds, &r.Wins, &r.Idles, &r.Bankrupts, &r.Value, &r.Rank)
	return r, err
}

func (s *SQLiteStore) TopPlayers(ctx context.Context, stat Stat, limit, offset int) ([]RankedPlayer, error) {
	query, err := rankedPlayersQuery(stat)
	if err != nil {
		return nil, err
	}
	rows, err := s.conn.QueryContext(ctx, query+" ORDER BY rnk, name LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("top players by %s: %w", stat, err)
	}
	defer rows.Close()

	var out []RankedPlayer
	for rows.Next() {
		r, err := scanRanked(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PlayerRank(ctx context.Context, name string, stat Stat) (RankedPlayer, bool, error) {
	query, err := rankedPlayersQuery(stat)
	if err != nil {
		return RankedPlayer{}, false, err
	}
	r, err := scanRanked(s.conn.QueryRowContext(ctx, query+" WHERE name = ?", name).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return RankedPlayer{}, false, nil
	}
	if err != nil {
		return RankedPlayer{}, false, fmt.Errorf("rank %s by %s: %w", name, stat, err)
	}
	return r, true, nil
}
