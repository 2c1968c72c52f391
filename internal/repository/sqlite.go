package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefree/hexduel-server-go/internal/game"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/repository/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteStore persists decks and results in a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

type sqliteExec struct{ db *sql.DB }

func (e sqliteExec) exec(ctx context.Context, query string, args ...any) error {
	_, err := e.db.ExecContext(ctx, query, args...)
	return err
}

func (e sqliteExec) applied(ctx context.Context, name string) (bool, error) {
	var n int
	err := e.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, name).Scan(&n)
	return n > 0, err
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the embedded schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	insert := `INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`
	now := func() int64 { return toMillis(time.Now()) }
	if err := applyMigrations(ctx, sqliteExec{db}, migrations.SQLite, "sqlite", now, insert); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveDeck replaces the deck stored under name.
func (s *SQLiteStore) SaveDeck(ctx context.Context, name string, deck []cards.Template) error {
	name, err := validateDeck(name, deck)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM decks WHERE name = ?`, name); err != nil {
		return fmt.Errorf("clear deck %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO decks (name, created_at) VALUES (?, ?)`, name, toMillis(time.Now())); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("deck %q was saved concurrently: %w", name, err)
		}
		return fmt.Errorf("insert deck %q: %w", name, err)
	}
	for i, c := range deck {
		abilities, err := encodeAbilities(c.Abilities)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO deck_cards (
			   deck_name, position, def_id, name, description, cost, kind,
			   attack, health, speed, attack_range, abilities
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			name, i, c.DefID, c.Name, c.Description, c.Cost, int(c.Kind),
			c.Attack, c.Health, c.Speed, c.Range, abilities,
		)
		if err != nil {
			return fmt.Errorf("insert card %d of deck %q: %w", i, name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deck %q: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) LoadDeck(ctx context.Context, name string) ([]cards.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT def_id, name, description, cost, kind, attack, health, speed, attack_range, abilities
		   FROM deck_cards WHERE deck_name = ? ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("load deck %q: %w", name, err)
	}
	defer rows.Close()

	var deck []cards.Template
	for rows.Next() {
		var (
			c         cards.Template
			kind      int
			abilities string
		)
		if err := rows.Scan(&c.DefID, &c.Name, &c.Description, &c.Cost, &kind,
			&c.Attack, &c.Health, &c.Speed, &c.Range, &abilities); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		c.Kind = cards.Kind(kind)
		if c.Abilities, err = decodeAbilities(abilities); err != nil {
			return nil, err
		}
		deck = append(deck, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(deck) == 0 {
		return nil, fmt.Errorf("deck %q: %w", name, ErrNotFound)
	}
	return deck, nil
}

func (s *SQLiteStore) ListDecks(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM decks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// RecordResult stores a finished match. Recording the same match twice
// overwrites the first row.
func (s *SQLiteStore) RecordResult(ctx context.Context, result game.MatchResult) error {
	if err := validateResult(result); err != nil {
		return err
	}
	players, err := json.Marshal(result.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	stats, err := encodeStats(result.Stats)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO match_results (match_id, players, winner, turns, seed, checksum, stats, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(match_id) DO UPDATE SET
		   players = excluded.players,
		   winner = excluded.winner,
		   turns = excluded.turns,
		   seed = excluded.seed,
		   checksum = excluded.checksum,
		   stats = excluded.stats,
		   started_at = excluded.started_at,
		   finished_at = excluded.finished_at`,
		result.MatchID, string(players), int(result.Winner), result.Turns, int64(result.Seed),
		result.Checksum, stats, toMillis(result.StartedAt), toMillis(result.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("record result %s: %w", result.MatchID, err)
	}
	return nil
}

// ListResults returns up to limit results, newest first. limit <= 0 means
// all of them.
func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]game.MatchResult, error) {
	query := `SELECT match_id, players, winner, turns, seed, checksum, stats, started_at, finished_at
	            FROM match_results ORDER BY finished_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []game.MatchResult
	for rows.Next() {
		var (
			r                 game.MatchResult
			players, stats    string
			winner            int
			seed              int64
			started, finished int64
		)
		if err := rows.Scan(&r.MatchID, &players, &winner, &r.Turns, &seed, &r.Checksum, &stats, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(players), &r.Players); err != nil {
			return nil, fmt.Errorf("decode players: %w", err)
		}
		var err error
		if r.Stats, err = decodeStats(stats); err != nil {
			return nil, err
		}
		r.Winner = game.Team(winner)
		r.Seed = uint32(seed)
		r.StartedAt, r.FinishedAt = fromMillis(started), fromMillis(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

var _ Store = (*SQLiteStore)(nil)
