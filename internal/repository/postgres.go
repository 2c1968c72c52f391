package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/magefree/hexduel-server-go/internal/game"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/repository/migrations"
)

// PostgresStore persists decks and results in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

type pgExec struct{ pool *pgxpool.Pool }

func (e pgExec) exec(ctx context.Context, query string, args ...any) error {
	_, err := e.pool.Exec(ctx, query, args...)
	return err
}

func (e pgExec) applied(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := e.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

// OpenPostgres connects a pool to url and applies the embedded schema.
// maxConns <= 0 keeps the pgx default.
func OpenPostgres(ctx context.Context, url string, maxConns int32) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	insert := `INSERT INTO schema_migrations (name, applied_at) VALUES ($1, $2)`
	now := func() int64 { return time.Now().UTC().UnixMilli() }
	if err := applyMigrations(ctx, pgExec{pool}, migrations.Postgres, "postgres", now, insert); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// SaveDeck replaces the deck stored under name in one transaction.
func (s *PostgresStore) SaveDeck(ctx context.Context, name string, deck []cards.Template) error {
	name, err := validateDeck(name, deck)
	if err != nil {
		return err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM decks WHERE name = $1`, name); err != nil {
		return fmt.Errorf("clear deck %q: %w", name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO decks (name) VALUES ($1)`, name); err != nil {
		return fmt.Errorf("insert deck %q: %w", name, err)
	}

	batch := &pgx.Batch{}
	for i, c := range deck {
		abilities, err := encodeAbilities(c.Abilities)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO deck_cards (
				deck_name, position, def_id, name, description, cost, kind,
				attack, health, speed, attack_range, abilities
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			name, i, int64(c.DefID), c.Name, c.Description, c.Cost, int16(c.Kind),
			c.Attack, c.Health, c.Speed, c.Range, abilities,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert cards of deck %q: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit deck %q: %w", name, err)
	}
	return nil
}

func (s *PostgresStore) LoadDeck(ctx context.Context, name string) ([]cards.Template, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT def_id, name, description, cost, kind, attack, health, speed, attack_range, abilities::text
		  FROM deck_cards WHERE deck_name = $1 ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("load deck %q: %w", name, err)
	}
	defer rows.Close()

	var deck []cards.Template
	for rows.Next() {
		var (
			c         cards.Template
			defID     int64
			kind      int16
			abilities string
		)
		if err := rows.Scan(&defID, &c.Name, &c.Description, &c.Cost, &kind,
			&c.Attack, &c.Health, &c.Speed, &c.Range, &abilities); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		c.DefID = uint32(defID)
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

func (s *PostgresStore) ListDecks(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM decks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return names, nil
}

// RecordResult upserts a finished match.
func (s *PostgresStore) RecordResult(ctx context.Context, result game.MatchResult) error {
	if err := validateResult(result); err != nil {
		return err
	}
	stats, err := encodeStats(result.Stats)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO match_results (match_id, players, winner, turns, seed, checksum, stats, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (match_id) DO UPDATE SET
			players = EXCLUDED.players,
			winner = EXCLUDED.winner,
			turns = EXCLUDED.turns,
			seed = EXCLUDED.seed,
			checksum = EXCLUDED.checksum,
			stats = EXCLUDED.stats,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at`,
		result.MatchID, result.Players, int16(result.Winner), result.Turns, int64(result.Seed),
		result.Checksum, stats, result.StartedAt.UTC(), result.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record result %s: %w", result.MatchID, err)
	}
	return nil
}

func (s *PostgresStore) ListResults(ctx context.Context, limit int) ([]game.MatchResult, error) {
	query := `SELECT match_id, players, winner, turns, seed, checksum, stats::text, started_at, finished_at
	            FROM match_results ORDER BY finished_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []game.MatchResult
	for rows.Next() {
		var (
			r      game.MatchResult
			winner int16
			seed   int64
			stats  string
		)
		if err := rows.Scan(&r.MatchID, &r.Players, &winner, &r.Turns, &seed, &r.Checksum, &stats, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var err error
		if r.Stats, err = decodeStats(stats); err != nil {
			return nil, err
		}
		r.Winner = game.Team(winner)
		r.Seed = uint32(seed)
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ Store = (*PostgresStore)(nil)
