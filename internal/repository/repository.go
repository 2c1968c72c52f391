// Package repository stores deck catalogs and finished match results.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/magefree/hexduel-server-go/internal/config"
	"github.com/magefree/hexduel-server-go/internal/game"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a deck does not exist.
var ErrNotFound = errors.New("not found")

// Store persists decks and match results. Every implementation also
// satisfies game.ResultRecorder.
type Store interface {
	SaveDeck(ctx context.Context, name string, deck []cards.Template) error
	LoadDeck(ctx context.Context, name string) ([]cards.Template, error)
	ListDecks(ctx context.Context) ([]string, error)
	RecordResult(ctx context.Context, result game.MatchResult) error
	ListResults(ctx context.Context, limit int) ([]game.MatchResult, error)
	Close() error
}

var _ game.ResultRecorder = (Store)(nil)

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case "memory":
		logger.Info("using in-memory store")
		return NewMemoryStore(), nil
	case "sqlite":
		logger.Info("opening sqlite store", zap.String("path", cfg.Path))
		return OpenSQLite(ctx, cfg.Path)
	case "postgres":
		logger.Info("connecting to postgres", zap.Int32("max_conns", cfg.MaxConns))
		return OpenPostgres(ctx, cfg.URL, cfg.MaxConns)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func validateDeck(name string, deck []cards.Template) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("deck name is required")
	}
	if len(deck) == 0 {
		return "", fmt.Errorf("deck %q has no cards", name)
	}
	return name, nil
}

func validateResult(result game.MatchResult) error {
	if strings.TrimSpace(result.MatchID) == "" {
		return fmt.Errorf("match id is required")
	}
	return nil
}

func encodeStats(stats []game.PlayerStats) (string, error) {
	if len(stats) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("encode stats: %w", err)
	}
	return string(data), nil
}

func decodeStats(raw string) ([]game.PlayerStats, error) {
	var stats []game.PlayerStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	if len(stats) == 0 {
		return nil, nil
	}
	return stats, nil
}

func encodeAbilities(specs []cards.AbilitySpec) (string, error) {
	if len(specs) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(specs)
	if err != nil {
		return "", fmt.Errorf("encode abilities: %w", err)
	}
	return string(data), nil
}

func decodeAbilities(raw string) ([]cards.AbilitySpec, error) {
	var specs []cards.AbilitySpec
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return nil, fmt.Errorf("decode abilities: %w", err)
	}
	if len(specs) == 0 {
		return nil, nil
	}
	return specs, nil
}

func cloneDeck(deck []cards.Template) []cards.Template {
	out := make([]cards.Template, len(deck))
	for i, t := range deck {
		t.Abilities = append([]cards.AbilitySpec(nil), t.Abilities...)
		out[i] = t
	}
	return out
}
