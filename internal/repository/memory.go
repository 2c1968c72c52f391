package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/magefree/hexduel-server-go/internal/game"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
)

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	decks   map[string][]cards.Template
	results []game.MatchResult
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{decks: make(map[string][]cards.Template)}
}

func (s *MemoryStore) SaveDeck(ctx context.Context, name string, deck []cards.Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := validateDeck(name, deck)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks[name] = cloneDeck(deck)
	return nil
}

func (s *MemoryStore) LoadDeck(ctx context.Context, name string) ([]cards.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	deck, ok := s.decks[name]
	if !ok {
		return nil, fmt.Errorf("deck %q: %w", name, ErrNotFound)
	}
	return cloneDeck(deck), nil
}

func (s *MemoryStore) ListDecks(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.decks))
	for name := range s.decks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) RecordResult(ctx context.Context, result game.MatchResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateResult(result); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.results {
		if r.MatchID == result.MatchID {
			s.results[i] = result
			return nil
		}
	}
	s.results = append(s.results, result)
	return nil
}

// ListResults returns up to limit results, newest first. limit <= 0 means
// all of them.
func (s *MemoryStore) ListResults(ctx context.Context, limit int) ([]game.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := append([]game.MatchResult(nil), s.results...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
