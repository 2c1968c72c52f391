package rules

import (
	"fmt"

	"github.com/magefree/hexduel-server-go/internal/game/board"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"go.uber.org/zap"
)

// Category is the coarse event bucket effects are registered under.
type Category uint8

const (
	CategoryOnPlay Category = iota
	CategoryOnMove
	CategoryOnAttack
	CategoryOnCombat
	CategoryOnDraw
	CategoryOnEndOfTurn
	CategoryOnStartOfTurn
	CategoryCastEffect
	CategoryOnPositionEnter
	CategoryOnPositionExit

	categoryCount
)

var categoryNames = map[Category]string{
	CategoryOnPlay:          "ON_PLAY",
	CategoryOnMove:          "ON_MOVE",
	CategoryOnAttack:        "ON_ATTACK",
	CategoryOnCombat:        "ON_COMBAT",
	CategoryOnDraw:          "ON_DRAW",
	CategoryOnEndOfTurn:     "ON_END_OF_TURN",
	CategoryOnStartOfTurn:   "ON_START_OF_TURN",
	CategoryCastEffect:      "CAST_EFFECT",
	CategoryOnPositionEnter: "ON_POSITION_ENTER",
	CategoryOnPositionExit:  "ON_POSITION_EXIT",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CATEGORY_%d", int(c))
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c < categoryCount
}

// Effect is an entry the effect stack can dispatch.
type Effect interface {
	// Check polls the effect's triggers and reports whether it should apply.
	Check(b *board.Board, eventCell *board.Cell) bool
	// Apply performs the effect.
	Apply(b *board.Board, eventCell *board.Cell)
	// Source is the card the effect belongs to.
	Source() cards.ID
	Name() string
}

type stackEntry struct {
	id     uint32
	effect Effect
}

// EffectStack is the registry of active effects keyed by event category.
// Entries in a category resolve in registration order. It is owned by a
// single match and is not safe for concurrent use.
type EffectStack struct {
	logger  *zap.Logger
	entries [categoryCount][]stackEntry
	nextID  uint32
}

// NewEffectStack creates an empty effect stack.
func NewEffectStack(logger *zap.Logger) *EffectStack {
	return &EffectStack{logger: logger, nextID: 1}
}

// Add registers an effect under category and returns its id.
func (s *EffectStack) Add(effect Effect, category Category) uint32 {
	if effect == nil {
		return 0
	}
	if !category.Valid() {
		category = CategoryOnPlay
	}
	id := s.nextID
	s.nextID++
	s.entries[category] = append(s.entries[category], stackEntry{id: id, effect: effect})
	return id
}

// AddDefault registers an effect under CategoryOnPlay.
func (s *EffectStack) AddDefault(effect Effect) uint32 {
	return s.Add(effect, CategoryOnPlay)
}

// Remove deletes the entry with id from whichever category holds it.
func (s *EffectStack) Remove(id uint32) bool {
	for c := range s.entries {
		for i, e := range s.entries[c] {
			if e.id == id {
				s.entries[c] = append(s.entries[c][:i], s.entries[c][i+1:]...)
				return true
			}
		}
	}
	return false
}

// RemoveBySource purges every entry whose source is source and returns how
// many were removed.
func (s *EffectStack) RemoveBySource(source cards.ID) int {
	removed := 0
	for c := range s.entries {
		kept := s.entries[c][:0]
		for _, e := range s.entries[c] {
			if e.effect.Source() == source {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		s.entries[c] = kept
	}
	return removed
}

// RemoveFrom purges the entries of source from one category only.
func (s *EffectStack) RemoveFrom(category Category, source cards.ID) int {
	if !category.Valid() {
		return 0
	}
	removed := 0
	kept := s.entries[category][:0]
	for _, e := range s.entries[category] {
		if e.effect.Source() == source {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries[category] = kept
	return removed
}

// Count returns the number of entries in a category.
func (s *EffectStack) Count(category Category) int {
	if !category.Valid() {
		return 0
	}
	return len(s.entries[category])
}

// Len returns the number of entries across all categories.
func (s *EffectStack) Len() int {
	total := 0
	for c := range s.entries {
		total += len(s.entries[c])
	}
	return total
}

// Clear removes every entry and restarts id allocation.
func (s *EffectStack) Clear() {
	for c := range s.entries {
		s.entries[c] = nil
	}
	s.nextID = 1
}

// Process runs one pass over category in registration order. Effects whose
// check passes are applied and kept; the others are pruned.
func (s *EffectStack) Process(category Category, b *board.Board, eventCell *board.Cell) int {
	if !category.Valid() {
		return 0
	}
	pending := s.entries[category]
	s.entries[category] = nil

	kept := make([]stackEntry, 0, len(pending))
	applied := 0
	for _, e := range pending {
		if !e.effect.Check(b, eventCell) {
			if s.logger != nil {
				s.logger.Debug("effect pruned",
					zap.Uint32("effect_id", e.id),
					zap.String("effect", e.effect.Name()),
					zap.String("category", category.String()),
				)
			}
			continue
		}
		e.effect.Apply(b, eventCell)
		applied++
		kept = append(kept, e)
	}
	// Effects registered while the pass ran go after the survivors.
	s.entries[category] = append(kept, s.entries[category]...)
	return applied
}

// ProcessEndOfTurn dispatches end-of-turn effects.
func (s *EffectStack) ProcessEndOfTurn(b *board.Board) int {
	return s.Process(CategoryOnEndOfTurn, b, nil)
}

// ProcessStartOfTurn dispatches start-of-turn effects.
func (s *EffectStack) ProcessStartOfTurn(b *board.Board) int {
	return s.Process(CategoryOnStartOfTurn, b, nil)
}

// ProcessOnPlay dispatches play effects for a card entering at cell.
func (s *EffectStack) ProcessOnPlay(b *board.Board, cell *board.Cell) int {
	return s.Process(CategoryOnPlay, b, cell)
}

// ProcessOnCast dispatches spell cast effects.
func (s *EffectStack) ProcessOnCast(b *board.Board, cell *board.Cell) int {
	return s.Process(CategoryCastEffect, b, cell)
}

// ProcessPositionEnter dispatches effects for a unit entering cell.
func (s *EffectStack) ProcessPositionEnter(b *board.Board, cell *board.Cell) int {
	return s.Process(CategoryOnPositionEnter, b, cell)
}

// ProcessPositionExit dispatches effects for a unit leaving cell.
func (s *EffectStack) ProcessPositionExit(b *board.Board, cell *board.Cell) int {
	return s.Process(CategoryOnPositionExit, b, cell)
}
