// Package targeting resolves which board cells an ability reaches.
package targeting

import (
	"fmt"

	"github.com/magefree/hexduel-server-go/internal/game/board"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/hex"
)

// Selector maps the board and the event cell to a set of target cells.
// Results are deterministic: whole-board scans run in row-major order.
type Selector interface {
	Select(b *board.Board, eventCell *board.Cell) []*board.Cell
	Name() string
}

// base carries the source card and owner shared by every selector.
type base struct {
	Source cards.ID
	Owner  cards.PlayerID
}

func (s base) sourceCell(b *board.Board) *board.Cell {
	card, ok := b.Arena().Get(s.Source)
	if !ok {
		return nil
	}
	return b.CellOf(card)
}

// SelfSelector targets the source card's own cell.
type SelfSelector struct{ base }

// NewSelf creates a Self selector.
func NewSelf(source cards.ID, owner cards.PlayerID) *SelfSelector {
	return &SelfSelector{base{source, owner}}
}

// Select returns the source cell when the source is on the board.
func (s *SelfSelector) Select(b *board.Board, _ *board.Cell) []*board.Cell {
	if cell := s.sourceCell(b); cell != nil {
		return []*board.Cell{cell}
	}
	return nil
}

func (s *SelfSelector) Name() string { return "Self" }

// AdjacentSelector targets occupied neighbors of the source.
type AdjacentSelector struct {
	base
	Filter Filter
}

// NewAdjacent creates an Adjacent selector.
func NewAdjacent(source cards.ID, owner cards.PlayerID, filter Filter) *AdjacentSelector {
	return &AdjacentSelector{base: base{source, owner}, Filter: filter}
}

// Select returns matching neighbor cells in direction order.
func (s *AdjacentSelector) Select(b *board.Board, _ *board.Cell) []*board.Cell {
	origin := s.sourceCell(b)
	if origin == nil {
		return nil
	}
	var out []*board.Cell
	for _, n := range b.Neighbors(s.Owner, origin) {
		if s.Filter.Accepts(s.Owner, b.Occupant(n)) {
			out = append(out, n)
		}
	}
	return out
}

func (s *AdjacentSelector) Name() string { return "Adjacent" }

// AllCardsSelector scans the whole board.
type AllCardsSelector struct {
	base
	Scope Scope
}

// NewAllCards creates an AllCards selector.
func NewAllCards(source cards.ID, owner cards.PlayerID, scope Scope) *AllCardsSelector {
	return &AllCardsSelector{base: base{source, owner}, Scope: scope}
}

// Select returns every matching cell in row-major order.
func (s *AllCardsSelector) Select(b *board.Board, _ *board.Cell) []*board.Cell {
	var out []*board.Cell
	for _, cell := range b.Cells() {
		if s.Scope.Accepts(s.Owner, b.Occupant(cell)) {
			out = append(out, cell)
		}
	}
	return out
}

func (s *AllCardsSelector) Name() string { return "AllCards" }

// SpecificPositionSelector targets one fixed coordinate.
type SpecificPositionSelector struct {
	base
	Pos hex.Position
}

// NewSpecificPosition creates a selector for (x, y).
func NewSpecificPosition(source cards.ID, owner cards.PlayerID, x, y int) *SpecificPositionSelector {
	return &SpecificPositionSelector{base: base{source, owner}, Pos: hex.Position{X: x, Y: y}}
}

// Select returns the cell when it exists, occupied or not.
func (s *SpecificPositionSelector) Select(b *board.Board, _ *board.Cell) []*board.Cell {
	if cell := b.AtPos(s.Pos); cell != nil {
		return []*board.Cell{cell}
	}
	return nil
}

func (s *SpecificPositionSelector) Name() string {
	return fmt.Sprintf("SpecificPosition(%d,%d)", s.Pos.X, s.Pos.Y)
}

// DirectionalSelector targets the single neighbor of the source in a fixed
// direction.
type DirectionalSelector struct {
	base
	Direction hex.Direction
	Filter    Filter
}

// NewDirectional creates a Directional selector.
func NewDirectional(source cards.ID, owner cards.PlayerID, dir hex.Direction, filter Filter) *DirectionalSelector {
	return &DirectionalSelector{base: base{source, owner}, Direction: dir, Filter: filter}
}

// Select returns the neighbor if its occupant passes the filter.
func (s *DirectionalSelector) Select(b *board.Board, _ *board.Cell) []*board.Cell {
	cell := b.NeighborFor(s.Owner, s.Direction, s.sourceCell(b))
	if cell == nil || !s.Filter.Accepts(s.Owner, b.Occupant(cell)) {
		return nil
	}
	return []*board.Cell{cell}
}

func (s *DirectionalSelector) Name() string {
	return "Directional(" + s.Direction.String() + ")"
}

// GameStateSelector selects nothing. It marks effects that act on players
// or decks rather than on board cells.
type GameStateSelector struct{ base }

// NewGameState creates a GameState selector.
func NewGameState(source cards.ID, owner cards.PlayerID) *GameStateSelector {
	return &GameStateSelector{base{source, owner}}
}

// Select always returns an empty set.
func (s *GameStateSelector) Select(*board.Board, *board.Cell) []*board.Cell {
	return nil
}

func (s *GameStateSelector) Name() string { return "GameState" }
