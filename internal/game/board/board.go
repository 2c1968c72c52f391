// Package board implements the fixed-size hex grid a duel is played on.
package board

import (
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/hex"
)

// Board dimensions. They never change for the lifetime of the process.
const (
	Width  = 5
	Height = 7
)

// Floor is the immutable terrain of a cell.
type Floor uint8

// Floor types.
const (
	FloorNone Floor = iota
	FloorWalkable
	FloorSpawn
)

var floorNames = map[Floor]string{
	FloorNone:     "NONE",
	FloorWalkable: "WALKABLE",
	FloorSpawn:    "SPAWN",
}

func (f Floor) String() string {
	if name, ok := floorNames[f]; ok {
		return name
	}
	return "UNKNOWN"
}

// Cell is one board position with an optional occupying card.
type Cell struct {
	X, Y     int
	Floor    Floor
	occupant cards.ID
}

// Pos returns the cell coordinate.
func (c *Cell) Pos() hex.Position {
	return hex.Position{X: c.X, Y: c.Y}
}

// Walkable reports whether cards may stand on the cell.
func (c *Cell) Walkable() bool {
	return c.Floor != FloorNone
}

// IsSpawn reports whether the cell is a legend spawn point.
func (c *Cell) IsSpawn() bool {
	return c.Floor == FloorSpawn
}

// Occupied reports whether a card stands on the cell.
func (c *Cell) Occupied() bool {
	return c.occupant != ""
}

// CardID returns the occupant's ID, or "" when empty.
func (c *Cell) CardID() cards.ID {
	return c.occupant
}

// spawnPoints are the legend cells per seat.
var spawnPoints = [2]hex.Position{
	{X: Width / 2, Y: 0},
	{X: Width / 2, Y: Height - 1},
}

// DefaultFloor is the standard duel layout.
func DefaultFloor(x, y int) Floor {
	for _, sp := range spawnPoints {
		if sp.X == x && sp.Y == y {
			return FloorSpawn
		}
	}
	walkable := (y >= 3 && y < Height-1) ||
		x == Width/2 ||
		(y == 2 && x >= 1 && x < Width-1)
	if walkable {
		return FloorWalkable
	}
	return FloorNone
}

// Board holds the grid and resolves occupants through the match arena.
type Board struct {
	cells [Height][Width]Cell
	arena *cards.Arena
}

// New builds a board with the default layout backed by arena.
func New(arena *cards.Arena) *Board {
	b := &Board{arena: arena}
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			b.cells[y][x] = Cell{X: x, Y: y, Floor: DefaultFloor(x, y)}
		}
	}
	return b
}

// Arena returns the card arena backing the board.
func (b *Board) Arena() *cards.Arena {
	return b.arena
}

// At returns the cell at (x, y) or nil when out of bounds.
func (b *Board) At(x, y int) *Cell {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return nil
	}
	return &b.cells[y][x]
}

// AtPos is At for a position value.
func (b *Board) AtPos(p hex.Position) *Cell {
	return b.At(p.X, p.Y)
}

// Neighbor returns the adjacent cell in direction d, or nil past the edge.
// Directions are read in the board frame, which is seat 0's view.
func (b *Board) Neighbor(d hex.Direction, c *Cell) *Cell {
	if c == nil || !d.Valid() {
		return nil
	}
	return b.AtPos(c.Pos().Neighbor(d))
}

// view maps a position into a seat's frame. Seat 1 sits at the bottom edge
// and sees the grid upside down, so both spawns have the same surroundings.
// The mapping is its own inverse.
func view(p hex.Position, seat cards.PlayerID) hex.Position {
	if seat == 1 {
		return p.Mirror(Height)
	}
	return p
}

// NeighborFor is Neighbor with d read in seat's frame.
func (b *Board) NeighborFor(seat cards.PlayerID, d hex.Direction, c *Cell) *Cell {
	if c == nil || !d.Valid() {
		return nil
	}
	return b.AtPos(view(view(c.Pos(), seat).Neighbor(d), seat))
}

// Neighbors returns the in-bounds neighbors of c seen by seat, in direction
// order.
func (b *Board) Neighbors(seat cards.PlayerID, c *Cell) []*Cell {
	if c == nil {
		return nil
	}
	out := make([]*Cell, 0, hex.Count)
	for _, d := range hex.Directions {
		if n := b.NeighborFor(seat, d, c); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Adjacent reports whether two cells share an edge in seat's frame.
func (b *Board) Adjacent(seat cards.PlayerID, a, c *Cell) bool {
	if a == nil || c == nil {
		return false
	}
	return view(a.Pos(), seat).IsAdjacent(view(c.Pos(), seat))
}

// Cells returns every cell in row-major order.
func (b *Board) Cells() []*Cell {
	out := make([]*Cell, 0, Width*Height)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			out = append(out, &b.cells[y][x])
		}
	}
	return out
}

// Spawn returns the legend spawn cell of a seat.
func (b *Board) Spawn(player cards.PlayerID) *Cell {
	if int(player) >= len(spawnPoints) {
		return nil
	}
	return b.AtPos(spawnPoints[player])
}

// Occupant returns the card standing on c.
func (b *Board) Occupant(c *Cell) *cards.Card {
	if c == nil || !c.Occupied() {
		return nil
	}
	card, ok := b.arena.Get(c.occupant)
	if !ok {
		return nil
	}
	return card
}

// CellOf returns the cell a unit stands on, or nil when it is off the board.
func (b *Board) CellOf(card *cards.Card) *Cell {
	if card == nil || !card.IsUnit() || !card.OnBoard {
		return nil
	}
	c := b.AtPos(card.Pos)
	if c == nil || c.occupant != card.ID {
		return nil
	}
	return c
}

// Find locates the cell holding the card with id.
func (b *Board) Find(id cards.ID) *Cell {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if b.cells[y][x].occupant == id {
				return &b.cells[y][x]
			}
		}
	}
	return nil
}

// CanEnter reports whether c exists, is walkable and is empty.
func (b *Board) CanEnter(c *Cell) bool {
	return c != nil && c.Walkable() && !c.Occupied()
}

// Place puts a unit on an empty walkable cell.
func (b *Board) Place(card *cards.Card, c *Cell) bool {
	if card == nil || !card.IsUnit() || !b.CanEnter(c) {
		return false
	}
	c.occupant = card.ID
	card.Pos = c.Pos()
	card.OnBoard = true
	b.arena.Relocate(card.ID, cards.ZoneBoard)
	return true
}

// Remove clears c and returns the card that stood there. The caller decides
// which zone the card goes to next.
func (b *Board) Remove(c *Cell) *cards.Card {
	card := b.Occupant(c)
	if card == nil {
		return nil
	}
	c.occupant = ""
	card.OnBoard = false
	b.arena.Relocate(card.ID, cards.ZoneNone)
	return card
}

// Move relocates the occupant of from onto the empty cell to.
func (b *Board) Move(from, to *Cell) bool {
	card := b.Occupant(from)
	if card == nil || from == to || !b.CanEnter(to) {
		return false
	}
	from.occupant = ""
	to.occupant = card.ID
	card.Pos = to.Pos()
	return true
}
