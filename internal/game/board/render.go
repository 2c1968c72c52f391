package board

import (
	"fmt"
	"strings"
)

// Render draws the board as text, one row per line.
//
//	##  no floor
//	..  walkable
//	SS  empty spawn
//	U0  unit owned by seat 0, L1 legend of seat 1
func (b *Board) Render() string {
	var sb strings.Builder
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			c := &b.cells[y][x]
			sb.WriteByte(' ')
			sb.WriteString(b.glyph(c))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) glyph(c *Cell) string {
	if card := b.Occupant(c); card != nil {
		return fmt.Sprintf("%c%d", card.Kind.String()[0], card.Owner)
	}
	switch c.Floor {
	case FloorSpawn:
		return "SS"
	case FloorWalkable:
		return ".."
	default:
		return "##"
	}
}
