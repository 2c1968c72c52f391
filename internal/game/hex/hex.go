// Package hex provides offset coordinates and the six neighbor directions of
// the duel board.
//
// The board uses "odd-q" offset coordinates: columns are vertical and every
// odd column is shifted half a cell down. Directions are expressed in a
// viewer's frame; a board that seats players at opposite edges mirrors
// positions with Mirror before applying them.
package hex

import "fmt"

// Direction is one of the six hex neighbor directions.
type Direction uint8

// Neighbor directions in clockwise order starting at the top.
const (
	Up Direction = iota
	TopRight
	BottomRight
	Down
	BottomLeft
	TopLeft
)

// Count is the number of hex directions.
const Count = 6

// Directions lists all directions in clockwise order.
var Directions = [Count]Direction{Up, TopRight, BottomRight, Down, BottomLeft, TopLeft}

var directionNames = map[Direction]string{
	Up:          "UP",
	TopRight:    "TOP_RIGHT",
	BottomRight: "BOTTOM_RIGHT",
	Down:        "DOWN",
	BottomLeft:  "BOTTOM_LEFT",
	TopLeft:     "TOP_LEFT",
}

// String returns the canonical upper-case direction name.
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (d *Direction) UnmarshalText(text []byte) error {
	for dir, name := range directionNames {
		if name == string(text) {
			*d = dir
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", text)
}

// Valid reports whether d is one of the six directions.
func (d Direction) Valid() bool {
	return d < Count
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	return (d + 3) % Count
}

// offsets[parity][direction] for odd-q layout; parity 0 = even column.
var offsets = [2][Count]Position{
	{
		Up:          {0, -1},
		TopRight:    {1, -1},
		BottomRight: {1, 0},
		Down:        {0, 1},
		BottomLeft:  {-1, 0},
		TopLeft:     {-1, -1},
	},
	{
		Up:          {0, -1},
		TopRight:    {1, 0},
		BottomRight: {1, 1},
		Down:        {0, 1},
		BottomLeft:  {-1, 1},
		TopLeft:     {-1, 0},
	},
}

// Position is a column/row coordinate on the board.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Neighbor returns the coordinate one step away in direction d. The result
// may be outside any particular board; callers clip.
func (p Position) Neighbor(d Direction) Position {
	if !d.Valid() {
		return p
	}
	off := offsets[p.X&1][d]
	return Position{X: p.X + off.X, Y: p.Y + off.Y}
}

// Mirror reflects p top to bottom on a grid with the given number of rows.
// Mirroring twice returns p.
func (p Position) Mirror(rows int) Position {
	return Position{X: p.X, Y: rows - 1 - p.Y}
}

// DirectionTo returns the direction from p to an adjacent q.
func (p Position) DirectionTo(q Position) (Direction, bool) {
	for _, d := range Directions {
		if p.Neighbor(d) == q {
			return d, true
		}
	}
	return 0, false
}

// IsAdjacent reports whether q is one of the six neighbors of p.
func (p Position) IsAdjacent(q Position) bool {
	_, ok := p.DirectionTo(q)
	return ok
}

// Distance returns the number of hex steps between p and q.
func (p Position) Distance(q Position) int {
	ax, ay, az := p.cube()
	bx, by, bz := q.cube()
	return max(abs(ax-bx), abs(ay-by), abs(az-bz))
}

func (p Position) cube() (int, int, int) {
	x := p.X
	z := p.Y - (p.X-(p.X&1))/2
	return x, -x - z, z
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
