package hex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOppositeDirections(t *testing.T) {
	assert.Equal(t, Down, Up.Opposite())
	assert.Equal(t, BottomLeft, TopRight.Opposite())
	assert.Equal(t, TopLeft, BottomRight.Opposite())
	assert.Equal(t, Up, Down.Opposite())
}

func TestNeighborIsSymmetric(t *testing.T) {
	for x := 0; x < 6; x++ {
		for y := 0; y < 6; y++ {
			p := Position{X: x, Y: y}
			for _, d := range Directions {
				n := p.Neighbor(d)
				assert.Equal(t, p, n.Neighbor(d.Opposite()), "from %v going %s", p, d)
				assert.Equal(t, 1, p.Distance(n))
			}
		}
	}
}

func TestNeighborOffsetsByColumnParity(t *testing.T) {
	even := Position{X: 2, Y: 3}
	assert.Equal(t, Position{X: 3, Y: 2}, even.Neighbor(TopRight))
	assert.Equal(t, Position{X: 3, Y: 3}, even.Neighbor(BottomRight))

	odd := Position{X: 3, Y: 3}
	assert.Equal(t, Position{X: 4, Y: 3}, odd.Neighbor(TopRight))
	assert.Equal(t, Position{X: 4, Y: 4}, odd.Neighbor(BottomRight))
}

func TestMirror(t *testing.T) {
	p := Position{X: 2, Y: 0}
	assert.Equal(t, Position{X: 2, Y: 6}, p.Mirror(7))
	assert.Equal(t, p, p.Mirror(7).Mirror(7))
	assert.Equal(t, Position{X: 1, Y: 3}, Position{X: 1, Y: 3}.Mirror(7))
}

func TestDirectionTo(t *testing.T) {
	p := Position{X: 1, Y: 1}
	d, ok := p.DirectionTo(Position{X: 1, Y: 0})
	assert.True(t, ok)
	assert.Equal(t, Up, d)

	_, ok = p.DirectionTo(Position{X: 3, Y: 3})
	assert.False(t, ok)
	assert.False(t, p.IsAdjacent(p))
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, Position{X: 2, Y: 2}.Distance(Position{X: 2, Y: 2}))
	assert.Equal(t, 6, Position{X: 2, Y: 0}.Distance(Position{X: 2, Y: 6}))
	assert.Equal(t, "TOP_LEFT", TopLeft.String())
	assert.Equal(t, "UNKNOWN", Direction(9).String())
}

func TestDirectionText(t *testing.T) {
	for _, d := range Directions {
		text, err := d.MarshalText()
		assert.NoError(t, err)
		var back Direction
		assert.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, d, back)
	}
	_, err := Direction(9).MarshalText()
	assert.Error(t, err)
	var d Direction
	assert.Error(t, d.UnmarshalText([]byte("SIDEWAYS")))
}
