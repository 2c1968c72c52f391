package rules

import (
	"testing"

	"github.com/magefree/hexduel-server-go/internal/game/board"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type fakeEffect struct {
	name    string
	source  cards.ID
	active  bool
	applied int
	log     *[]string
}

func (f *fakeEffect) Check(*board.Board, *board.Cell) bool { return f.active }

func (f *fakeEffect) Apply(*board.Board, *board.Cell) {
	f.applied++
	if f.log != nil {
		*f.log = append(*f.log, f.name)
	}
}

func (f *fakeEffect) Source() cards.ID { return f.source }
func (f *fakeEffect) Name() string { return f.name }

func TestEffectStackAddAndCount(t *testing.T) {
	s := NewEffectStack(zaptest.NewLogger(t))

	id1 := s.AddDefault(&fakeEffect{name: "a"})
	id2 := s.Add(&fakeEffect{name: "b"}, CategoryOnEndOfTurn)
	assert.Equal(t, uint32(1), id1)
	assert.Equal(t, uint32(2), id2)
	assert.Equal(t, 1, s.Count(CategoryOnPlay))
	assert.Equal(t, 1, s.Count(CategoryOnEndOfTurn))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, uint32(0), s.Add(nil, CategoryOnPlay))

	assert.True(t, s.Remove(id1))
	assert.False(t, s.Remove(id1))
	assert.Equal(t, 0, s.Count(CategoryOnPlay))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint32(1), s.AddDefault(&fakeEffect{name: "c"}))
}

func TestEffectStackProcessesInOrderAndPrunes(t *testing.T) {
	s := NewEffectStack(zaptest.NewLogger(t))
	b := board.New(cards.NewArena())
	var order []string

	first := &fakeEffect{name: "first", active: true, log: &order}
	dead := &fakeEffect{name: "dead", active: false, log: &order}
	last := &fakeEffect{name: "last", active: true, log: &order}
	s.Add(first, CategoryOnEndOfTurn)
	s.Add(dead, CategoryOnEndOfTurn)
	s.Add(last, CategoryOnEndOfTurn)
	s.Add(&fakeEffect{name: "other", active: true, log: &order}, CategoryOnStartOfTurn)

	applied := s.ProcessEndOfTurn(b)
	assert.Equal(t, 2, applied)
	assert.Equal(t, []string{"first", "last"}, order)
	assert.Equal(t, 2, s.Count(CategoryOnEndOfTurn), "failed check is pruned")
	assert.Equal(t, 0, dead.applied)

	order = nil
	s.ProcessEndOfTurn(b)
	assert.Equal(t, []string{"first", "last"}, order, "survivors keep their order")
}

func TestEffectStackRemoveBySource(t *testing.T) {
	s := NewEffectStack(nil)
	s.Add(&fakeEffect{name: "a", source: "c1"}, CategoryOnPlay)
	s.Add(&fakeEffect{name: "b", source: "c1"}, CategoryOnEndOfTurn)
	s.Add(&fakeEffect{name: "c", source: "c2"}, CategoryOnEndOfTurn)

	assert.Equal(t, 2, s.RemoveBySource("c1"))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.RemoveBySource("c1"))
}

func TestEffectStackRemoveFromOneCategory(t *testing.T) {
	s := NewEffectStack(nil)
	s.Add(&fakeEffect{name: "a", source: "c1"}, CategoryOnPlay)
	s.Add(&fakeEffect{name: "b", source: "c1"}, CategoryOnEndOfTurn)
	s.Add(&fakeEffect{name: "c", source: "c2"}, CategoryOnPlay)

	assert.Equal(t, 1, s.RemoveFrom(CategoryOnPlay, "c1"))
	assert.Equal(t, 1, s.Count(CategoryOnPlay))
	assert.Equal(t, 1, s.Count(CategoryOnEndOfTurn))
	assert.Equal(t, 0, s.RemoveFrom(categoryCount, "c1"))
}

func TestCategoryNames(t *testing.T) {
	assert.Equal(t, "ON_POSITION_EXIT", CategoryOnPositionExit.String())
	assert.Equal(t, "CAST_EFFECT", CategoryCastEffect.String())
	assert.False(t, categoryCount.Valid())
	assert.Equal(t, 0, NewEffectStack(nil).Process(categoryCount, nil, nil))
}
