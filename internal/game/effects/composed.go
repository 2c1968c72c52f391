package effects

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/magefree/hexduel-server-go/internal/game/board"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/rules"
	"github.com/magefree/hexduel-server-go/internal/game/targeting"
)

// Duration is advisory: it is carried from card config but no timer
// enforces it.
type Duration int

const (
	DurationPersistent Duration = -1
	DurationInstant    Duration = 0
)

func (d Duration) String() string {
	switch {
	case d < 0:
		return "PERSISTENT"
	case d == 0:
		return "INSTANT"
	default:
		return fmt.Sprintf("%d_TURNS", int(d))
	}
}

// Composed is a card ability: one Impl fired by any of its triggers against
// the cells its selector resolves.
type Composed struct {
	id       string
	impl     Impl
	triggers []rules.Trigger
	selector targeting.Selector
	source   cards.ID
	owner    cards.PlayerID
	category rules.Category
	duration Duration
}

// NewComposed binds impl to triggers and selector. The id is derived from
// the source and slot so rebuilding the same card yields the same ids.
func NewComposed(impl Impl, triggers []rules.Trigger, selector targeting.Selector, source cards.ID, owner cards.PlayerID, slot int) *Composed {
	seed := fmt.Sprintf("%s|%d|%s|%s", source, slot, impl.Name(), selector.Name())
	return &Composed{
		id:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String(),
		impl:     impl,
		triggers: append([]rules.Trigger(nil), triggers...),
		selector: selector,
		source:   source,
		owner:    owner,
	}
}

// Check polls every trigger, then resolves targets and asks the impl whether
// it applies. All triggers are polled so stateful ones see each tick once.
func (c *Composed) Check(b *board.Board, eventCell *board.Cell) bool {
	fired := false
	for _, t := range c.triggers {
		if t.ShouldActivate(b, eventCell) {
			fired = true
		}
	}
	if !fired {
		return false
	}
	targets := c.selector.Select(b, eventCell)
	return c.impl.Applicable(b, eventCell, targets)
}

// Apply resolves targets and applies the impl to them.
func (c *Composed) Apply(b *board.Board, eventCell *board.Cell) {
	c.impl.Apply(b, eventCell, c.selector.Select(b, eventCell))
}

func (c *Composed) ID() string                   { return c.id }
func (c *Composed) Source() cards.ID             { return c.source }
func (c *Composed) Owner() cards.PlayerID        { return c.owner }
func (c *Composed) Name() string                 { return c.impl.Name() }
func (c *Composed) Impl() Impl                   { return c.impl }
func (c *Composed) Selector() targeting.Selector { return c.selector }
func (c *Composed) Category() rules.Category     { return c.category }
func (c *Composed) Duration() Duration           { return c.duration }

// Triggers returns the bound triggers.
func (c *Composed) Triggers() []rules.Trigger {
	return append([]rules.Trigger(nil), c.triggers...)
}

func (c *Composed) String() string {
	names := make([]string, len(c.triggers))
	for i, t := range c.triggers {
		names[i] = t.Name()
	}
	return fmt.Sprintf("Composed[impl=%s targets=%s triggers=%s]",
		c.impl.Name(), c.selector.Name(), strings.Join(names, " "))
}
