// Package effects implements what card abilities do and binds them to
// triggers and target selectors.
package effects

import (
	"fmt"

	"github.com/magefree/hexduel-server-go/internal/game/board"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"go.uber.org/zap"
)

// Impl is the mutation an ability applies to its resolved targets.
type Impl interface {
	Apply(b *board.Board, eventCell *board.Cell, targets []*board.Cell)
	// Applicable gates Apply. The default requires the source card to exist
	// and, if it is a unit, to be alive.
	Applicable(b *board.Board, eventCell *board.Cell, targets []*board.Cell) bool
	Name() string
}

type implBase struct {
	Source cards.ID
	Owner  cards.PlayerID
}

func (i implBase) Applicable(b *board.Board, _ *board.Cell, _ []*board.Cell) bool {
	source, ok := b.Arena().Get(i.Source)
	if !ok {
		return false
	}
	return !source.IsUnit() || source.Alive()
}

// forEachOccupant calls fn for the occupant of every target cell.
func forEachOccupant(b *board.Board, targets []*board.Cell, fn func(*cards.Card)) {
	for _, cell := range targets {
		if card := b.Occupant(cell); card != nil {
			fn(card)
		}
	}
}

func signedName(value int, up, down string) string {
	if value >= 0 {
		return up
	}
	return down
}

// AttackModifier adds Value to attack, floored at zero.
type AttackModifier struct {
	implBase
	Value int
}

func (e *AttackModifier) Apply(b *board.Board, _ *board.Cell, targets []*board.Cell) {
	forEachOccupant(b, targets, func(c *cards.Card) { c.ModifyAttack(e.Value) })
}

func (e *AttackModifier) Name() string { return signedName(e.Value, "AttackBuff", "AttackDebuff") }

// HealthModifier heals for positive values and damages for negative ones.
type HealthModifier struct {
	implBase
	Value int
}

func (e *HealthModifier) Apply(b *board.Board, _ *board.Cell, targets []*board.Cell) {
	forEachOccupant(b, targets, func(c *cards.Card) {
		if e.Value > 0 {
			c.Heal(e.Value)
		} else if e.Value < 0 {
			c.TakeDamage(-e.Value)
		}
	})
}

func (e *HealthModifier) Name() string { return signedName(e.Value, "HealthBuff", "HealthDebuff") }

// SpeedModifier adds Value to speed, floored at one.
type SpeedModifier struct {
	implBase
	Value int
}

func (e *SpeedModifier) Apply(b *board.Board, _ *board.Cell, targets []*board.Cell) {
	forEachOccupant(b, targets, func(c *cards.Card) { c.ModifySpeed(e.Value) })
}

func (e *SpeedModifier) Name() string { return signedName(e.Value, "SpeedBuff", "SpeedDebuff") }

// RangeModifier adds Value to range, floored at one.
type RangeModifier struct {
	implBase
	Value int
}

func (e *RangeModifier) Apply(b *board.Board, _ *board.Cell, targets []*board.Cell) {
	forEachOccupant(b, targets, func(c *cards.Card) { c.ModifyRange(e.Value) })
}

func (e *RangeModifier) Name() string { return signedName(e.Value, "RangeBuff", "RangeDebuff") }

// CostModifier changes the cost of the cards standing on the targets.
type CostModifier struct {
	implBase
	Value int
}

func (e *CostModifier) Apply(b *board.Board, _ *board.Cell, targets []*board.Cell) {
	forEachOccupant(b, targets, func(c *cards.Card) { c.ModifyCost(e.Value) })
}

func (e *CostModifier) Name() string { return signedName(e.Value, "CostIncrease", "CostReduction") }

// Damage deals Amount damage to each target.
type Damage struct {
	implBase
	Amount int
}

func (e *Damage) Apply(b *board.Board, _ *board.Cell, targets []*board.Cell) {
	forEachOccupant(b, targets, func(c *cards.Card) { c.TakeDamage(e.Amount) })
}

func (e *Damage) Name() string { return "Damage" }

// Heal restores Amount health to each target.
type Heal struct {
	implBase
	Amount int
}

func (e *Heal) Apply(b *board.Board, _ *board.Cell, targets []*board.Cell) {
	forEachOccupant(b, targets, func(c *cards.Card) { c.Heal(e.Amount) })
}

func (e *Heal) Name() string { return "Heal" }

// Destroy reduces each target's health to zero.
type Destroy struct {
	implBase
}

func (e *Destroy) Apply(b *board.Board, _ *board.Cell, targets []*board.Cell) {
	forEachOccupant(b, targets, func(c *cards.Card) { c.TakeDamage(c.Health) })
}

func (e *Destroy) Name() string { return "Destroy" }

// DrawCards is a game-state effect. Drawing is not wired into the board
// pipeline, so applying it changes nothing.
type DrawCards struct {
	implBase
	Count int
}

func (e *DrawCards) Apply(*board.Board, *board.Cell, []*board.Cell) {}

func (e *DrawCards) Name() string { return "DrawCards" }

// AddMana is a game-state effect with no mana pool to act on; it is a no-op.
type AddMana struct {
	implBase
	Amount int
}

func (e *AddMana) Apply(*board.Board, *board.Cell, []*board.Cell) {}

func (e *AddMana) Name() string { return "AddMana" }

// ReduceHandCost would lower the cost of cards in hand. Hands are outside
// the board pipeline, so it is a no-op.
type ReduceHandCost struct {
	implBase
	Amount int
}

func (e *ReduceHandCost) Apply(*board.Board, *board.Cell, []*board.Cell) {}

func (e *ReduceHandCost) Name() string { return "ReduceHandCost" }

// Print logs a message when applied. Used for debugging card configs.
type Print struct {
	implBase
	Message string
	logger  *zap.Logger
}

func (e *Print) Apply(b *board.Board, eventCell *board.Cell, targets []*board.Cell) {
	if e.logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("source", string(e.Source)),
		zap.String("message", e.Message),
		zap.Int("targets", len(targets)),
	}
	if eventCell != nil {
		fields = append(fields, zap.String("event_cell", fmt.Sprintf("(%d,%d)", eventCell.X, eventCell.Y)))
	}
	e.logger.Debug("print effect", fields...)
}

func (e *Print) Name() string { return "Print" }
