// Package cards defines card records, their abilities, and the arena that
// owns every card of a match.
package cards

import (
	"fmt"

	"github.com/magefree/hexduel-server-go/internal/game/hex"
)

// PlayerID identifies a seat in the match (0 or 1).
type PlayerID uint8

// NoPlayer marks an absent owner in snapshots.
const NoPlayer PlayerID = 255

// ID is a stable card instance identifier, unique within a match.
type ID string

// Kind is the card variant.
type Kind uint8

// Card variants. Legends are units with extra rules attached.
const (
	KindUnit Kind = iota
	KindLegend
	KindSpell
)

var kindNames = map[Kind]string{
	KindUnit:   "Unit",
	KindLegend: "Legend",
	KindSpell:  "Spell",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Card is a single card instance. Units and Legends carry combat stats and a
// board position; Spells only carry abilities.
type Card struct {
	ID          ID
	DefID       uint32
	Name        string
	Description string
	Cost        int
	Kind        Kind
	Owner       PlayerID

	Attack int
	Health int
	Speed  int
	Range  int

	Pos     hex.Position
	OnBoard bool

	Abilities []AbilitySpec
}

// IsUnit reports whether the card has board presence (Unit or Legend).
func (c *Card) IsUnit() bool {
	return c.Kind == KindUnit || c.Kind == KindLegend
}

// IsLegend reports whether the card is a Legend.
func (c *Card) IsLegend() bool {
	return c.Kind == KindLegend
}

// IsSpell reports whether the card is a Spell.
func (c *Card) IsSpell() bool {
	return c.Kind == KindSpell
}

// Alive is true for unit-like cards with positive health.
func (c *Card) Alive() bool {
	return c.IsUnit() && c.Health > 0
}

// ModifyAttack adds delta to attack, never dropping below zero.
func (c *Card) ModifyAttack(delta int) {
	c.Attack = max(0, c.Attack+delta)
}

// ModifySpeed adds delta to speed, never dropping below one.
func (c *Card) ModifySpeed(delta int) {
	c.Speed = max(1, c.Speed+delta)
}

// ModifyRange adds delta to range, never dropping below one.
func (c *Card) ModifyRange(delta int) {
	c.Range = max(1, c.Range+delta)
}

// ModifyCost adds delta to cost, never dropping below zero.
func (c *Card) ModifyCost(delta int) {
	c.Cost = max(0, c.Cost+delta)
}

// TakeDamage lowers health by amount, stopping at zero.
func (c *Card) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	c.Health = max(0, c.Health-amount)
}

// Heal raises health by amount. There is no ceiling.
func (c *Card) Heal(amount int) {
	if amount <= 0 {
		return
	}
	c.Health += amount
}

func (c *Card) String() string {
	if c.IsUnit() {
		return fmt.Sprintf("%s[%s %d/%d p%d]", c.Name, c.Kind, c.Attack, c.Health, c.Owner)
	}
	return fmt.Sprintf("%s[%s p%d]", c.Name, c.Kind, c.Owner)
}

// Template is an owner-less card definition as produced by the loader.
type Template struct {
	DefID       uint32
	Name        string
	Description string
	Cost        int
	Kind        Kind
	Attack      int
	Health      int
	Speed       int
	Range       int
	Abilities   []AbilitySpec
}

// Instantiate creates a card owned by owner from the template.
func (t Template) Instantiate(id ID, owner PlayerID) *Card {
	c := &Card{
		ID:          id,
		DefID:       t.DefID,
		Name:        t.Name,
		Description: t.Description,
		Cost:        t.Cost,
		Kind:        t.Kind,
		Owner:       owner,
		Abilities:   append([]AbilitySpec(nil), t.Abilities...),
	}
	if c.IsUnit() {
		c.Attack = t.Attack
		c.Health = t.Health
		c.Speed = t.Speed
		c.Range = t.Range
		if c.Speed <= 0 {
			c.Speed = 1
		}
		if c.Range <= 0 {
			c.Range = 1
		}
	}
	return c
}

// EmergencyLegend is the minimal legend spawned for a deck that has none.
func EmergencyLegend(owner PlayerID) Template {
	return Template{
		DefID:  999 + uint32(owner),
		Name:   fmt.Sprintf("Basic Legend %d", owner),
		Kind:   KindLegend,
		Attack: 3,
		Health: 5,
		Speed:  1,
		Range:  1,
	}
}
