// Package cardload reads card and deck definitions from JSON.
package cardload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"go.uber.org/zap"
)

// EffectJSON is one ability as written in a deck file.
type EffectJSON struct {
	Type       string   `json:"type"`
	TargetType string   `json:"target_type"`
	Filter     string   `json:"filter"`
	Trigger    string   `json:"trigger"`
	Value      int      `json:"value"`
	Duration   int      `json:"duration"`
	Attribute  string   `json:"attribute,omitempty"`
	Directions []string `json:"directions,omitempty"`
	X          *int     `json:"x,omitempty"`
	Y          *int     `json:"y,omitempty"`
}

// CardJSON is one card as written in a deck file.
type CardJSON struct {
	ID          uint32       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Cost        int          `json:"cost"`
	Type        string       `json:"type"`
	Attack      int          `json:"attack"`
	Health      int          `json:"health"`
	Speed       *int         `json:"speed,omitempty"`
	Range       *int         `json:"range,omitempty"`
	Effects     []EffectJSON `json:"effects,omitempty"`
}

// DeckJSON is a named list of cards.
type DeckJSON struct {
	Name  string     `json:"name"`
	Cards []CardJSON `json:"cards"`
}

// Deck is a parsed deck ready to hand to a match.
type Deck struct {
	Name  string
	Cards []cards.Template
}

// Legends counts the legend cards in the deck.
func (d Deck) Legends() int {
	n := 0
	for _, c := range d.Cards {
		if c.Kind == cards.KindLegend {
			n++
		}
	}
	return n
}

// Loader turns deck JSON into card templates. Unknown card types and
// unknown effect types are skipped with a warning.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFile reads a deck file.
func (l *Loader) LoadFile(path string) ([]Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file %s: %w", path, err)
	}
	decks, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("deck file %s: %w", path, err)
	}
	l.logger.Info("loaded decks", zap.String("path", path), zap.Int("decks", len(decks)))
	return decks, nil
}

// Parse accepts {"decks": [...]}, a bare array of decks, or a bare array of
// cards (read as one deck named "default").
func (l *Loader) Parse(data []byte) ([]Deck, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty deck file")
	}

	var raw []DeckJSON
	switch data[0] {
	case '{':
		var root struct {
			Decks []DeckJSON `json:"decks"`
		}
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("parse decks: %w", err)
		}
		if root.Decks == nil {
			return nil, fmt.Errorf(`expected a "decks" array`)
		}
		raw = root.Decks
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parse decks: %w", err)
		}
		var err error
		raw, err = decodeArray(items)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("expected a JSON array of decks or an object with a decks property")
	}

	decks := make([]Deck, 0, len(raw))
	for _, d := range raw {
		decks = append(decks, l.BuildDeck(d))
	}
	return decks, nil
}

func decodeArray(items []json.RawMessage) ([]DeckJSON, error) {
	if len(items) == 0 {
		return nil, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(items[0], &probe); err != nil {
		return nil, fmt.Errorf("parse decks: %w", err)
	}
	if _, isDeck := probe["cards"]; isDeck {
		out := make([]DeckJSON, len(items))
		for i, item := range items {
			if err := json.Unmarshal(item, &out[i]); err != nil {
				return nil, fmt.Errorf("parse deck %d: %w", i, err)
			}
		}
		return out, nil
	}
	deck := DeckJSON{Name: "default", Cards: make([]CardJSON, len(items))}
	for i, item := range items {
		if err := json.Unmarshal(item, &deck.Cards[i]); err != nil {
			return nil, fmt.Errorf("parse card %d: %w", i, err)
		}
	}
	return []DeckJSON{deck}, nil
}

// BuildDeck converts every recognised card of d.
func (l *Loader) BuildDeck(d DeckJSON) Deck {
	deck := Deck{Name: d.Name, Cards: make([]cards.Template, 0, len(d.Cards))}
	for _, c := range d.Cards {
		tmpl, ok := l.BuildCard(c)
		if !ok {
			continue
		}
		deck.Cards = append(deck.Cards, tmpl)
	}
	if deck.Legends() == 0 {
		l.logger.Warn("deck has no legend", zap.String("deck", d.Name))
	}
	return deck
}

// BuildCard converts one card. Units and legends default speed and range to
// 1; spells carry no stats.
func (l *Loader) BuildCard(c CardJSON) (cards.Template, bool) {
	kind, ok := ParseKind(c.Type)
	if !ok {
		l.logger.Warn("skipping card with unknown type",
			zap.String("card", c.Name),
			zap.String("type", c.Type),
		)
		return cards.Template{}, false
	}

	tmpl := cards.Template{
		DefID:       c.ID,
		Name:        c.Name,
		Description: c.Description,
		Cost:        c.Cost,
		Kind:        kind,
	}
	if kind != cards.KindSpell {
		tmpl.Attack = c.Attack
		tmpl.Health = c.Health
		tmpl.Speed, tmpl.Range = 1, 1
		if c.Speed != nil {
			tmpl.Speed = *c.Speed
		}
		if c.Range != nil {
			tmpl.Range = *c.Range
		}
	}
	for _, e := range c.Effects {
		spec, ok := l.BuildAbility(e)
		if !ok {
			l.logger.Warn("skipping unknown effect",
				zap.String("card", c.Name),
				zap.String("effect", e.Type),
			)
			continue
		}
		tmpl.Abilities = append(tmpl.Abilities, spec)
	}
	return tmpl, true
}

// BuildAbility converts one effect. Only the effect type is required to be
// known: an unknown target becomes self, an unknown filter any, and an
// unknown trigger on_play.
func (l *Loader) BuildAbility(e EffectJSON) (cards.AbilitySpec, bool) {
	effect, legacyAttr, ok := ParseEffect(e.Type)
	if !ok {
		return cards.AbilitySpec{}, false
	}
	spec := cards.AbilitySpec{
		Effect:    effect,
		Target:    cards.TargetSelf,
		Filter:    cards.FilterAny,
		Trigger:   cards.TriggerOnPlay,
		Value:     e.Value,
		Duration:  e.Duration,
		Attribute: legacyAttr,
	}
	if t, ok := ParseTarget(e.TargetType); ok {
		spec.Target = t
	} else if e.TargetType != "" {
		l.logger.Debug("unknown target type, using self", zap.String("target_type", e.TargetType))
	}
	if f, ok := ParseFilter(e.Filter); ok {
		spec.Filter = f
	}
	if t, ok := ParseTrigger(e.Trigger); ok {
		spec.Trigger = t
	} else if e.Trigger != "" {
		l.logger.Debug("unknown trigger, using on_play", zap.String("trigger", e.Trigger))
	}
	if a, ok := ParseAttribute(e.Attribute); ok {
		spec.Attribute = a
	}
	if spec.Effect == cards.EffectAttributeModifier && spec.Attribute == "" {
		spec.Attribute = cards.AttributeAttack
	}
	for _, name := range e.Directions {
		if d, ok := ParseDirection(name); ok {
			spec.Directions = append(spec.Directions, d)
		}
	}
	if e.X != nil {
		spec.X = *e.X
	}
	if e.Y != nil {
		spec.Y = *e.Y
	}
	return spec, true
}
