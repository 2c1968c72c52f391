package targeting

import (
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/hex"
)

// Filter narrows Adjacent and Directional selections.
type Filter uint8

const (
	FilterAll Filter = iota
	FilterAllies
	// FilterEnemies excludes legends: they are immune to generic enemy effects.
	FilterEnemies
	FilterNonLegends
)

// Accepts reports whether occupant passes the filter for a selector owned by
// owner. Empty cells never pass.
func (f Filter) Accepts(owner cards.PlayerID, occupant *cards.Card) bool {
	if occupant == nil {
		return false
	}
	switch f {
	case FilterAll:
		return true
	case FilterAllies:
		return occupant.Owner == owner
	case FilterEnemies:
		return occupant.Owner != owner && !occupant.IsLegend()
	case FilterNonLegends:
		return !occupant.IsLegend()
	}
	return false
}

// Scope narrows AllCards selections.
type Scope uint8

const (
	ScopeAllies Scope = iota
	ScopeEnemies
	ScopeUnits
	ScopeCards
)

// Accepts reports whether occupant is in scope.
func (s Scope) Accepts(owner cards.PlayerID, occupant *cards.Card) bool {
	if occupant == nil {
		return false
	}
	switch s {
	case ScopeAllies:
		return occupant.Owner == owner
	case ScopeEnemies:
		return occupant.Owner != owner && !occupant.IsLegend()
	case ScopeUnits:
		return occupant.Kind == cards.KindUnit
	case ScopeCards:
		return true
	}
	return false
}

// FilterFor converts a configured target filter.
func FilterFor(f cards.TargetFilter) Filter {
	switch f {
	case cards.FilterAlliesOnly:
		return FilterAllies
	case cards.FilterEnemiesOnly:
		return FilterEnemies
	case cards.FilterNonLeaders:
		return FilterNonLegends
	default:
		return FilterAll
	}
}

// FromSpec builds the selector an ability asks for. attack_target and
// attacker have no board meaning yet and fall back to Self. Directional
// uses the first configured direction, defaulting to Up.
func FromSpec(spec cards.AbilitySpec, source cards.ID, owner cards.PlayerID) Selector {
	filter := FilterFor(spec.Filter)
	switch spec.Target {
	case cards.TargetAdjacent:
		return NewAdjacent(source, owner, filter)
	case cards.TargetAllAllies:
		return NewAllCards(source, owner, ScopeAllies)
	case cards.TargetAllEnemies:
		return NewAllCards(source, owner, ScopeEnemies)
	case cards.TargetAllUnits:
		return NewAllCards(source, owner, ScopeUnits)
	case cards.TargetAllCards:
		return NewAllCards(source, owner, ScopeCards)
	case cards.TargetSpecificPosition:
		return NewSpecificPosition(source, owner, spec.X, spec.Y)
	case cards.TargetDirectional:
		dir := hex.Up
		if len(spec.Directions) > 0 {
			dir = spec.Directions[0]
		}
		return NewDirectional(source, owner, dir, filter)
	case cards.TargetGameState:
		return NewGameState(source, owner)
	default:
		return NewSelf(source, owner)
	}
}
