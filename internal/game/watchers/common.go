package watchers

import (
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/rules"
)

// CardsPlayedWatcher counts units played and spells cast per player.
type CardsPlayedWatcher struct {
	*rules.BaseWatcher
	units  map[cards.PlayerID]int
	spells map[cards.PlayerID]int
}

// NewCardsPlayedWatcher creates a match-scoped cards played watcher.
func NewCardsPlayedWatcher() *CardsPlayedWatcher {
	return &CardsPlayedWatcher{
		BaseWatcher: rules.NewBaseWatcher("CardsPlayedWatcher", rules.WatcherScopeMatch),
		units:       make(map[cards.PlayerID]int),
		spells:      make(map[cards.PlayerID]int),
	}
}

// Watch implements the Watcher interface.
func (w *CardsPlayedWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventUnitPlayed:
		w.units[event.Player]++
	case rules.EventSpellCast:
		w.spells[event.Player]++
	default:
		return
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsPlayedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.units = make(map[cards.PlayerID]int)
	w.spells = make(map[cards.PlayerID]int)
}

// UnitsPlayed returns how many units a player put on the board.
func (w *CardsPlayedWatcher) UnitsPlayed(player cards.PlayerID) int {
	return w.units[player]
}

// SpellsCast returns how many spells a player cast.
func (w *CardsPlayedWatcher) SpellsCast(player cards.PlayerID) int {
	return w.spells[player]
}

// CardsDestroyedWatcher counts destroyed cards by owner and records lost legends.
type CardsDestroyedWatcher struct {
	*rules.BaseWatcher
	destroyed   map[cards.PlayerID]int
	legendsLost map[cards.PlayerID]bool
}

// NewCardsDestroyedWatcher creates a match-scoped destruction watcher.
func NewCardsDestroyedWatcher() *CardsDestroyedWatcher {
	return &CardsDestroyedWatcher{
		BaseWatcher: rules.NewBaseWatcher("CardsDestroyedWatcher", rules.WatcherScopeMatch),
		destroyed:   make(map[cards.PlayerID]int),
		legendsLost: make(map[cards.PlayerID]bool),
	}
}

// Watch implements the Watcher interface. Event.Player is the owner of the
// destroyed card; Data is its kind.
func (w *CardsDestroyedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardDestroyed {
		return
	}
	w.destroyed[event.Player]++
	if event.Data == cards.KindLegend.String() {
		w.legendsLost[event.Player] = true
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsDestroyedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.destroyed = make(map[cards.PlayerID]int)
	w.legendsLost = make(map[cards.PlayerID]bool)
}

// Destroyed returns how many of a player's cards were destroyed.
func (w *CardsDestroyedWatcher) Destroyed(owner cards.PlayerID) int {
	return w.destroyed[owner]
}

// LegendLost reports whether a player's legend was destroyed.
func (w *CardsDestroyedWatcher) LegendLost(owner cards.PlayerID) bool {
	return w.legendsLost[owner]
}

// TurnActionsWatcher counts the actions taken in the current turn. It is
// reset by the registry whenever a turn ends.
type TurnActionsWatcher struct {
	*rules.BaseWatcher
	actions map[cards.PlayerID]int
}

// NewTurnActionsWatcher creates a turn-scoped action counter.
func NewTurnActionsWatcher() *TurnActionsWatcher {
	return &TurnActionsWatcher{
		BaseWatcher: rules.NewBaseWatcher("TurnActionsWatcher", rules.WatcherScopeTurn),
		actions:     make(map[cards.PlayerID]int),
	}
}

// Watch implements the Watcher interface.
func (w *TurnActionsWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventUnitPlayed, rules.EventSpellCast, rules.EventUnitMoved, rules.EventUnitAttacked:
		w.actions[event.Player]++
		w.SetCondition(true)
	}
}

// Reset clears the watcher's state.
func (w *TurnActionsWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.actions = make(map[cards.PlayerID]int)
}

// Actions returns how many actions a player took this turn.
func (w *TurnActionsWatcher) Actions(player cards.PlayerID) int {
	return w.actions[player]
}

// Set holds the standard match watchers.
type Set struct {
	Played      *CardsPlayedWatcher
	Destroyed   *CardsDestroyedWatcher
	TurnActions *TurnActionsWatcher
}

// RegisterDefault adds the standard match watchers to registry and returns
// them for reading.
func RegisterDefault(registry *rules.WatcherRegistry) Set {
	set := Set{
		Played:      NewCardsPlayedWatcher(),
		Destroyed:   NewCardsDestroyedWatcher(),
		TurnActions: NewTurnActionsWatcher(),
	}
	registry.AddWatcher(set.Played)
	registry.AddWatcher(set.Destroyed)
	registry.AddWatcher(set.TurnActions)
	return set
}
