package rules

import (
	"fmt"
	"strings"

	"github.com/magefree/hexduel-server-go/internal/game/board"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/hex"
)

// Trigger answers whether the event an ability waits for has happened for its
// source card, given the current board. eventCell is the cell the dispatching
// event concerns and may be nil.
type Trigger interface {
	ShouldActivate(b *board.Board, eventCell *board.Cell) bool
	Name() string
}

// EventTrigger is a stateless trigger. It always fires: the effect stack only
// polls it for the event category it was registered under.
type EventTrigger struct {
	name   string
	Source cards.ID
	Owner  cards.PlayerID
}

// NewEventTrigger creates a stateless trigger labelled name.
func NewEventTrigger(name string, source cards.ID, owner cards.PlayerID) *EventTrigger {
	return &EventTrigger{name: name, Source: source, Owner: owner}
}

// NewOnPlayTrigger fires when the source card is played.
func NewOnPlayTrigger(source cards.ID, owner cards.PlayerID) *EventTrigger {
	return NewEventTrigger("OnPlay", source, owner)
}

// NewOnCastTrigger fires when the source spell is cast.
func NewOnCastTrigger(source cards.ID, owner cards.PlayerID) *EventTrigger {
	return NewEventTrigger("OnCast", source, owner)
}

// NewOnStartTurnTrigger fires at the start of every turn.
func NewOnStartTurnTrigger(source cards.ID, owner cards.PlayerID) *EventTrigger {
	return NewEventTrigger("OnStartTurn", source, owner)
}

// NewOnEndTurnTrigger fires at the end of every turn.
func NewOnEndTurnTrigger(source cards.ID, owner cards.PlayerID) *EventTrigger {
	return NewEventTrigger("OnEndTurn", source, owner)
}

// ShouldActivate always returns true.
func (t *EventTrigger) ShouldActivate(*board.Board, *board.Cell) bool {
	return true
}

// Name returns the trigger label.
func (t *EventTrigger) Name() string {
	return t.name
}

// presence decides whether the occupant of a watched cell counts.
type presence func(source, occupant *cards.Card) bool

func isEnemy(source, occupant *cards.Card) bool {
	return occupant != nil && occupant.Owner != source.Owner
}

func isAlly(source, occupant *cards.Card) bool {
	return occupant != nil && occupant.ID != source.ID && occupant.Owner == source.Owner
}

// edge selects which transition of the watched condition fires the trigger.
type edge uint8

const (
	risingEdge edge = iota
	fallingEdge
)

// WatchTrigger watches the neighbor cells of its source in a fixed set of
// directions and fires on a transition of "a matching card stands there".
// It keeps one flag per direction so a condition that persists does not
// re-fire on every poll.
type WatchTrigger struct {
	name       string
	Source     cards.ID
	Owner      cards.PlayerID
	directions []hex.Direction
	present    [hex.Count]bool
	matches    presence
	fireOn     edge
}

// NewOnEnemyEnterTrigger fires when an enemy first occupies a watched neighbor.
func NewOnEnemyEnterTrigger(source cards.ID, owner cards.PlayerID, dirs []hex.Direction) *WatchTrigger {
	return newWatchTrigger("OnEnemyEnter", source, owner, dirs, isEnemy, risingEdge)
}

// NewOnEnemyExitTrigger fires when an enemy leaves a watched neighbor.
func NewOnEnemyExitTrigger(source cards.ID, owner cards.PlayerID, dirs []hex.Direction) *WatchTrigger {
	return newWatchTrigger("OnEnemyExit", source, owner, dirs, isEnemy, fallingEdge)
}

// NewOnAllyEnterTrigger fires when an ally first occupies a watched neighbor.
func NewOnAllyEnterTrigger(source cards.ID, owner cards.PlayerID, dirs []hex.Direction) *WatchTrigger {
	return newWatchTrigger("OnAllyEnter", source, owner, dirs, isAlly, risingEdge)
}

func newWatchTrigger(name string, source cards.ID, owner cards.PlayerID, dirs []hex.Direction, match presence, fireOn edge) *WatchTrigger {
	if len(dirs) == 0 {
		dirs = hex.Directions[:]
	}
	return &WatchTrigger{
		name:       name,
		Source:     source,
		Owner:      owner,
		directions: append([]hex.Direction(nil), dirs...),
		matches:    match,
		fireOn:     fireOn,
	}
}

// ShouldActivate updates every watched direction and reports whether any of
// them crossed the firing edge. All directions are evaluated on each call.
func (t *WatchTrigger) ShouldActivate(b *board.Board, _ *board.Cell) bool {
	source, ok := b.Arena().Get(t.Source)
	if !ok {
		return false
	}
	origin := b.CellOf(source)
	if origin == nil {
		return false
	}

	fired := false
	for _, d := range t.directions {
		if !d.Valid() {
			continue
		}
		watched := b.NeighborFor(source.Owner, d, origin)
		now := watched != nil && t.matches(source, b.Occupant(watched))
		before := t.present[d]
		t.present[d] = now

		switch t.fireOn {
		case risingEdge:
			fired = fired || (now && !before)
		case fallingEdge:
			fired = fired || (!now && before)
		}
	}
	return fired
}

// Watching reports the remembered state of one direction.
func (t *WatchTrigger) Watching(d hex.Direction) bool {
	if !d.Valid() {
		return false
	}
	return t.present[d]
}

// Directions returns the watched directions.
func (t *WatchTrigger) Directions() []hex.Direction {
	return append([]hex.Direction(nil), t.directions...)
}

// Name returns the trigger label including the watched directions.
func (t *WatchTrigger) Name() string {
	names := make([]string, len(t.directions))
	for i, d := range t.directions {
		names[i] = d.String()
	}
	return fmt.Sprintf("%s(%s)", t.name, strings.Join(names, ","))
}
