package rules

import (
	"sync"
	"time"

	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/hex"
)

// EventType indicates what happened in a match.
type EventType string

const (
	EventMatchStarted    EventType = "MATCH_STARTED"
	EventLegendPlaced    EventType = "LEGEND_PLACED"
	EventCardDrawn       EventType = "CARD_DRAWN"
	EventDeckRecycled    EventType = "DECK_RECYCLED"
	EventUnitPlayed      EventType = "UNIT_PLAYED"
	EventSpellCast       EventType = "SPELL_CAST"
	EventUnitMoved       EventType = "UNIT_MOVED"
	EventUnitAttacked    EventType = "UNIT_ATTACKED"
	EventCardDestroyed   EventType = "CARD_DESTROYED"
	EventEffectsResolved EventType = "EFFECTS_RESOLVED"
	EventTurnEnded       EventType = "TURN_ENDED"
	EventTurnStarted     EventType = "TURN_STARTED"
	EventGameOver        EventType = "GAME_OVER"
)

// Event is a state change other subsystems may react to.
type Event struct {
	Type      EventType
	Player    cards.PlayerID
	CardID    cards.ID
	CardName  string
	TargetID  cards.ID
	From      hex.Position
	To        hex.Position
	Amount    int
	Turn      int
	Data      string
	Timestamp time.Time
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, player cards.PlayerID) Event {
	return Event{
		Type:      eventType,
		Player:    player,
		Timestamp: time.Now(),
	}
}

// Listener reacts to incoming events.
type Listener func(Event)

// TypedListener is a listener bound to a single event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

type subscription struct {
	handle   int
	listener Listener
}

// EventBus is a synchronous publish/subscribe hub with type filtering.
// Listeners are called in subscription order.
type EventBus struct {
	mu             sync.RWMutex
	listeners      []subscription
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners = append(bus.listeners, subscription{handle: handle, listener: listener})
	return handle
}

// SubscribeTyped registers a listener for one event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.listeners {
		if sub.handle == handle {
			bus.listeners = append(bus.listeners[:i:i], bus.listeners[i+1:]...)
			break
		}
	}
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to every matching listener synchronously.
// Listeners must not publish from inside the callback.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, sub := range bus.listeners {
		sub.listener(event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}
