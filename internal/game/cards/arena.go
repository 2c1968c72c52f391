package cards

import (
	"fmt"
	"sort"
)

// Zone is where a card currently lives.
type Zone uint8

// Zones. Every card in an arena is in exactly one of them.
const (
	ZoneNone Zone = iota
	ZoneDeck
	ZoneHand
	ZoneDiscard
	ZoneBoard
)

var zoneNames = map[Zone]string{
	ZoneNone:    "NONE",
	ZoneDeck:    "DECK",
	ZoneHand:    "HAND",
	ZoneDiscard: "DISCARD",
	ZoneBoard:   "BOARD",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return "UNKNOWN"
}

// Arena owns every card of a match. Zones elsewhere refer to cards by ID only.
type Arena struct {
	cards map[ID]*Card
	zones map[ID]Zone
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		cards: make(map[ID]*Card),
		zones: make(map[ID]Zone),
	}
}

// Add registers a card in the given zone.
func (a *Arena) Add(card *Card, zone Zone) error {
	if card == nil || card.ID == "" {
		return fmt.Errorf("card must have an id")
	}
	if _, exists := a.cards[card.ID]; exists {
		return fmt.Errorf("card %s already registered", card.ID)
	}
	a.cards[card.ID] = card
	a.zones[card.ID] = zone
	return nil
}

// Get looks a card up by ID.
func (a *Arena) Get(id ID) (*Card, bool) {
	card, ok := a.cards[id]
	return card, ok
}

// Zone returns the zone a card is in.
func (a *Arena) Zone(id ID) (Zone, bool) {
	zone, ok := a.zones[id]
	return zone, ok
}

// Relocate records that a card moved to zone.
func (a *Arena) Relocate(id ID, zone Zone) bool {
	if _, ok := a.cards[id]; !ok {
		return false
	}
	a.zones[id] = zone
	return true
}

// Len returns the number of cards in the arena.
func (a *Arena) Len() int {
	return len(a.cards)
}

// IDs returns all card IDs sorted for deterministic iteration.
func (a *Arena) IDs() []ID {
	ids := make([]ID, 0, len(a.cards))
	for id := range a.cards {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// InZone lists the IDs of cards in zone owned by owner, sorted.
func (a *Arena) InZone(owner PlayerID, zone Zone) []ID {
	var ids []ID
	for _, id := range a.IDs() {
		if a.zones[id] == zone && a.cards[id].Owner == owner {
			ids = append(ids, id)
		}
	}
	return ids
}
