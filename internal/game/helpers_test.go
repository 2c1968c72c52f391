package game

import (
	"testing"

	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func legendTemplate(name string) cards.Template {
	return cards.Template{DefID: 1, Name: name, Kind: cards.KindLegend, Attack: 3, Health: 10, Speed: 1, Range: 1}
}

func gruntTemplate() cards.Template {
	return cards.Template{DefID: 2, Name: "Grunt", Cost: 1, Kind: cards.KindUnit, Attack: 1, Health: 2, Speed: 1, Range: 1}
}

func zapTemplate(damage int) cards.Template {
	return cards.Template{
		DefID: 3,
		Name:  "Zap",
		Cost:  2,
		Kind:  cards.KindSpell,
		Abilities: []cards.AbilitySpec{{
			Effect:  cards.EffectDirectDamage,
			Target:  cards.TargetAllEnemies,
			Filter:  cards.FilterAny,
			Trigger: cards.TriggerOnCast,
			Value:   damage,
		}},
	}
}

// plainDeck is a legend followed by n grunts.
func plainDeck(legend string, n int) []cards.Template {
	deck := []cards.Template{legendTemplate(legend)}
	for i := 0; i < n; i++ {
		deck = append(deck, gruntTemplate())
	}
	return deck
}

func testSettings(seed uint32) Settings {
	s := DefaultSettings()
	s.Seed = seed
	return s
}

func newTestGame(t *testing.T, decks ...[]cards.Template) *GameState {
	t.Helper()
	if len(decks) == 0 {
		decks = [][]cards.Template{plainDeck("North", 9), plainDeck("South", 9)}
	}
	g, err := NewGameState(testSettings(42), decks, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	return g
}

func handIndexOf(t *testing.T, g *GameState, player cards.PlayerID, name string) int {
	t.Helper()
	for i, id := range g.players[player].hand {
		if c := g.card(id); c != nil && c.Name == name {
			return i
		}
	}
	t.Fatalf("player %d has no %s in hand", player, name)
	return -1
}

// requireZonesConsistent checks every card sits in exactly one zone list and
// the arena agrees with it.
func requireZonesConsistent(t *testing.T, g *GameState) {
	t.Helper()
	seen := make(map[cards.ID]cards.Zone)
	mark := func(ids []cards.ID, zone cards.Zone) {
		for _, id := range ids {
			_, dup := seen[id]
			require.False(t, dup, "card %s listed twice", id)
			seen[id] = zone
		}
	}
	for _, p := range g.players {
		mark(p.deck, cards.ZoneDeck)
		mark(p.hand, cards.ZoneHand)
		mark(p.discard, cards.ZoneDiscard)
	}
	for _, cell := range g.board.Cells() {
		if cell.Occupied() {
			mark([]cards.ID{cell.CardID()}, cards.ZoneBoard)
		}
	}
	require.Equal(t, g.arena.Len(), len(seen), "every card is in exactly one zone")
	for id, zone := range seen {
		got, ok := g.arena.Zone(id)
		require.True(t, ok)
		require.Equal(t, zone, got, "zone of %s", id)
	}
}
