package game

import "github.com/magefree/hexduel-server-go/internal/game/cards"

// PlayerStats are the running tallies of one seat, read from the match
// watchers.
type PlayerStats struct {
	UnitsPlayed     int  `json:"units_played"`
	SpellsCast      int  `json:"spells_cast"`
	CardsLost       int  `json:"cards_lost"`
	LegendLost      bool `json:"legend_lost"`
	ActionsThisTurn int  `json:"actions_this_turn"`
}

// Stats returns the tallies for a seat. Unknown seats report zeroes.
func (g *GameState) Stats(player cards.PlayerID) PlayerStats {
	if _, ok := g.player(player); !ok {
		return PlayerStats{}
	}
	return PlayerStats{
		UnitsPlayed:     g.tallies.Played.UnitsPlayed(player),
		SpellsCast:      g.tallies.Played.SpellsCast(player),
		CardsLost:       g.tallies.Destroyed.Destroyed(player),
		LegendLost:      g.tallies.Destroyed.LegendLost(player),
		ActionsThisTurn: g.tallies.TurnActions.Actions(player),
	}
}

// AllStats returns the tallies of every seat in seat order.
func (g *GameState) AllStats() []PlayerStats {
	out := make([]PlayerStats, 0, PlayerCount)
	for i := 0; i < PlayerCount; i++ {
		out = append(out, g.Stats(cards.PlayerID(i)))
	}
	return out
}
