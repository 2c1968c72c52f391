package cardload

import (
	_ "embed"

	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"go.uber.org/zap"
)

//go:embed data/default_decks.json
var defaultDecksJSON []byte

// DefaultDecks returns the two built-in decks used when no deck file is
// configured. Each holds twenty cards with one legend.
func DefaultDecks() []Deck {
	decks, err := NewLoader(zap.NewNop()).Parse(defaultDecksJSON)
	if err != nil {
		panic("cardload: built-in decks: " + err.Error())
	}
	return decks
}

// Templates flattens decks into the per-seat template lists a match takes.
func Templates(decks []Deck) [][]cards.Template {
	out := make([][]cards.Template, len(decks))
	for i, d := range decks {
		out[i] = d.Cards
	}
	return out
}
