package game

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"golang.org/x/crypto/blake2b"
)

// Canonical writes the match in a stable text form: turn state, then each
// player's zones in order, then the occupied cells in row-major order.
func (g *GameState) Canonical() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "turn=%d current=%d phase=%s\n", g.turns.TurnNumber(), g.turns.Current(), g.turns.Phase())
	for _, p := range g.players {
		fmt.Fprintf(&sb, "p%d actions=%d/%d health=%d legend=%s\n", p.ID, p.ActionsRemaining, p.MaxActions, p.Health, p.legend)
		writeZone(&sb, "deck", p.deck)
		writeZone(&sb, "hand", p.hand)
		writeZone(&sb, "discard", p.discard)
	}
	for _, cell := range g.board.Cells() {
		c := g.board.Occupant(cell)
		if c == nil {
			continue
		}
		fmt.Fprintf(&sb, "cell %d,%d %s owner=%d atk=%d hp=%d spd=%d rng=%d\n",
			cell.X, cell.Y, c.ID, c.Owner, c.Attack, c.Health, c.Speed, c.Range)
	}
	fmt.Fprintf(&sb, "stack=%d\n", g.stack.Len())
	return sb.String()
}

func writeZone(sb *strings.Builder, name string, ids []cards.ID) {
	sb.WriteString(name)
	for _, id := range ids {
		sb.WriteByte(' ')
		sb.WriteString(string(id))
	}
	sb.WriteByte('\n')
}

// Checksum hashes the canonical form with BLAKE2b-256. Two matches built
// from the same decks and seed that received the same actions agree.
func (g *GameState) Checksum() string {
	sum := blake2b.Sum256([]byte(g.Canonical()))
	return hex.EncodeToString(sum[:])
}
