package game

import (
	"fmt"

	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/hex"
	"github.com/magefree/hexduel-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// Result is the outcome code of an API action.
type Result uint8

const (
	ResultSuccess Result = iota
	ResultInvalidPlayer
	ResultInvalidPosition
	ResultInvalidCard
	ResultNotEnoughActions
	ResultPositionOccupied
	ResultCardNotInHand
	ResultCannotAttackTarget
	ResultOutOfRange
	ResultGameOver
	ResultInvalidMove
)

var resultNames = [...]string{
	ResultSuccess:            "SUCCESS",
	ResultInvalidPlayer:      "INVALID_PLAYER",
	ResultInvalidPosition:    "INVALID_POSITION",
	ResultInvalidCard:        "INVALID_CARD",
	ResultNotEnoughActions:   "NOT_ENOUGH_ACTIONS",
	ResultPositionOccupied:   "POSITION_OCCUPIED",
	ResultCardNotInHand:      "CARD_NOT_IN_HAND",
	ResultCannotAttackTarget: "CANNOT_ATTACK_TARGET",
	ResultOutOfRange:         "OUT_OF_RANGE",
	ResultGameOver:           "GAME_OVER",
	ResultInvalidMove:        "INVALID_MOVE",
}

func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return "UNKNOWN"
}

// OK reports whether the action succeeded.
func (r Result) OK() bool { return r == ResultSuccess }

// ParseResult maps a result name back to its code.
func ParseResult(name string) (Result, bool) {
	for i, n := range resultNames {
		if n == name {
			return Result(i), true
		}
	}
	return 0, false
}

// Action is a transport-neutral action request.
type Action struct {
	Kind      rules.ActionKind `json:"kind"`
	Player    cards.PlayerID   `json:"player"`
	HandIndex int              `json:"hand_index,omitempty"`
	From      hex.Position     `json:"from"`
	To        hex.Position     `json:"to"`
}

// Process routes an action to the matching API call.
func (g *GameState) Process(a Action) Result {
	switch a.Kind {
	case rules.ActionPlayCard:
		return g.PlayCard(a.Player, a.HandIndex, a.To.X, a.To.Y)
	case rules.ActionCastSpell:
		return g.CastSpell(a.Player, a.HandIndex)
	case rules.ActionMoveCard:
		return g.MoveCard(a.Player, a.From.X, a.From.Y, a.To.X, a.To.Y)
	case rules.ActionAttack:
		return g.AttackCard(a.Player, a.From.X, a.From.Y, a.To.X, a.To.Y)
	case rules.ActionDrawCard:
		return g.DrawCard(a.Player)
	case rules.ActionEndTurn:
		if r := g.checkActor(a.Player, rules.ActionEndTurn); r != ResultSuccess {
			return r
		}
		return g.EndTurn()
	}
	return ResultInvalidCard
}

// checkActor runs the checks every action shares: game over, unknown
// player, not the player's turn, no actions left.
func (g *GameState) checkActor(player cards.PlayerID, kind rules.ActionKind) Result {
	res := g.legality.CheckAction(player, kind)
	if res.Legal {
		return ResultSuccess
	}
	switch res.Violation {
	case rules.ViolationGameOver:
		return ResultGameOver
	case rules.ViolationNoActions:
		return ResultNotEnoughActions
	default:
		return ResultInvalidPlayer
	}
}

func (g *GameState) reject(player cards.PlayerID, kind rules.ActionKind, r Result, res rules.LegalityResult) Result {
	g.logger.Debug("action rejected",
		zap.String("action", string(kind)),
		zap.Int("player", int(player)),
		zap.String("result", r.String()),
		zap.String("violation", string(res.Violation)),
		zap.String("reason", res.Reason),
	)
	return r
}

// complete charges one action and re-checks the legends.
func (g *GameState) complete(p *Player) Result {
	g.consumeAction(p)
	g.checkLegendStatus()
	return ResultSuccess
}

func (g *GameState) handCard(p *Player, handIndex int) *cards.Card {
	if handIndex < 0 || handIndex >= len(p.hand) {
		return nil
	}
	return g.card(p.hand[handIndex])
}

// PlayCard places the unit at handIndex on (x, y). Spells go through
// CastSpell and legends never leave the board.
func (g *GameState) PlayCard(player cards.PlayerID, handIndex, x, y int) Result {
	if r := g.checkActor(player, rules.ActionPlayCard); r != ResultSuccess {
		return r
	}
	p := g.players[player]
	card := g.handCard(p, handIndex)
	if card == nil || card.Kind != cards.KindUnit {
		return ResultInvalidCard
	}
	if !g.IsValidPlayPosition(player, x, y) {
		return ResultInvalidPosition
	}
	if res := g.play(p, handIndex, g.board.At(x, y)); !res.Legal {
		return g.reject(player, rules.ActionPlayCard, ResultPositionOccupied, res)
	}
	return g.complete(p)
}

// CastSpell resolves the spell at handIndex.
func (g *GameState) CastSpell(player cards.PlayerID, handIndex int) Result {
	if r := g.checkActor(player, rules.ActionCastSpell); r != ResultSuccess {
		return r
	}
	p := g.players[player]
	card := g.handCard(p, handIndex)
	if card == nil || !card.IsSpell() {
		return ResultInvalidCard
	}
	if res := g.play(p, handIndex, nil); !res.Legal {
		return g.reject(player, rules.ActionCastSpell, ResultInvalidCard, res)
	}
	return g.complete(p)
}

// MoveCard moves the player's card at (fromX, fromY) to (toX, toY).
func (g *GameState) MoveCard(player cards.PlayerID, fromX, fromY, toX, toY int) Result {
	if r := g.checkActor(player, rules.ActionMoveCard); r != ResultSuccess {
		return r
	}
	p := g.players[player]
	from := g.board.At(fromX, fromY)
	if c := g.board.Occupant(from); c == nil || c.Owner != player {
		return ResultInvalidCard
	}
	if res := g.move(p, from, g.board.At(toX, toY)); !res.Legal {
		return g.reject(player, rules.ActionMoveCard, ResultInvalidMove, res)
	}
	return g.complete(p)
}

// AttackCard attacks (toX, toY) with the player's card at (fromX, fromY).
func (g *GameState) AttackCard(player cards.PlayerID, fromX, fromY, toX, toY int) Result {
	if r := g.checkActor(player, rules.ActionAttack); r != ResultSuccess {
		return r
	}
	p := g.players[player]
	from := g.board.At(fromX, fromY)
	if c := g.board.Occupant(from); c == nil || c.Owner != player {
		return ResultInvalidCard
	}
	if res := g.attack(p, from, g.board.At(toX, toY)); !res.Legal {
		return g.reject(player, rules.ActionAttack, ResultCannotAttackTarget, res)
	}
	return g.complete(p)
}

// DrawCard only validates: cards are drawn at turn boundaries. It fails when
// the player has nothing to draw or a full hand.
func (g *GameState) DrawCard(player cards.PlayerID) Result {
	if g.IsGameOver() {
		return ResultGameOver
	}
	p, ok := g.player(player)
	if !ok {
		return ResultInvalidPlayer
	}
	if len(p.deck) == 0 && len(p.discard) == 0 {
		return ResultInvalidCard
	}
	if len(p.hand) >= p.MaxHandSize {
		return ResultInvalidCard
	}
	return ResultSuccess
}

// EndTurn passes the turn to the next player.
func (g *GameState) EndTurn() Result {
	if g.IsGameOver() {
		return ResultGameOver
	}
	g.endTurn()
	return ResultSuccess
}

// String summarizes the match for logs.
func (g *GameState) String() string {
	return fmt.Sprintf("GameState[turn=%d player=%d phase=%s]", g.turns.TurnNumber(), g.turns.Current(), g.turns.Phase())
}
