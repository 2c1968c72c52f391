package rules

import (
	"fmt"

	"github.com/magefree/hexduel-server-go/internal/game/board"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
)

// ActionKind identifies a player action.
type ActionKind string

const (
	ActionPlayCard  ActionKind = "PLAY_CARD"
	ActionCastSpell ActionKind = "CAST_SPELL"
	ActionMoveCard  ActionKind = "MOVE_CARD"
	ActionAttack    ActionKind = "ATTACK"
	ActionDrawCard  ActionKind = "DRAW_CARD"
	ActionEndTurn   ActionKind = "END_TURN"
)

// Violation names the rule an action broke.
type Violation string

const (
	ViolationNone          Violation = ""
	ViolationGameOver      Violation = "GAME_OVER"
	ViolationUnknownPlayer Violation = "UNKNOWN_PLAYER"
	ViolationNotYourTurn   Violation = "NOT_YOUR_TURN"
	ViolationNoActions     Violation = "NO_ACTIONS_REMAINING"
	ViolationNoCell        Violation = "NO_SUCH_CELL"
	ViolationNotWalkable   Violation = "NOT_WALKABLE"
	ViolationOccupied      Violation = "CELL_OCCUPIED"
	ViolationNoLegend      Violation = "LEGEND_NOT_ON_BOARD"
	ViolationNotAdjacent   Violation = "NOT_ADJACENT_TO_LEGEND"
	ViolationNoSource      Violation = "NO_SOURCE_CARD"
	ViolationNotOwner      Violation = "NOT_CARD_OWNER"
	ViolationNoTarget      Violation = "NO_TARGET_CARD"
	ViolationFriendlyFire  Violation = "TARGET_IS_OWN_CARD"
	ViolationNotInHand     Violation = "CARD_NOT_IN_HAND"
	ViolationCardKind      Violation = "WRONG_CARD_KIND"
)

// LegalityResult is the outcome of a legality check.
type LegalityResult struct {
	Legal     bool
	Violation Violation
	Reason    string
}

// Legal is the result of an action that passed every check.
func Legal() LegalityResult {
	return LegalityResult{Legal: true}
}

// Illegal builds a failed result with a formatted reason.
func Illegal(v Violation, format string, args ...any) LegalityResult {
	return LegalityResult{Violation: v, Reason: fmt.Sprintf(format, args...)}
}

// GameStateAccessor exposes the turn state the checker needs.
type GameStateAccessor interface {
	IsGameOver() bool
	CurrentPlayer() cards.PlayerID
	PlayerCount() int
	ActionsRemaining(player cards.PlayerID) (int, bool)
}

// LegalityChecker validates actions before any mutation happens.
type LegalityChecker struct {
	gameState GameStateAccessor
}

// NewLegalityChecker creates a checker reading from gameState.
func NewLegalityChecker(gameState GameStateAccessor) *LegalityChecker {
	return &LegalityChecker{gameState: gameState}
}

// CheckAction applies the checks every action shares, in order: the game is
// not over, the actor exists and is the current player, and the actor has an
// action left. End turn does not need an action.
func (lc *LegalityChecker) CheckAction(player cards.PlayerID, kind ActionKind) LegalityResult {
	if lc == nil || lc.gameState == nil {
		return Illegal(ViolationGameOver, "no game state")
	}
	if lc.gameState.IsGameOver() {
		return Illegal(ViolationGameOver, "game is over")
	}
	if int(player) >= lc.gameState.PlayerCount() {
		return Illegal(ViolationUnknownPlayer, "player %d does not exist", player)
	}
	if current := lc.gameState.CurrentPlayer(); current != player {
		return Illegal(ViolationNotYourTurn, "player %d acted during player %d's turn", player, current)
	}
	if kind == ActionEndTurn {
		return Legal()
	}
	remaining, ok := lc.gameState.ActionsRemaining(player)
	if !ok {
		return Illegal(ViolationUnknownPlayer, "player %d does not exist", player)
	}
	if remaining <= 0 {
		return Illegal(ViolationNoActions, "player %d has no actions left", player)
	}
	return Legal()
}

// CheckDestination validates that a card may enter dest.
func CheckDestination(dest *board.Cell) LegalityResult {
	switch {
	case dest == nil:
		return Illegal(ViolationNoCell, "cell is out of bounds")
	case !dest.Walkable():
		return Illegal(ViolationNotWalkable, "cell (%d,%d) has no floor", dest.X, dest.Y)
	case dest.Occupied():
		return Illegal(ViolationOccupied, "cell (%d,%d) is occupied", dest.X, dest.Y)
	}
	return Legal()
}

// CheckPlacement validates putting a unit on dest next to its owner's legend.
func CheckPlacement(b *board.Board, dest *board.Cell, legend *cards.Card) LegalityResult {
	if res := CheckDestination(dest); !res.Legal {
		return res
	}
	if legend == nil || !legend.Alive() {
		return Illegal(ViolationNoLegend, "legend is missing or dead")
	}
	legendCell := b.CellOf(legend)
	if legendCell == nil {
		return Illegal(ViolationNoLegend, "legend %s is not on the board", legend.Name)
	}
	if !b.Adjacent(legend.Owner, legendCell, dest) {
		return Illegal(ViolationNotAdjacent, "cell (%d,%d) is not adjacent to legend at (%d,%d)",
			dest.X, dest.Y, legendCell.X, legendCell.Y)
	}
	return Legal()
}

// CheckMove validates moving the actor's card from one cell to another.
func CheckMove(b *board.Board, player cards.PlayerID, from, to *board.Cell) LegalityResult {
	if res := checkSource(b, player, from); !res.Legal {
		return res
	}
	return CheckDestination(to)
}

// CheckAttack validates the actor's card at from attacking the card at to.
func CheckAttack(b *board.Board, player cards.PlayerID, from, to *board.Cell) LegalityResult {
	if res := checkSource(b, player, from); !res.Legal {
		return res
	}
	switch {
	case to == nil:
		return Illegal(ViolationNoCell, "target is out of bounds")
	case !to.Walkable():
		return Illegal(ViolationNotWalkable, "target (%d,%d) has no floor", to.X, to.Y)
	}
	target := b.Occupant(to)
	if target == nil {
		return Illegal(ViolationNoTarget, "no card at (%d,%d)", to.X, to.Y)
	}
	if target.Owner == player {
		return Illegal(ViolationFriendlyFire, "card at (%d,%d) belongs to the attacker", to.X, to.Y)
	}
	return Legal()
}

func checkSource(b *board.Board, player cards.PlayerID, from *board.Cell) LegalityResult {
	source := b.Occupant(from)
	if source == nil {
		return Illegal(ViolationNoSource, "no card at source cell")
	}
	if source.Owner != player {
		return Illegal(ViolationNotOwner, "card %s belongs to player %d", source.Name, source.Owner)
	}
	return Legal()
}
