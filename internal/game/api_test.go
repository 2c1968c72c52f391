package game

import (
	"testing"

	"github.com/magefree/hexduel-server-go/internal/game/board"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/hex"
	"github.com/magefree/hexduel-server-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayCardNextToLegend(t *testing.T) {
	g := newTestGame(t)

	assert.Equal(t, []hex.Position{{X: 2, Y: 1}}, g.ValidPlayPositions(0))
	assert.Equal(t, ResultSuccess, g.PlayCard(0, 0, 2, 1))

	p := g.players[0]
	assert.Equal(t, 2, p.ActionsRemaining)
	assert.Len(t, p.hand, 4)

	info, ok := g.CellInfo(2, 1)
	require.True(t, ok)
	assert.True(t, info.HasCard)
	assert.Equal(t, "Grunt", info.CardName)
	assert.Equal(t, cards.PlayerID(0), info.CardOwner)
	requireZonesConsistent(t, g)
}

func TestPlacementIsMirroredBetweenSeats(t *testing.T) {
	g := newTestGame(t)

	seat0 := g.ValidPlayPositions(0)
	seat1 := g.ValidPlayPositions(1)
	require.NotEmpty(t, seat0)
	require.Len(t, seat1, len(seat0))

	mirrored := make([]hex.Position, 0, len(seat0))
	for _, p := range seat0 {
		mirrored = append(mirrored, p.Mirror(board.Height))
	}
	assert.ElementsMatch(t, mirrored, seat1)
	assert.Equal(t, []hex.Position{{X: 2, Y: 5}}, seat1)
}

func TestPlayCardRejections(t *testing.T) {
	g := newTestGame(t)
	before := g.Checksum()

	assert.Equal(t, ResultInvalidPlayer, g.PlayCard(1, 0, 2, 5), "not player 1's turn")
	assert.Equal(t, ResultInvalidPlayer, g.PlayCard(7, 0, 2, 1))
	assert.Equal(t, ResultInvalidCard, g.PlayCard(0, 99, 2, 1))
	assert.Equal(t, ResultInvalidPosition, g.PlayCard(0, 0, 2, 4), "not adjacent to the legend")
	assert.Equal(t, ResultInvalidPosition, g.PlayCard(0, 0, 0, 0), "no floor")
	assert.Equal(t, ResultInvalidPosition, g.PlayCard(0, 0, 9, 9))

	assert.Equal(t, before, g.Checksum(), "rejected actions change nothing")
}

func TestPlayCardOccupiedCell(t *testing.T) {
	g := newTestGame(t)
	require.Equal(t, ResultSuccess, g.PlayCard(0, 0, 2, 1))
	assert.Equal(t, ResultInvalidPosition, g.PlayCard(0, 0, 2, 1))
	assert.Empty(t, g.ValidPlayPositions(0))
}

func TestCastSpellNeedsSpell(t *testing.T) {
	g := newTestGame(t)
	assert.Equal(t, ResultInvalidCard, g.CastSpell(0, 0))
}

func TestAttackRejections(t *testing.T) {
	g := newTestGame(t)
	require.Equal(t, ResultSuccess, g.PlayCard(0, 0, 2, 1))
	before := g.Checksum()

	assert.Equal(t, ResultCannotAttackTarget, g.AttackCard(0, 2, 1, 2, 2), "empty cell")
	assert.Equal(t, ResultCannotAttackTarget, g.AttackCard(0, 2, 1, 2, 0), "own legend")
	assert.Equal(t, ResultCannotAttackTarget, g.AttackCard(0, 2, 1, 9, 9))
	assert.Equal(t, ResultInvalidCard, g.AttackCard(0, 2, 3, 2, 6), "no attacker")
	assert.Equal(t, ResultInvalidCard, g.AttackCard(0, 2, 6, 2, 1), "enemy attacker")

	assert.Equal(t, before, g.Checksum())
	assert.Equal(t, 2, g.players[0].ActionsRemaining)
}

func TestMoveRejections(t *testing.T) {
	g := newTestGame(t)
	require.Equal(t, ResultSuccess, g.PlayCard(0, 0, 2, 1))

	assert.Equal(t, ResultInvalidMove, g.MoveCard(0, 2, 1, 0, 0), "no floor")
	assert.Equal(t, ResultInvalidMove, g.MoveCard(0, 2, 1, 2, 0), "occupied")
	assert.Equal(t, ResultInvalidCard, g.MoveCard(0, 3, 4, 3, 5))
	assert.Equal(t, ResultInvalidCard, g.MoveCard(0, 2, 6, 2, 5))

	moves := g.ValidMovePositions(2, 1)
	assert.NotContains(t, moves, hex.Position{X: 2, Y: 0})
	assert.Contains(t, moves, hex.Position{X: 2, Y: 5})
	assert.Nil(t, g.ValidMovePositions(4, 4))
}

func TestActionsRunOutAndResetOnEndTurn(t *testing.T) {
	g := newTestGame(t)
	require.Equal(t, ResultSuccess, g.PlayCard(0, 0, 2, 1))
	require.Equal(t, ResultSuccess, g.MoveCard(0, 2, 1, 2, 2))
	require.Equal(t, ResultSuccess, g.MoveCard(0, 2, 2, 2, 3))
	assert.Zero(t, g.players[0].ActionsRemaining)

	assert.Equal(t, ResultNotEnoughActions, g.MoveCard(0, 2, 3, 2, 4))
	assert.Equal(t, ResultNotEnoughActions, g.PlayCard(0, 0, 2, 1))

	var started []cards.PlayerID
	g.Events().SubscribeTyped(rules.EventTurnStarted, func(ev rules.Event) { started = append(started, ev.Player) })

	require.Equal(t, ResultSuccess, g.Process(Action{Kind: rules.ActionEndTurn, Player: 0}))
	assert.Equal(t, cards.PlayerID(1), g.CurrentPlayer())
	assert.Equal(t, 0, g.Turn())
	assert.Equal(t, g.players[1].MaxActions, g.players[1].ActionsRemaining)
	assert.Equal(t, g.players[0].MaxActions, g.players[0].ActionsRemaining)
	assert.Len(t, g.players[1].hand, 6, "new player draws one")

	require.Equal(t, ResultInvalidPlayer, g.Process(Action{Kind: rules.ActionEndTurn, Player: 0}))
	require.Equal(t, ResultSuccess, g.Process(Action{Kind: rules.ActionEndTurn, Player: 1}))
	assert.Equal(t, 1, g.Turn())
	assert.Equal(t, []cards.PlayerID{1, 0}, started)

	for _, p := range g.players {
		assert.LessOrEqual(t, p.ActionsRemaining, p.MaxActions)
	}
}

func TestKillingLegendWinsMatch(t *testing.T) {
	g := newTestGame(t)
	require.Equal(t, ResultSuccess, g.PlayCard(0, 0, 2, 1))
	require.Equal(t, ResultSuccess, g.MoveCard(0, 2, 1, 2, 5))
	assert.Contains(t, g.ValidAttackPositions(2, 5), hex.Position{X: 2, Y: 6})
	require.Equal(t, ResultSuccess, g.AttackCard(0, 2, 5, 2, 6))

	assert.True(t, g.IsGameOver())
	assert.Equal(t, TeamA, g.Winner())
	assert.Equal(t, rules.PhaseEnd, g.Phase())

	info := g.GameInfo()
	assert.True(t, info.IsGameOver)
	assert.Equal(t, TeamA, info.Winner)
	assert.False(t, info.Player1.IsAlive)
	assert.False(t, info.Player1.HasLegend)
	assert.Equal(t, hex.Position{X: NoCoord, Y: NoCoord}, info.Player1.LegendPosition)

	assert.Equal(t, ResultGameOver, g.EndTurn())
	assert.Equal(t, ResultGameOver, g.Process(Action{Kind: rules.ActionEndTurn, Player: 0}))
	assert.Equal(t, ResultGameOver, g.MoveCard(0, 2, 5, 2, 4))
	assert.Equal(t, ResultGameOver, g.DrawCard(0))
	requireZonesConsistent(t, g)
}

func TestProcessRoutesActions(t *testing.T) {
	g := newTestGame(t)

	r := g.Process(Action{Kind: rules.ActionPlayCard, Player: 0, HandIndex: 0, To: hex.Position{X: 2, Y: 1}})
	require.Equal(t, ResultSuccess, r)
	r = g.Process(Action{Kind: rules.ActionMoveCard, Player: 0, From: hex.Position{X: 2, Y: 1}, To: hex.Position{X: 2, Y: 2}})
	require.Equal(t, ResultSuccess, r)
	r = g.Process(Action{Kind: rules.ActionCastSpell, Player: 0, HandIndex: 0})
	assert.Equal(t, ResultInvalidCard, r)
	r = g.Process(Action{Kind: "DANCE", Player: 0})
	assert.Equal(t, ResultInvalidCard, r)
}

func TestDrawCardValidatesOnly(t *testing.T) {
	g := newTestGame(t)
	hand := len(g.players[0].hand)
	assert.Equal(t, ResultSuccess, g.DrawCard(0))
	assert.Len(t, g.players[0].hand, hand)
	assert.Equal(t, ResultInvalidPlayer, g.DrawCard(4))

	empty := newTestGame(t, plainDeck("North", 0), plainDeck("South", 1))
	assert.Equal(t, ResultInvalidCard, empty.DrawCard(0))
}

func TestPlayerInfo(t *testing.T) {
	g := newTestGame(t)
	info, ok := g.PlayerInfo(1)
	require.True(t, ok)
	assert.Equal(t, TeamB, info.Team)
	assert.True(t, info.IsAlive)
	assert.True(t, info.HasLegend)
	assert.Equal(t, "South", info.LegendName)
	assert.Equal(t, hex.Position{X: 2, Y: 6}, info.LegendPosition)
	assert.Equal(t, 5, info.HandSize)
	assert.Len(t, info.HandCardNames, 5)

	_, ok = g.PlayerInfo(2)
	assert.False(t, ok)
	_, ok = g.CellInfo(-1, 0)
	assert.False(t, ok)
}

func TestResultNames(t *testing.T) {
	assert.Equal(t, "CANNOT_ATTACK_TARGET", ResultCannotAttackTarget.String())
	assert.Equal(t, "UNKNOWN", Result(200).String())
	r, ok := ParseResult("OUT_OF_RANGE")
	require.True(t, ok)
	assert.Equal(t, ResultOutOfRange, r)
	_, ok = ParseResult("NOPE")
	assert.False(t, ok)
	assert.True(t, ResultSuccess.OK())
}
