package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/hex"
	"github.com/magefree/hexduel-server-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeRecorder struct {
	mu      sync.Mutex
	results []MatchResult
}

func (r *fakeRecorder) RecordResult(_ context.Context, result MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return nil
}

func (r *fakeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

func testDecks() [][]cards.Template {
	return [][]cards.Template{plainDeck("North", 9), plainDeck("South", 9)}
}

func TestEngineStartAndPlay(t *testing.T) {
	engine := NewEngine(zaptest.NewLogger(t), 0)
	id, err := engine.StartMatch(testSettings(7), testDecks(), []string{"alice", "bob"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	result, err := engine.ProcessAction(context.Background(), id, Action{
		Kind: rules.ActionPlayCard, Player: 0, HandIndex: 0, To: hex.Position{X: 2, Y: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, ResultSuccess, result)

	info, err := engine.GameInfo(id)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Player0.Name)
	assert.Equal(t, "bob", info.Player1.Name)
	assert.Equal(t, 2, info.Player0.ActionsLeft)

	var seed uint32
	require.NoError(t, engine.View(id, func(g *GameState) { seed = g.Seed() }))
	assert.Equal(t, uint32(7), seed)
}

func TestEngineUnknownMatch(t *testing.T) {
	engine := NewEngine(zaptest.NewLogger(t), 0)
	_, err := engine.ProcessAction(context.Background(), "nope", Action{Kind: rules.ActionEndTurn})
	assert.True(t, errors.Is(err, ErrMatchNotFound))
	_, err = engine.GameInfo("nope")
	assert.True(t, errors.Is(err, ErrMatchNotFound))
	assert.True(t, errors.Is(engine.EndMatch("nope"), ErrMatchNotFound))
}

func TestEngineCapacity(t *testing.T) {
	engine := NewEngine(zaptest.NewLogger(t), 1)
	id, err := engine.StartMatch(testSettings(1), testDecks(), []string{"a", "b"})
	require.NoError(t, err)

	_, err = engine.StartMatch(testSettings(1), testDecks(), []string{"c", "d"})
	assert.ErrorIs(t, err, ErrTooManyMatches)

	require.NoError(t, engine.EndMatch(id))
	_, err = engine.StartMatch(testSettings(1), testDecks(), []string{"c", "d"})
	assert.NoError(t, err)
}

func TestEngineNeedsTwoPlayers(t *testing.T) {
	engine := NewEngine(zaptest.NewLogger(t), 0)
	_, err := engine.StartMatch(testSettings(1), testDecks(), []string{"solo"})
	assert.Error(t, err)
}

func TestEngineRecordsFinishedMatchOnce(t *testing.T) {
	engine := NewEngine(zaptest.NewLogger(t), 0)
	recorder := &fakeRecorder{}
	engine.SetResultRecorder(recorder)

	id, err := engine.StartMatch(testSettings(3), testDecks(), []string{"alice", "bob"})
	require.NoError(t, err)

	ctx := context.Background()
	steps := []Action{
		{Kind: rules.ActionPlayCard, Player: 0, HandIndex: 0, To: hex.Position{X: 2, Y: 1}},
		{Kind: rules.ActionMoveCard, Player: 0, From: hex.Position{X: 2, Y: 1}, To: hex.Position{X: 2, Y: 5}},
		{Kind: rules.ActionAttack, Player: 0, From: hex.Position{X: 2, Y: 5}, To: hex.Position{X: 2, Y: 6}},
	}
	for _, a := range steps {
		r, err := engine.ProcessAction(ctx, id, a)
		require.NoError(t, err)
		require.Equal(t, ResultSuccess, r, "action %s", a.Kind)
	}

	r, err := engine.ProcessAction(ctx, id, Action{Kind: rules.ActionEndTurn, Player: 0})
	require.NoError(t, err)
	assert.Equal(t, ResultGameOver, r)

	require.Equal(t, 1, recorder.count())
	got := recorder.results[0]
	assert.Equal(t, id, got.MatchID)
	assert.Equal(t, TeamA, got.Winner)
	assert.Equal(t, []string{"alice", "bob"}, got.Players)
	assert.Equal(t, uint32(3), got.Seed)
	assert.Len(t, got.Checksum, 64)
	assert.False(t, got.FinishedAt.Before(got.StartedAt))

	require.Len(t, got.Stats, 2)
	assert.Equal(t, 1, got.Stats[0].UnitsPlayed)
	assert.Equal(t, 3, got.Stats[0].ActionsThisTurn)
	assert.Zero(t, got.Stats[0].CardsLost)
	assert.Equal(t, 1, got.Stats[1].CardsLost)
	assert.True(t, got.Stats[1].LegendLost)

	matches := engine.ListMatches()
	require.Len(t, matches, 1)
	assert.Equal(t, "END", matches[0].Phase)
	assert.Equal(t, TeamA, matches[0].Winner)
}

func TestEngineNotifications(t *testing.T) {
	engine := NewEngine(zaptest.NewLogger(t), 0)
	got := make(chan Notification, 64)
	engine.SetNotificationHandler(func(n Notification) { got <- n })

	id, err := engine.StartMatch(testSettings(9), testDecks(), []string{"a", "b"})
	require.NoError(t, err)
	_, err = engine.ProcessAction(context.Background(), id, Action{Kind: rules.ActionEndTurn, Player: 0})
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case n := <-got:
			assert.Equal(t, id, n.MatchID)
			if n.Type == string(rules.EventTurnStarted) {
				assert.Equal(t, cards.PlayerID(1), n.Player)
				return
			}
		case <-deadline:
			t.Fatal("no TURN_STARTED notification")
		}
	}
}

func TestEngineForwardsSetupEvents(t *testing.T) {
	engine := NewEngine(zaptest.NewLogger(t), 0)
	got := make(chan Notification, 64)
	engine.SetNotificationHandler(func(n Notification) { got <- n })

	id, err := engine.StartMatch(testSettings(9), testDecks(), []string{"a", "b"})
	require.NoError(t, err)

	want := map[string]int{
		string(rules.EventMatchStarted): 1,
		string(rules.EventLegendPlaced): 2,
		string(rules.EventCardDrawn):    2 * testSettings(9).InitialHandSize,
	}
	seen := make(map[string]int)
	deadline := time.After(2 * time.Second)
	for seen[string(rules.EventMatchStarted)] < 1 ||
		seen[string(rules.EventLegendPlaced)] < 2 ||
		seen[string(rules.EventCardDrawn)] < want[string(rules.EventCardDrawn)] {
		select {
		case n := <-got:
			assert.Equal(t, id, n.MatchID)
			seen[n.Type]++
		case <-deadline:
			t.Fatalf("setup notifications missing, saw %v", seen)
		}
	}
	for typ, count := range want {
		assert.Equal(t, count, seen[typ], typ)
	}
}
