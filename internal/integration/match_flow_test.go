package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/magefree/hexduel-server-go/internal/cardload"
	"github.com/magefree/hexduel-server-go/internal/config"
	"github.com/magefree/hexduel-server-go/internal/game"
	"github.com/magefree/hexduel-server-go/internal/game/hex"
	"github.com/magefree/hexduel-server-go/internal/game/rules"
	"github.com/magefree/hexduel-server-go/internal/repository"
	"github.com/magefree/hexduel-server-go/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const deckFile = `[
  {"name": "Raiders", "cards": [
    {"id": 1, "name": "Raid Chief", "type": "legend", "attack": 2, "health": 8},
    {"id": 2, "name": "Raider", "type": "unit", "cost": 1, "attack": 2, "health": 2, "speed": 2},
    {"id": 2, "name": "Raider", "type": "unit", "cost": 1, "attack": 2, "health": 2, "speed": 2},
    {"id": 2, "name": "Raider", "type": "unit", "cost": 1, "attack": 2, "health": 2, "speed": 2},
    {"id": 2, "name": "Raider", "type": "unit", "cost": 1, "attack": 2, "health": 2, "speed": 2},
    {"id": 2, "name": "Raider", "type": "unit", "cost": 1, "attack": 2, "health": 2, "speed": 2},
    {"id": 2, "name": "Raider", "type": "unit", "cost": 1, "attack": 2, "health": 2, "speed": 2}
  ]},
  {"name": "Wardens", "cards": [
    {"id": 10, "name": "Old Warden", "type": "legend", "attack": 1, "health": 12,
     "effects": [{"type": "health_buff", "target_type": "self", "trigger": "on_start_turn", "value": 1}]},
    {"id": 11, "name": "Sentinel", "type": "unit", "cost": 2, "attack": 1, "health": 4},
    {"id": 11, "name": "Sentinel", "type": "unit", "cost": 2, "attack": 1, "health": 4},
    {"id": 11, "name": "Sentinel", "type": "unit", "cost": 2, "attack": 1, "health": 4},
    {"id": 11, "name": "Sentinel", "type": "unit", "cost": 2, "attack": 1, "health": 4},
    {"id": 11, "name": "Sentinel", "type": "unit", "cost": 2, "attack": 1, "health": 4},
    {"id": 11, "name": "Sentinel", "type": "unit", "cost": 2, "attack": 1, "health": 4}
  ]}
]`

type matchEnv struct {
	svc       *server.MatchService
	store     repository.Store
	replayDir string
}

func newMatchEnv(t *testing.T) *matchEnv {
	t.Helper()
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	store, err := repository.Open(ctx, config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "hexduel.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	decks, err := cardload.NewLoader(logger).Parse([]byte(deckFile))
	require.NoError(t, err)
	require.Len(t, decks, 2)
	for _, d := range decks {
		require.NoError(t, store.SaveDeck(ctx, d.Name, d.Cards))
	}

	gameCfg, err := config.ParseGameConfig([]byte("max_actions_per_turn = 3\ninitial_hand_size = 4\n"))
	require.NoError(t, err)
	settings := game.SettingsFromConfig(gameCfg)
	settings.Seed = 77

	replayDir := t.TempDir()
	hub := server.NewHub(logger)
	engine := game.NewEngine(logger, 4)
	engine.SetResultRecorder(store)
	engine.SetNotificationHandler(hub.Publish)
	engine.SetReplayDir(replayDir)

	return &matchEnv{
		svc:       server.NewMatchService(engine, store, nil, settings, logger),
		store:     store,
		replayDir: replayDir,
	}
}

func (env *matchEnv) act(t *testing.T, matchID string, action game.Action) server.SubmitActionResponse {
	t.Helper()
	resp, err := env.svc.SubmitAction(context.Background(), server.SubmitActionRequest{MatchID: matchID, Action: action})
	require.NoError(t, err)
	return resp
}

func TestStoredDecksPlayToCompletion(t *testing.T) {
	env := newMatchEnv(t)
	ctx := context.Background()

	started, err := env.svc.StartMatch(ctx, server.StartMatchRequest{
		Players: []string{"ana", "ben"},
		Decks:   []string{"Raiders", "Wardens"},
	})
	require.NoError(t, err)
	id := started.MatchID
	assert.Equal(t, "Raid Chief", started.State.Player0.LegendName)
	assert.Equal(t, "Old Warden", started.State.Player1.LegendName)
	assert.Equal(t, 4, started.State.Player0.HandSize)
	assert.Equal(t, 3, started.State.Player0.MaxActions)

	// Turn 0: ana opens next to her legend and passes.
	resp := env.act(t, id, game.Action{Kind: rules.ActionPlayCard, Player: 0, HandIndex: 0, To: hex.Position{X: 2, Y: 1}})
	require.Equal(t, "SUCCESS", resp.Result)
	resp = env.act(t, id, game.Action{Kind: rules.ActionEndTurn, Player: 0})
	require.Equal(t, "SUCCESS", resp.Result)

	// Turn 1: ben guards the cell in front of his legend.
	resp = env.act(t, id, game.Action{Kind: rules.ActionPlayCard, Player: 1, HandIndex: 0, To: hex.Position{X: 2, Y: 5}})
	require.Equal(t, "SUCCESS", resp.Result)
	resp = env.act(t, id, game.Action{Kind: rules.ActionPlayCard, Player: 0, HandIndex: 0, To: hex.Position{X: 2, Y: 2}})
	require.Equal(t, "INVALID_PLAYER", resp.Result)
	resp = env.act(t, id, game.Action{Kind: rules.ActionEndTurn, Player: 1})
	require.Equal(t, "SUCCESS", resp.Result)
	assert.Equal(t, 4, resp.State.Player0.HandSize)

	// Turn 2: ana clears the guard, steps in and strikes the legend.
	resp = env.act(t, id, game.Action{Kind: rules.ActionAttack, Player: 0, From: hex.Position{X: 2, Y: 1}, To: hex.Position{X: 2, Y: 5}})
	require.Equal(t, "SUCCESS", resp.Result)
	resp = env.act(t, id, game.Action{Kind: rules.ActionMoveCard, Player: 0, From: hex.Position{X: 2, Y: 1}, To: hex.Position{X: 1, Y: 5}})
	require.Equal(t, "SUCCESS", resp.Result)
	resp = env.act(t, id, game.Action{Kind: rules.ActionAttack, Player: 0, From: hex.Position{X: 1, Y: 5}, To: hex.Position{X: 2, Y: 6}})
	require.Equal(t, "SUCCESS", resp.Result)

	assert.True(t, resp.State.IsGameOver)
	assert.Equal(t, game.TeamA, resp.State.Winner)
	assert.False(t, resp.State.Player1.IsAlive)

	resp = env.act(t, id, game.Action{Kind: rules.ActionEndTurn, Player: 0})
	assert.Equal(t, "GAME_OVER", resp.Result)

	results, err := env.svc.ListResults(ctx, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0].MatchID)
	assert.Equal(t, game.TeamA, results[0].Winner)
	assert.Equal(t, uint32(77), results[0].Seed)

	replay, err := game.LoadReplayFromFile(env.replayDir, id)
	require.NoError(t, err)
	final, err := replay.Verify(zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, results[0].Checksum, final)
}

func TestUnknownStoredDeck(t *testing.T) {
	env := newMatchEnv(t)
	_, err := env.svc.StartMatch(context.Background(), server.StartMatchRequest{
		Players: []string{"ana", "ben"},
		Decks:   []string{"Raiders", "Pirates"},
	})
	require.ErrorIs(t, err, repository.ErrNotFound)

	names, err := env.store.ListDecks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Raiders", "Wardens"}, names)
}
