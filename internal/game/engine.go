package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/game/rules"
	"go.uber.org/zap"
)

var (
	// ErrMatchNotFound is returned for unknown match ids.
	ErrMatchNotFound = errors.New("match not found")
	// ErrTooManyMatches is returned when the engine is at capacity.
	ErrTooManyMatches = errors.New("too many active matches")
)

// Notification is pushed to the registered handler for every match event.
type Notification struct {
	Type      string
	MatchID   string
	Player    cards.PlayerID
	Timestamp time.Time
	Event     rules.Event
}

// NotificationHandler receives match notifications. It is called on its own
// goroutine and may call back into the engine.
type NotificationHandler func(Notification)

// MatchResult is what gets persisted when a match ends.
type MatchResult struct {
	MatchID    string
	Players    []string
	Winner     Team
	Turns      int
	Seed       uint32
	Checksum   string
	Stats      []PlayerStats
	StartedAt  time.Time
	FinishedAt time.Time
}

// ResultRecorder stores finished matches.
type ResultRecorder interface {
	RecordResult(ctx context.Context, result MatchResult) error
}

// MatchSummary is a short listing entry.
type MatchSummary struct {
	MatchID   string    `json:"match_id"`
	Players   []string  `json:"players"`
	Turn      int       `json:"turn"`
	Phase     string    `json:"phase"`
	Winner    Team      `json:"winner"`
	StartedAt time.Time `json:"started_at"`
}

type match struct {
	mu        sync.Mutex
	id        string
	players   []string
	state     *GameState
	startedAt time.Time
	recorded  bool
	replay    *Replay
}

// Engine hosts many matches. Each match is driven by one action at a time.
type Engine struct {
	logger *zap.Logger

	mu                  sync.RWMutex
	matches             map[string]*match
	maxMatches          int
	notificationHandler NotificationHandler
	recorder            ResultRecorder
	replayDir           string
}

// NewEngine creates an engine holding at most maxMatches matches. Zero
// means no limit.
func NewEngine(logger *zap.Logger, maxMatches int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:     logger,
		matches:    make(map[string]*match),
		maxMatches: maxMatches,
	}
}

// SetNotificationHandler sets the handler for match events.
func (e *Engine) SetNotificationHandler(handler NotificationHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notificationHandler = handler
}

// SetResultRecorder sets where finished matches are stored.
func (e *Engine) SetResultRecorder(recorder ResultRecorder) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recorder = recorder
}

// SetReplayDir makes the engine write each finished match's replay to dir.
// An empty dir turns saving off; replays are still kept in memory.
func (e *Engine) SetReplayDir(dir string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replayDir = dir
}

func (e *Engine) emit(n Notification) {
	e.mu.RLock()
	handler := e.notificationHandler
	e.mu.RUnlock()
	if handler != nil {
		go handler(n)
	}
}

// StartMatch sets up a match for two named players and returns its id.
func (e *Engine) StartMatch(settings Settings, decks [][]cards.Template, players []string) (string, error) {
	if len(players) != PlayerCount {
		return "", fmt.Errorf("need %d players, got %d", PlayerCount, len(players))
	}

	e.mu.RLock()
	full := e.maxMatches > 0 && len(e.matches) >= e.maxMatches
	e.mu.RUnlock()
	if full {
		return "", ErrTooManyMatches
	}

	id := uuid.NewString()
	logger := e.logger.With(zap.String("match_id", id))
	forward := WithListener(func(ev rules.Event) {
		e.emit(Notification{
			Type:      string(ev.Type),
			MatchID:   id,
			Player:    ev.Player,
			Timestamp: ev.Timestamp,
			Event:     ev,
		})
	})
	state, err := NewGameState(settings, decks, nil, logger, forward)
	if err != nil {
		return "", fmt.Errorf("start match: %w", err)
	}
	for i, name := range players {
		if name != "" {
			state.players[i].Name = name
		}
	}

	effective := settings
	effective.Seed = state.Seed()
	m := &match{
		id:        id,
		players:   append([]string(nil), players...),
		state:     state,
		startedAt: time.Now(),
		replay:    newReplay(id, players, effective, decks, state.Checksum()),
	}

	e.mu.Lock()
	if e.maxMatches > 0 && len(e.matches) >= e.maxMatches {
		e.mu.Unlock()
		return "", ErrTooManyMatches
	}
	e.matches[id] = m
	e.mu.Unlock()

	logger.Info("match started",
		zap.Strings("players", players),
		zap.Uint32("seed", state.Seed()),
	)
	return id, nil
}

func (e *Engine) get(matchID string) (*match, error) {
	e.mu.RLock()
	m, ok := e.matches[matchID]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return m, nil
}

// ProcessAction applies one action. A finished match is recorded once.
func (e *Engine) ProcessAction(ctx context.Context, matchID string, action Action) (Result, error) {
	m, err := e.get(matchID)
	if err != nil {
		return ResultGameOver, err
	}

	m.mu.Lock()
	result := m.state.Process(action)
	m.replay.record(action, result, m.state.Checksum())
	var finished *MatchResult
	var replay *Replay
	if m.state.IsGameOver() && !m.recorded {
		m.recorded = true
		finished = &MatchResult{
			MatchID:    m.id,
			Players:    append([]string(nil), m.players...),
			Winner:     m.state.Winner(),
			Turns:      m.state.Turn(),
			Seed:       m.state.Seed(),
			Checksum:   m.state.Checksum(),
			Stats:      m.state.AllStats(),
			StartedAt:  m.startedAt,
			FinishedAt: time.Now(),
		}
		replay = m.replay.clone()
	}
	m.mu.Unlock()

	e.logger.Debug("action processed",
		zap.String("match_id", matchID),
		zap.String("action", string(action.Kind)),
		zap.Int("player", int(action.Player)),
		zap.String("result", result.String()),
	)

	if finished != nil {
		e.record(ctx, *finished)
		e.saveReplay(replay)
	}
	return result, nil
}

func (e *Engine) saveReplay(replay *Replay) {
	e.mu.RLock()
	dir := e.replayDir
	e.mu.RUnlock()
	if dir == "" {
		return
	}
	if err := replay.SaveToFile(dir); err != nil {
		e.logger.Error("failed to save replay",
			zap.String("match_id", replay.MatchID),
			zap.Error(err),
		)
		return
	}
	e.logger.Info("saved replay to disk",
		zap.String("match_id", replay.MatchID),
		zap.Int("actions", replay.Len()),
		zap.String("directory", dir),
	)
}

// Replay returns a copy of a hosted match's action log.
func (e *Engine) Replay(matchID string) (*Replay, error) {
	m, err := e.get(matchID)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replay.clone(), nil
}

func (e *Engine) record(ctx context.Context, result MatchResult) {
	e.mu.RLock()
	recorder := e.recorder
	e.mu.RUnlock()
	if recorder == nil {
		return
	}
	if err := recorder.RecordResult(ctx, result); err != nil {
		e.logger.Error("failed to record match result",
			zap.String("match_id", result.MatchID),
			zap.Error(err),
		)
	}
}

// View runs fn with the match state locked. fn must only read.
func (e *Engine) View(matchID string, fn func(*GameState)) error {
	m, err := e.get(matchID)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.state)
	return nil
}

// GameInfo snapshots a match.
func (e *Engine) GameInfo(matchID string) (GameInfo, error) {
	var info GameInfo
	err := e.View(matchID, func(g *GameState) { info = g.GameInfo() })
	return info, err
}

// ListMatches returns the hosted matches ordered by start time.
func (e *Engine) ListMatches() []MatchSummary {
	e.mu.RLock()
	all := make([]*match, 0, len(e.matches))
	for _, m := range e.matches {
		all = append(all, m)
	}
	e.mu.RUnlock()

	out := make([]MatchSummary, 0, len(all))
	for _, m := range all {
		m.mu.Lock()
		out = append(out, MatchSummary{
			MatchID:   m.id,
			Players:   append([]string(nil), m.players...),
			Turn:      m.state.Turn(),
			Phase:     m.state.Phase().String(),
			Winner:    m.state.Winner(),
			StartedAt: m.startedAt,
		})
		m.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// EndMatch removes a match.
func (e *Engine) EndMatch(matchID string) error {
	e.mu.Lock()
	_, ok := e.matches[matchID]
	delete(e.matches, matchID)
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	e.logger.Info("match removed", zap.String("match_id", matchID))
	return nil
}
