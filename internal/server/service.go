// Package server exposes the match engine over gRPC and WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/magefree/hexduel-server-go/internal/cardload"
	"github.com/magefree/hexduel-server-go/internal/game"
	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"github.com/magefree/hexduel-server-go/internal/repository"
	"go.uber.org/zap"
)

// StartMatchRequest names the two players and, optionally, their decks.
// Empty deck names take the built-in decks in seat order.
type StartMatchRequest struct {
	Players []string `json:"players"`
	Decks   []string `json:"decks,omitempty"`
	Seed    uint32   `json:"seed,omitempty"`
}

// StartMatchResponse carries the new match id and its opening state.
type StartMatchResponse struct {
	MatchID string        `json:"match_id"`
	State   game.GameInfo `json:"state"`
}

// SubmitActionRequest is one action against a match.
type SubmitActionRequest struct {
	MatchID string      `json:"match_id"`
	Action  game.Action `json:"action"`
}

// SubmitActionResponse reports the result code and the state after it.
type SubmitActionResponse struct {
	Result string        `json:"result"`
	OK     bool          `json:"ok"`
	State  game.GameInfo `json:"state"`
}

// MatchService is the operations both transports share.
type MatchService struct {
	engine   *game.Engine
	store    repository.Store
	decks    []cardload.Deck
	settings game.Settings
	logger   *zap.Logger
}

// NewMatchService wires the engine to a store. decks are the fallback decks
// used when a request names none; settings are the rules every match uses.
func NewMatchService(engine *game.Engine, store repository.Store, decks []cardload.Deck, settings game.Settings, logger *zap.Logger) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(decks) == 0 {
		decks = cardload.DefaultDecks()
	}
	return &MatchService{
		engine:   engine,
		store:    store,
		decks:    decks,
		settings: settings,
		logger:   logger,
	}
}

// Engine returns the hosted engine.
func (s *MatchService) Engine() *game.Engine { return s.engine }

func (s *MatchService) deckFor(ctx context.Context, seat int, name string) ([]cards.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.decks[seat%len(s.decks)].Cards, nil
	}
	for _, d := range s.decks {
		if d.Name == name {
			return d.Cards, nil
		}
	}
	if s.store == nil {
		return nil, fmt.Errorf("deck %q: %w", name, repository.ErrNotFound)
	}
	return s.store.LoadDeck(ctx, name)
}

// StartMatch creates a match.
func (s *MatchService) StartMatch(ctx context.Context, req StartMatchRequest) (StartMatchResponse, error) {
	if len(req.Players) != game.PlayerCount {
		return StartMatchResponse{}, fmt.Errorf("%w: need %d players", ErrInvalidRequest, game.PlayerCount)
	}
	decks := make([][]cards.Template, game.PlayerCount)
	for seat := range decks {
		var name string
		if seat < len(req.Decks) {
			name = req.Decks[seat]
		}
		deck, err := s.deckFor(ctx, seat, name)
		if err != nil {
			return StartMatchResponse{}, err
		}
		decks[seat] = deck
	}

	settings := s.settings
	if req.Seed != 0 {
		settings.Seed = req.Seed
	}
	id, err := s.engine.StartMatch(settings, decks, req.Players)
	if err != nil {
		return StartMatchResponse{}, err
	}
	info, err := s.engine.GameInfo(id)
	if err != nil {
		return StartMatchResponse{}, err
	}
	return StartMatchResponse{MatchID: id, State: info}, nil
}

// SubmitAction applies one action and returns the new state.
func (s *MatchService) SubmitAction(ctx context.Context, req SubmitActionRequest) (SubmitActionResponse, error) {
	if strings.TrimSpace(req.MatchID) == "" {
		return SubmitActionResponse{}, fmt.Errorf("%w: match_id is required", ErrInvalidRequest)
	}
	result, err := s.engine.ProcessAction(ctx, req.MatchID, req.Action)
	if err != nil {
		return SubmitActionResponse{}, err
	}
	info, err := s.engine.GameInfo(req.MatchID)
	if err != nil {
		return SubmitActionResponse{}, err
	}
	return SubmitActionResponse{Result: result.String(), OK: result.OK(), State: info}, nil
}

// State snapshots a match.
func (s *MatchService) State(_ context.Context, matchID string) (game.GameInfo, error) {
	return s.engine.GameInfo(matchID)
}

// ListMatches lists hosted matches.
func (s *MatchService) ListMatches(context.Context) []game.MatchSummary {
	return s.engine.ListMatches()
}

// ListResults returns recorded results, newest first.
func (s *MatchService) ListResults(ctx context.Context, limit int) ([]game.MatchResult, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListResults(ctx, limit)
}

// EndMatch drops a match.
func (s *MatchService) EndMatch(_ context.Context, matchID string) error {
	return s.engine.EndMatch(matchID)
}

// ErrInvalidRequest marks malformed requests.
var ErrInvalidRequest = errors.New("invalid request")
