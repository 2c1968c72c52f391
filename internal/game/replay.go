package game

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/magefree/hexduel-server-go/internal/game/cards"
	"go.uber.org/zap"
)

const replayVersion = 1

// ErrReplayDiverged is returned when re-running a replay does not reproduce
// the recorded results.
var ErrReplayDiverged = errors.New("replay diverged")

// ReplayStep is one applied action and what it produced.
type ReplayStep struct {
	Action   Action
	Result   Result
	Checksum string
}

// Replay holds a match's opening inputs and its action log. Since setup and
// shuffling are seeded, that is enough to rebuild every intermediate state.
type Replay struct {
	MatchID  string
	Players  []string
	Settings Settings
	Decks    [][]cards.Template
	Opening  string
	Steps    []ReplayStep
}

func newReplay(matchID string, players []string, settings Settings, decks [][]cards.Template, opening string) *Replay {
	r := &Replay{
		MatchID:  matchID,
		Players:  append([]string(nil), players...),
		Settings: settings,
		Opening:  opening,
	}
	for _, d := range decks {
		r.Decks = append(r.Decks, append([]cards.Template(nil), d...))
	}
	return r
}

func (r *Replay) record(action Action, result Result, checksum string) {
	r.Steps = append(r.Steps, ReplayStep{Action: action, Result: result, Checksum: checksum})
}

func (r *Replay) clone() *Replay {
	out := *r
	out.Players = append([]string(nil), r.Players...)
	out.Steps = append([]ReplayStep(nil), r.Steps...)
	out.Decks = nil
	for _, d := range r.Decks {
		out.Decks = append(out.Decks, append([]cards.Template(nil), d...))
	}
	return &out
}

// Len returns the number of recorded actions.
func (r *Replay) Len() int { return len(r.Steps) }

// Rebuild recreates the match and applies the first n actions, or all of
// them when n is negative or past the end. Each step must reproduce its
// recorded result and checksum.
func (r *Replay) Rebuild(n int, logger *zap.Logger) (*GameState, error) {
	g, err := NewGameState(r.Settings, r.Decks, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("rebuild %s: %w", r.MatchID, err)
	}
	for i, name := range r.Players {
		if name != "" && i < PlayerCount {
			g.players[i].Name = name
		}
	}
	if r.Opening != "" && g.Checksum() != r.Opening {
		return nil, fmt.Errorf("%w: opening state of %s", ErrReplayDiverged, r.MatchID)
	}
	if n < 0 || n > len(r.Steps) {
		n = len(r.Steps)
	}
	for i, step := range r.Steps[:n] {
		got := g.Process(step.Action)
		if got != step.Result {
			return nil, fmt.Errorf("%w: step %d returned %s, recorded %s", ErrReplayDiverged, i, got, step.Result)
		}
		if step.Checksum != "" && g.Checksum() != step.Checksum {
			return nil, fmt.Errorf("%w: step %d checksum mismatch", ErrReplayDiverged, i)
		}
	}
	return g, nil
}

// Verify re-runs the whole replay and returns the final checksum.
func (r *Replay) Verify(logger *zap.Logger) (string, error) {
	g, err := r.Rebuild(-1, logger)
	if err != nil {
		return "", err
	}
	return g.Checksum(), nil
}

type replayMetadata struct {
	MatchID   string
	Timestamp time.Time
	Version   int
}

func replayPath(directory, matchID string) string {
	return filepath.Join(directory, matchID+".replay")
}

// SaveToFile writes the replay to <directory>/<match id>.replay as gzipped gob.
func (r *Replay) SaveToFile(directory string) error {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(replayPath(directory, r.MatchID))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	encoder := gob.NewEncoder(gzipWriter)
	metadata := replayMetadata{MatchID: r.MatchID, Timestamp: time.Now(), Version: replayVersion}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, matchID string) (*Replay, error) {
	file, err := os.Open(replayPath(directory, matchID))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)
	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}
	var r Replay
	if err := decoder.Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	return &r, nil
}
