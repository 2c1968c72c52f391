package rules

import (
	"fmt"

	"github.com/magefree/hexduel-server-go/internal/game/cards"
)

// Phase is the lifecycle stage of a match. Phases only move forward.
type Phase int

const (
	PhaseSetup Phase = iota
	PhasePlay
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseSetup: "SETUP",
	PhasePlay:  "PLAY",
	PhaseEnd:   "END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// TurnManager tracks the match phase, the turn counter and whose turn it is.
// The turn counter starts at 0 and grows each time play wraps back to seat 0.
type TurnManager struct {
	players    int
	turnNumber int
	current    cards.PlayerID
	phase      Phase
}

// NewTurnManager creates a turn manager for players seats in SETUP.
func NewTurnManager(players int) *TurnManager {
	if players < 1 {
		players = 1
	}
	return &TurnManager{players: players}
}

// Phase returns the current phase.
func (tm *TurnManager) Phase() Phase {
	return tm.phase
}

// TurnNumber returns the completed rotation count.
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// Current returns the seat whose turn it is.
func (tm *TurnManager) Current() cards.PlayerID {
	return tm.current
}

// Players returns the number of seats.
func (tm *TurnManager) Players() int {
	return tm.players
}

// Begin moves SETUP to PLAY with seat 0 to act. It reports false if the
// match is already past setup.
func (tm *TurnManager) Begin() bool {
	if tm.phase != PhaseSetup {
		return false
	}
	tm.phase = PhasePlay
	tm.current = 0
	return true
}

// Finish moves the match to END. END is terminal.
func (tm *TurnManager) Finish() {
	tm.phase = PhaseEnd
}

// Over reports whether the match has ended.
func (tm *TurnManager) Over() bool {
	return tm.phase == PhaseEnd
}

// Advance passes the turn to the next seat, incrementing the turn counter on
// wraparound to seat 0. It returns the new current seat.
func (tm *TurnManager) Advance() cards.PlayerID {
	tm.current = cards.PlayerID((int(tm.current) + 1) % tm.players)
	if tm.current == 0 {
		tm.turnNumber++
	}
	return tm.current
}
