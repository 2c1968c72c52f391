package rules

import "testing"

func TestTurnManagerLifecycle(t *testing.T) {
	tm := NewTurnManager(2)

	if tm.Phase() != PhaseSetup {
		t.Fatalf("expected SETUP, got %s", tm.Phase())
	}
	if !tm.Begin() {
		t.Fatal("begin from setup must succeed")
	}
	if tm.Begin() {
		t.Fatal("begin twice must fail")
	}
	if tm.Phase() != PhasePlay || tm.Current() != 0 || tm.TurnNumber() != 0 {
		t.Fatalf("unexpected state after begin: %s seat %d turn %d", tm.Phase(), tm.Current(), tm.TurnNumber())
	}

	if next := tm.Advance(); next != 1 {
		t.Fatalf("expected seat 1, got %d", next)
	}
	if tm.TurnNumber() != 0 {
		t.Fatalf("turn must not advance before wraparound, got %d", tm.TurnNumber())
	}
	if next := tm.Advance(); next != 0 {
		t.Fatalf("expected seat 0, got %d", next)
	}
	if tm.TurnNumber() != 1 {
		t.Fatalf("expected turn 1 after wraparound, got %d", tm.TurnNumber())
	}

	tm.Finish()
	if !tm.Over() || tm.Phase() != PhaseEnd {
		t.Fatal("finish must end the match")
	}
	if tm.Begin() {
		t.Fatal("an ended match cannot begin again")
	}
}

func TestPhaseNames(t *testing.T) {
	if PhasePlay.String() != "PLAY" {
		t.Fatalf("unexpected name %s", PhasePlay)
	}
	if Phase(42).String() != "PHASE_42" {
		t.Fatalf("unexpected fallback name %s", Phase(42))
	}
}
