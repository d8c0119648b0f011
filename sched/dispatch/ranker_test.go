package dispatch

import (
	"testing"

	"github.com/addthis/hydra-dispatch/sched"
)

func TestBestHost_EmptyCandidates(t *testing.T) {
	ledger := NewLedger(NewFakeClock(0), 60_000, nil)
	_, ok := BestHost(nil, ledger)
	if ok {
		t.Fatal("expected no host for empty candidates")
	}
}

func TestBestHost_PrefersMoreEffectiveSlots(t *testing.T) {
	ledger := NewLedger(NewFakeClock(0), 60_000, nil)
	ledger.MarkAvailable("busy")
	ledger.MarkAvailable("idle")
	ledger.MarkAvailable("idle")

	best, ok := BestHost([]sched.HostState{
		{HostID: "busy"},
		{HostID: "idle"},
	}, ledger)
	if !ok || best.HostID != "idle" {
		t.Fatalf("expected idle (2 slots) to beat busy (1 slot), got %+v", best)
	}
}

func TestBestHost_TiebreaksByMeanActiveTasksThenHostID(t *testing.T) {
	ledger := NewLedger(NewFakeClock(0), 60_000, nil)
	ledger.MarkAvailable("a")
	ledger.MarkAvailable("b")
	ledger.MarkAvailable("c")

	// Equal slots, "b" has fewer mean active tasks: "b" should win.
	best, ok := BestHost([]sched.HostState{
		{HostID: "a", MeanActiveTasks: 3.0},
		{HostID: "b", MeanActiveTasks: 1.0},
	}, ledger)
	if !ok || best.HostID != "b" {
		t.Fatalf("expected b (lower mean active tasks) to win, got %+v", best)
	}

	// Equal slots, equal mean active tasks: ascending host id wins.
	best, ok = BestHost([]sched.HostState{
		{HostID: "c", MeanActiveTasks: 1.0},
		{HostID: "a", MeanActiveTasks: 1.0},
	}, ledger)
	if !ok || best.HostID != "a" {
		t.Fatalf("expected a (lower host id) to win full tie, got %+v", best)
	}
}

func TestBestHost_SingleCandidate(t *testing.T) {
	ledger := NewLedger(NewFakeClock(0), 60_000, nil)
	best, ok := BestHost([]sched.HostState{{HostID: "only"}}, ledger)
	if !ok || best.HostID != "only" {
		t.Fatalf("expected the sole candidate to win, got %+v", best)
	}
}
