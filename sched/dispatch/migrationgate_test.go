package dispatch

import (
	"testing"
)

func TestMigrationGate_RecentlyTouched(t *testing.T) {
	g := NewMigrationGate(240_000)
	if g.RecentlyTouched("h1", 0) {
		t.Fatal("expected no entry yet")
	}
	g.Mark("h1", 0)
	if !g.RecentlyTouched("h1", 0) {
		t.Fatal("expected entry to exist immediately after Mark")
	}
}

func TestMigrationGate_MarkPair(t *testing.T) {
	g := NewMigrationGate(240_000)
	g.MarkPair("src", "dst", 0)
	if !g.RecentlyTouched("src", 0) || !g.RecentlyTouched("dst", 0) {
		t.Fatal("expected both hosts marked")
	}
}

func TestMigrationGate_EmptyHostIDNeverTouched(t *testing.T) {
	g := NewMigrationGate(240_000)
	g.Mark("", 0)
	if g.RecentlyTouched("", 0) {
		t.Fatal("expected empty host id to be rejected by Mark")
	}
}

func TestMigrationGate_DoubleMarkPairIsIdempotent(t *testing.T) {
	g := NewMigrationGate(240_000)
	g.MarkPair("a", "b", 0)
	g.MarkPair("a", "b", 1_000)
	if !g.RecentlyTouched("a", 1_000) || !g.RecentlyTouched("b", 1_000) {
		t.Fatal("expected both hosts still touched after repeated MarkPair")
	}
}

// TestMigrationGate_ExpiresByLogicalTime checks I6: membership is a pure
// function of (entries, now): no real time needs to pass, only nowMs
// needs to advance past the TTL.
func TestMigrationGate_ExpiresByLogicalTime(t *testing.T) {
	g := NewMigrationGate(240_000)
	g.Mark("h1", 100_000)

	if !g.RecentlyTouched("h1", 250_000) {
		t.Fatal("expected h1 still touched at t=250,000 (within 240,000ms of t=100,000)")
	}
	if g.RecentlyTouched("h1", 340_001) {
		t.Fatal("expected h1 expired at t=340,001 (just past 240,000ms of t=100,000)")
	}
}

// TestMigrationGate_InclusiveBoundary checks that a host marked exactly
// ttlMs ago is still gated: the interval is closed, not open.
func TestMigrationGate_InclusiveBoundary(t *testing.T) {
	g := NewMigrationGate(240_000)
	g.Mark("h1", 100_000)

	if !g.RecentlyTouched("h1", 340_000) {
		t.Fatal("expected h1 still touched at exactly nowMs-markedAt == ttlMs")
	}
	if g.RecentlyTouched("h1", 340_001) {
		t.Fatal("expected h1 expired one ms past the ttl boundary")
	}
}

func TestMigrationGate_SweepDropsExpiredEntriesOnly(t *testing.T) {
	g := NewMigrationGate(1_000)
	g.Mark("old", 0)
	g.Mark("fresh", 9_000)

	g.Sweep(10_000)

	if g.RecentlyTouched("old", 10_000) {
		t.Fatal("expected old entry swept")
	}
	if !g.RecentlyTouched("fresh", 10_000) {
		t.Fatal("expected fresh entry to survive sweep")
	}
}
