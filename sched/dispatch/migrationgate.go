package dispatch

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// MigrationGate rate-limits migrations so no host participates in more
// than one migration per interval. Its effective membership is a pure
// function of its entries and the caller-supplied nowMs (I6): an entry
// older than ttlMs is indistinguishable from absent, checked lazily at
// read time rather than swept by a background clock. This mirrors the
// ledger's own lazy-refresh style rather than reaching for an
// ecosystem TTL cache, whose eviction runs on wall-clock time and would
// make RecentlyTouched's answer depend on when the call happens to run
// instead of on the logical nowMs the rest of the package is driven by.
type MigrationGate struct {
	mu      sync.Mutex
	ttlMs   int64
	touched map[string]int64
}

// NewMigrationGate builds a gate whose entries expire ttlMs after the
// last write for that key.
func NewMigrationGate(ttlMs int64) *MigrationGate {
	return &MigrationGate{
		ttlMs:   ttlMs,
		touched: make(map[string]int64),
	}
}

// RecentlyTouched reports whether hostID was marked within the last
// ttlMs as of nowMs. The boundary is inclusive: a host marked exactly
// ttlMs ago is still considered touched, per the interval's "at most
// one migration per interval" definition. This is the opposite of
// Guava's expireAfterWrite, which evicts at >= ttl; that single-point
// disagreement with the original is deliberate (see DESIGN.md).
func (g *MigrationGate) RecentlyTouched(hostID string, nowMs int64) bool {
	if hostID == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	markedAt, ok := g.touched[hostID]
	if !ok {
		return false
	}
	return nowMs-markedAt <= g.ttlMs
}

// Mark records that hostID just participated in a migration as of
// nowMs, overwriting any existing entry and restarting its TTL.
func (g *MigrationGate) Mark(hostID string, nowMs int64) {
	if hostID == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.touched[hostID] = nowMs
}

// MarkPair marks both the source and destination host of a migration.
// Calling MarkPair twice for the same pair is equivalent to a single
// call with the later timestamp, since Mark always overwrites.
func (g *MigrationGate) MarkPair(srcHostID, dstHostID string, nowMs int64) {
	g.Mark(srcHostID, nowMs)
	g.Mark(dstHostID, nowMs)
	log.WithFields(log.Fields{"src": srcHostID, "dst": dstHostID}).Debug("migration gate marked pair")
}

// Sweep drops entries older than ttlMs as of nowMs. Membership never
// depends on having called Sweep (RecentlyTouched already treats an
// expired entry as absent), but a long-lived gate on a cluster with
// high host churn would otherwise grow the map forever. Callers
// typically invoke this alongside a ledger refresh.
func (g *MigrationGate) Sweep(nowMs int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for host, markedAt := range g.touched {
		if nowMs-markedAt > g.ttlMs {
			delete(g.touched, host)
		}
	}
}
