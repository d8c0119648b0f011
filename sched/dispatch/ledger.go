package dispatch

import (
	"sync"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"

	"github.com/addthis/hydra-dispatch/common/stats"
	"github.com/addthis/hydra-dispatch/sched"
)

// Ledger tracks the effective available-slot count for each host,
// accounting for kicks that have been emitted but not yet reflected in a
// fresh HostState refresh. All operations serialize on a single internal
// mutex; RefreshFrom is an atomic swap of the whole map under that mutex,
// so no observer ever sees a half-refreshed ledger (I4, I5).
//
// Lock order note: Ledger must never be held while acquiring the queue's
// mutex. Callers that hold the queue lock may call into Ledger (queue ->
// ledger is the only legal order); Ledger must never call back into the
// queue.
type Ledger struct {
	mu  sync.Mutex
	avl map[string]int

	lastRefreshMs  int64
	refreshMinGap  int64
	clock          Clock
	stat           stats.StatsReceiver
	availableGauge func(hostID string) stats.Gauge
}

// NewLedger builds an empty Ledger. refreshMinGapMs is the minimum
// interval between two RefreshFrom calls that actually replace the map
// (sched.Config.AvailRefreshMs).
func NewLedger(clock Clock, refreshMinGapMs int64, stat stats.StatsReceiver) *Ledger {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	l := &Ledger{
		avl:           make(map[string]int),
		refreshMinGap: refreshMinGapMs,
		clock:         clock,
		stat:          stat.Scope("ledger"),
	}
	l.availableGauge = func(hostID string) stats.Gauge {
		return l.stat.Scope(hostID).Gauge(stats.LedgerAvailableSlotsGauge)
	}
	return l
}

// MarkAvailable records that one slot has become available on hostID,
// typically in response to a task completion report.
func (l *Ledger) MarkAvailable(hostID string) {
	if hostID == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.avl[hostID] = l.avl[hostID] + 1
	l.stat.Counter(stats.LedgerCreditsCounter).Inc(1)
	l.availableGauge(hostID).Update(int64(l.avl[hostID]))
}

// MarkKicked records that one slot on hostID has been optimistically
// debited because a kick was just emitted. The result is clamped at zero:
// a debit on an absent or zero-valued host leaves its count at zero (an
// absent host gets a zero-valued entry, so it becomes tracked), and a
// warning is logged since it indicates a missed completion event.
func (l *Ledger) MarkKicked(hostID string) {
	if hostID == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.avl[hostID]
	next := cur - 1
	if next < 0 {
		log.WithFields(log.Fields{"hostId": hostID, "available": cur}).
			Warn("ledger debit would go negative, clamping to zero")
		next = 0
	}
	l.avl[hostID] = next
	l.stat.Counter(stats.LedgerDebitsCounter).Inc(1)
	l.availableGauge(hostID).Update(int64(next))
}

// HasSlot reports whether hostID currently has at least one effective
// free slot.
func (l *Ledger) HasSlot(hostID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.avl[hostID] > 0
}

// Snapshot returns the current effective available-slot count for
// hostID. Absent hosts read as zero.
func (l *Ledger) Snapshot(hostID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.avl[hostID]
}

// SnapshotTracked returns the current effective available-slot count
// for hostID and whether hostID has an entry in the ledger at all. A
// host untracked by the ledger (absent from the last RefreshFrom and not
// passed to MarkAvailable or MarkKicked since)
// reads as (0, false), distinct from a tracked host that has been
// debited down to zero, which reads as (0, true). Callers that treat
// "not yet tracked" and "tracked and full" differently need this; plain
// Snapshot collapses both to zero.
func (l *Ledger) SnapshotTracked(hostID string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.avl[hostID]
	return v, ok
}

// SnapshotMany returns the effective available-slot count for each of
// hostIDs, all read under a single lock acquisition (I4): the whole
// batch reflects one consistent ledger state, so a concurrent
// RefreshFrom can never interleave partway through a multi-host
// comparison the way it could across repeated Snapshot calls. Absent
// hosts read as zero.
func (l *Ledger) SnapshotMany(hostIDs []string) map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int, len(hostIDs))
	for _, id := range hostIDs {
		out[id] = l.avl[id]
	}
	return out
}

// RefreshFrom atomically replaces the entire ledger with the available
// slots reported by hosts, provided at least refreshMinGap has elapsed
// since the last refresh. Hosts with an empty HostID are skipped. No-op
// (including the skip) if called too soon.
func (l *Ledger) RefreshFrom(hosts []sched.HostState, nowMs int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if nowMs-l.lastRefreshMs < l.refreshMinGap {
		return
	}
	fresh := make(map[string]int, len(hosts))
	for _, h := range hosts {
		if h.HostID == "" {
			continue
		}
		fresh[h.HostID] = h.AvailableSlots
	}
	l.avl = fresh
	l.lastRefreshMs = nowMs
	l.stat.Counter(stats.LedgerRefreshesCounter).Inc(1)
	l.stat.Gauge(stats.LedgerTrackedHostsGauge).Update(int64(len(fresh)))
	for hostID, slots := range fresh {
		l.availableGauge(hostID).Update(int64(slots))
	}
	log.WithField("hosts", len(fresh)).Trace("ledger refreshed from host state")
}

// DebugString renders the current ledger contents for operator logs. It
// is never used for correctness decisions, only diagnostics (spec's
// "Host Avail Slots" trace line, reproduced here with go-spew instead of
// string concatenation).
func (l *Ledger) DebugString() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return spew.Sdump(l.avl)
}
