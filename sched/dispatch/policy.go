package dispatch

import (
	log "github.com/sirupsen/logrus"

	"github.com/addthis/hydra-dispatch/common/stats"
	"github.com/addthis/hydra-dispatch/sched"
)

// Policy glues the ledger, migration gate, ranker, and clock into the
// admission decisions of C6. Every method is a pure function of the
// current ledger/gate/clock state and its inputs: identical snapshots
// and inputs always yield identical decisions (spec 4.5.4).
type Policy struct {
	cfg    sched.Config
	clock  Clock
	ledger *Ledger
	gate   *MigrationGate
	stat   stats.StatsReceiver
}

// NewPolicy builds a Policy over an existing Ledger and MigrationGate.
func NewPolicy(cfg sched.Config, clock Clock, ledger *Ledger, gate *MigrationGate, stat stats.StatsReceiver) *Policy {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &Policy{cfg: cfg, clock: clock, ledger: ledger, gate: gate, stat: stat.Scope("dispatchPolicy")}
}

// PickHost selects the best eligible host for a task (4.5.1). candidates
// must already be pre-filtered by the caller for affinity, replica
// constraints, and liveness: the ranker does not re-check any of those.
// If requireFreeSlot is true, a host with no effective free slot is never
// returned even if it otherwise ranks best.
func (p *Policy) PickHost(candidates []sched.HostState, requireFreeSlot bool) (sched.HostState, bool) {
	best, ok := BestHost(candidates, p.ledger)
	if !ok {
		return sched.HostState{}, false
	}
	if !requireFreeSlot {
		return best, true
	}
	if p.ledger.Snapshot(best.HostID) > 0 {
		return best, true
	}
	log.WithField("host", best.HostID).Debug("pickHost: best-ranked host has no free slot")
	return sched.HostState{}, false
}

// MayKickNewTaskOn implements the last-slot delay rule (4.5.2): a new
// task may not take a multi-slot host's last free slot until it has
// waited LastSlotDelayMs on the queue, so the last slot stays available
// for restarts and high-priority work in the meantime. Single-slot hosts
// are always usable, since withholding their only slot would make them
// unusable entirely. A host the ledger has never seen is treated as
// usable too (true), matching shouldKickNewTaskOnHost's
// containsKey(host) check: the delay only applies once the ledger
// actually has an entry showing one slot or fewer.
func (p *Policy) MayKickNewTaskOn(host sched.HostState, timeOnQueueMs int64) bool {
	available, tracked := p.ledger.SnapshotTracked(host.HostID)
	if !tracked {
		return true
	}
	if available > 1 {
		return true
	}
	if host.MaxSlots == 1 {
		return true
	}
	admit := timeOnQueueMs > p.cfg.LastSlotDelayMs
	log.WithFields(log.Fields{
		"host":          host.HostID,
		"timeOnQueueMs": timeOnQueueMs,
		"admit":         admit,
	}).Debug("mayKickNewTaskOn: last-slot delay check")
	return admit
}

// MayMigrate implements the migration admission checks of 4.5.3: the task
// and target must look sane, the target must have a free slot, and
// neither the task's current host nor the target may have participated
// in a migration within the last MigrationIntervalPerHostMs.
func (p *Policy) MayMigrate(task sched.TaskSummary, targetHostID string, nowMs int64) bool {
	if !p.cfg.MigrationEnabled {
		return false
	}
	if targetHostID == "" || task.ByteCount == 0 || task.CurrentHostID == "" {
		return false
	}
	if !p.ledger.HasSlot(targetHostID) {
		return false
	}
	if p.gate.RecentlyTouched(task.CurrentHostID, nowMs) || p.gate.RecentlyTouched(targetHostID, nowMs) {
		log.WithFields(log.Fields{
			"task":   task.Handle,
			"source": task.CurrentHostID,
			"target": targetHostID,
		}).Debug("migration denied: host recently touched by migration gate")
		return false
	}
	return true
}

// SizeAgeAdmits implements 4.5.3's size/age growth rule: the byte limit a
// task must stay under to migrate starts at MigrationMinBytes and grows
// linearly to MigrationMaxBytes as timeOnQueueMs approaches
// MigrationGrowthMs, then holds at MigrationMaxBytes.
func (p *Policy) SizeAgeAdmits(byteCount int64, timeOnQueueMs int64) bool {
	return byteCount < p.MigrationByteLimit(timeOnQueueMs)
}

// MigrationByteLimit returns the current size limit a task must stay
// under to be admitted for migration, given how long it has been queued.
// Exposed so callers (e.g. an operator UI) can report how close a task is
// to becoming migratable without duplicating SizeAgeAdmits' arithmetic;
// the original exposes the same two constants as static accessors for
// this purpose.
func (p *Policy) MigrationByteLimit(timeOnQueueMs int64) int64 {
	growth := p.cfg.MigrationGrowthMs
	if growth <= 0 {
		growth = 1
	}
	pct := float64(timeOnQueueMs) / float64(growth)
	if pct > 1 {
		pct = 1
	}
	if pct < 0 {
		pct = 0
	}
	span := float64(p.cfg.MigrationMaxBytes - p.cfg.MigrationMinBytes)
	return p.cfg.MigrationMinBytes + int64(pct*span)
}

// MarkPairMigrated records a completed migration so neither host is
// reconsidered for another migration until the gate's TTL expires.
func (p *Policy) MarkPairMigrated(srcHostID, dstHostID string, nowMs int64) {
	p.gate.MarkPair(srcHostID, dstHostID, nowMs)
	p.stat.Counter(stats.PolicyMigrationsCommittedCounter).Inc(1)
	log.WithFields(log.Fields{"src": srcHostID, "dst": dstHostID}).Info("migration committed")
}

// MarkHostAvailable credits one slot back to hostID, typically on a task
// completion report.
func (p *Policy) MarkHostAvailable(hostID string) {
	p.ledger.MarkAvailable(hostID)
}

// MarkHostKicked optimistically debits one slot from hostID when a kick
// is emitted.
func (p *Policy) MarkHostKicked(hostID string) {
	p.ledger.MarkKicked(hostID)
	p.stat.Counter(stats.PolicyKicksEmittedCounter).Inc(1)
}

// RefreshLedger reconciles the ledger against an authoritative host list,
// subject to the ledger's own minimum refresh interval, and sweeps any
// expired MigrationGate entries so the gate's map doesn't grow forever
// on a long-lived cluster with high host churn.
func (p *Policy) RefreshLedger(hosts []sched.HostState, nowMs int64) {
	p.ledger.RefreshFrom(hosts, nowMs)
	p.gate.Sweep(nowMs)
}
