package sched

import "time"

// Config holds every tunable read once at construction by the dispatch
// queue's components. There is no process-wide mutable singleton: callers
// build a Config and pass it to dispatch.NewPolicy explicitly (and its
// interval fields to dispatch.NewLedger / dispatch.NewMigrationGate).
type Config struct {
	// AvailRefreshMs is the minimum interval between HostSlotLedger
	// refreshes from an authoritative HostState list.
	AvailRefreshMs int64

	// LastSlotDelayMs is how long a new task must wait on the queue
	// before it may take a multi-slot host's last free slot.
	LastSlotDelayMs int64

	// MigrationEnabled is the master switch for task migration.
	MigrationEnabled bool

	// MigrationMinBytes is the size below which a task is always
	// migratable, regardless of time on queue.
	MigrationMinBytes int64

	// MigrationMaxBytes is the hard ceiling a migratable task's size
	// limit grows to once it has waited MigrationGrowthMs on the queue.
	MigrationMaxBytes int64

	// MigrationGrowthMs is the time it takes the size limit to grow
	// from MigrationMinBytes to MigrationMaxBytes.
	MigrationGrowthMs int64

	// MigrationIntervalPerHostMs is the MigrationGate TTL: a host may
	// not participate in more than one migration per this interval.
	MigrationIntervalPerHostMs int64
}

// DefaultConfig returns the tunables used by the original implementation
// this queue is modeled on.
func DefaultConfig() Config {
	return Config{
		AvailRefreshMs:             60_000,
		LastSlotDelayMs:            90_000,
		MigrationEnabled:           true,
		MigrationMinBytes:          50_000_000,
		MigrationMaxBytes:          10_000_000_000,
		MigrationGrowthMs:          1_200_000,
		MigrationIntervalPerHostMs: 240_000,
	}
}

// AvailRefresh returns AvailRefreshMs as a time.Duration, for callers that
// prefer working in durations rather than raw milliseconds.
func (c Config) AvailRefresh() time.Duration {
	return time.Duration(c.AvailRefreshMs) * time.Millisecond
}

// MigrationIntervalPerHost returns MigrationIntervalPerHostMs as a
// time.Duration.
func (c Config) MigrationIntervalPerHost() time.Duration {
	return time.Duration(c.MigrationIntervalPerHostMs) * time.Millisecond
}
