package dispatch

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/addthis/hydra-dispatch/sched"
)

// TestPolicy_MigrationByteLimit_MonotonicInTime checks that the byte
// limit a task must stay under to migrate never decreases as it waits
// longer on the queue: SizeAgeAdmits can only become easier to satisfy
// over time, never harder.
func TestPolicy_MigrationByteLimit_MonotonicInTime(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("limit(t2) >= limit(t1) whenever t2 >= t1", prop.ForAll(
		func(t1, delta int64) bool {
			p := newTestPolicy(sched.DefaultConfig())
			t2 := t1 + delta
			return p.MigrationByteLimit(t2) >= p.MigrationByteLimit(t1)
		},
		gen.Int64Range(0, 5_000_000),
		gen.Int64Range(0, 5_000_000),
	))

	properties.TestingRun(t)
}

// TestPolicy_MayMigrate_DeniedWheneverGateTouched checks the invariant
// that mayMigrate never admits a migration when either endpoint has an
// unexpired MigrationGate entry, for randomly generated gate states.
func TestPolicy_MayMigrate_DeniedWheneverGateTouched(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("mayMigrate is false whenever src or dst is recently touched", prop.ForAll(
		func(touchSrc, touchDst bool, nowMs int64) bool {
			cfg := sched.DefaultConfig()
			p := newTestPolicy(cfg)
			p.MarkHostAvailable("dst")

			if touchSrc {
				p.gate.Mark("src", 0)
			}
			if touchDst {
				p.gate.Mark("dst", 0)
			}

			task := sched.TaskSummary{Handle: sched.NewTaskHandle("job", 0), ByteCount: 1, CurrentHostID: "src"}
			got := p.MayMigrate(task, "dst", nowMs)

			anyTouched := (touchSrc && p.gate.RecentlyTouched("src", nowMs)) ||
				(touchDst && p.gate.RecentlyTouched("dst", nowMs))
			if anyTouched {
				return !got
			}
			return got
		},
		gen.Bool(),
		gen.Bool(),
		gen.Int64Range(0, 1_000_000),
	))

	properties.TestingRun(t)
}
