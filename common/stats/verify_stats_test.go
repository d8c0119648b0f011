package stats

import (
	"strings"
	"testing"
)

// exercises VerifyStats/PPrintStats/RuleChecker against the same
// scope/name shapes sched/dispatch and sched/queue emit (see
// stats_names.go), without importing those packages directly: that
// would be an import cycle, since they import this package.
func TestVerifyStats_PassesWhenRuleSatisfied(t *testing.T) {
	stat, _ := NewCustomStatsReceiver(NewFinagleStatsRegistry, 0)
	ledgerStat := stat.Scope("ledger")
	ledgerStat.Counter(LedgerCreditsCounter).Inc(3)
	ledgerStat.Scope("host-01").Gauge(LedgerAvailableSlotsGauge).Update(2)

	reg := stat.(*defaultStatsReceiver).registry

	VerifyStats(t.Name(), reg, t, map[string]Rule{
		"ledger/credits":                {Checker: Int64EqTest, Value: 3},
		"ledger/host-01/availableSlots": {Checker: Int64EqTest, Value: 2},
	})
}

func TestVerifyStats_FlagsMismatchedValue(t *testing.T) {
	stat, _ := NewCustomStatsReceiver(NewFinagleStatsRegistry, 0)
	policyStat := stat.Scope("dispatchPolicy")
	policyStat.Counter(PolicyKicksEmittedCounter).Inc(1)

	reg := stat.(*defaultStatsReceiver).registry

	recorder := &testing.T{}
	VerifyStats(t.Name(), reg, recorder, map[string]Rule{
		"dispatchPolicy/kicksEmitted": {Checker: Int64EqTest, Value: 5},
	})
	if !recorder.Failed() {
		t.Fatal("expected VerifyStats to flag a mismatched counter value")
	}
}

func TestVerifyStats_DoesNotExistPassesOnAbsentKey(t *testing.T) {
	stat, _ := NewCustomStatsReceiver(NewFinagleStatsRegistry, 0)
	stat.Scope("priorityQueue").Gauge(QueueSizeGauge).Update(0)

	reg := stat.(*defaultStatsReceiver).registry

	VerifyStats(t.Name(), reg, t, map[string]Rule{
		"priorityQueue/removed": {Checker: DoesNotExistTest},
	})
}

func TestPPrintStats_DoesNotPanicOnEmptyRegistry(t *testing.T) {
	reg := NewFinagleStatsRegistry()
	if !strings.Contains(t.Name(), "PPrintStats") {
		t.Fatalf("unexpected test name %q", t.Name())
	}
	PPrintStats(t.Name(), reg)
}
