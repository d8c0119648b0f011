package stats

/*
This file defines the metric names emitted by the dispatch queue. As new
metrics are added please follow this pattern: a named constant here, and
a short comment on what it measures and who emits it.
*/

const (
	/*
		effective available slots tracked for a host, scoped under
		ledger/<hostId>. Emitted by sched/dispatch.Ledger on every
		credit, debit, and refresh.
	*/
	LedgerAvailableSlotsGauge = "availableSlots"

	/*
		count of MarkAvailable calls (slot credits) observed by the
		ledger.
	*/
	LedgerCreditsCounter = "credits"

	/*
		count of MarkKicked calls (slot debits) observed by the ledger,
		including debits that were clamped at zero.
	*/
	LedgerDebitsCounter = "debits"

	/*
		count of completed RefreshFrom calls that actually replaced the
		ledger (calls inside the minimum refresh interval are not
		counted).
	*/
	LedgerRefreshesCounter = "refreshes"

	/*
		number of distinct hosts present in the ledger immediately after
		the most recent refresh.
	*/
	LedgerTrackedHostsGauge = "trackedHosts"

	/*
		total number of items currently queued across every priority
		bucket. Emitted by sched/queue.PriorityQueue.
	*/
	QueueSizeGauge = "size"

	/*
		count of successful Enqueue/EnqueueLocked calls.
	*/
	QueueEnqueuedCounter = "enqueued"

	/*
		count of items removed, whether via Remove/RemoveLocked or via
		an Iterate visitor returning RemoveCurrent.
	*/
	QueueRemovedCounter = "removed"

	/*
		count of completed task migrations committed via
		Policy.MarkPairMigrated.
	*/
	PolicyMigrationsCommittedCounter = "migrationsCommitted"

	/*
		count of MarkHostKicked calls observed by the dispatch policy.
	*/
	PolicyKicksEmittedCounter = "kicksEmitted"
)
