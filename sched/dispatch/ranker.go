package dispatch

import (
	"github.com/addthis/hydra-dispatch/sched"
)

// BestHost implements the pure host ordering of C4: descending effective
// free slots, then ascending mean active tasks, then ascending host id
// for a fully deterministic order when both of those tie (spec leaves
// further ties implementation-defined; this mirrors the only
// tie-break-by-id precedent in the corpus, cloud/cluster's NodeSorter).
//
// All candidates' slot counts are read via a single SnapshotMany call,
// so the whole comparison sees one consistent ledger state (spec 4.3,
// I4): a concurrent RefreshFrom cannot interleave between candidates
// the way it could across repeated Snapshot calls. Policy still
// re-validates the chosen host afterward (e.g. PickHost's
// requireFreeSlot re-check) before acting on it, since time passes
// between ranking and acting regardless of how the ranking itself reads
// the ledger.
func BestHost(candidates []sched.HostState, ledger *Ledger) (sched.HostState, bool) {
	if len(candidates) == 0 {
		return sched.HostState{}, false
	}
	ids := make([]string, len(candidates))
	for i, h := range candidates {
		ids[i] = h.HostID
	}
	slots := ledger.SnapshotMany(ids)

	best := candidates[0]
	bestSlots := slots[best.HostID]
	for _, h := range candidates[1:] {
		s := slots[h.HostID]
		if betterHost(h, s, best, bestSlots) {
			best = h
			bestSlots = s
		}
	}
	return best, true
}

// betterHost reports whether candidate (with candidateSlots effective
// free slots) should rank ahead of current (with currentSlots).
func betterHost(candidate sched.HostState, candidateSlots int, current sched.HostState, currentSlots int) bool {
	if candidateSlots != currentSlots {
		return candidateSlots > currentSlots
	}
	if candidate.MeanActiveTasks != current.MeanActiveTasks {
		return candidate.MeanActiveTasks < current.MeanActiveTasks
	}
	return candidate.HostID < current.HostID
}
