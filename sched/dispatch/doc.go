// Package dispatch implements the host-slot ledger, migration gate, host
// ranker, dispatch policy, and stop flag that sit behind the priority
// queue in sched/queue: components C1-C4, C6, and C7 of the dispatch
// core. Every decision here is a pure function of the current ledger,
// gate, and clock state; none of it blocks beyond the ledger's and the
// migration gate's own mutexes.
package dispatch
