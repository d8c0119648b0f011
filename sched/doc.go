// Package sched provides the data model shared by the dispatch queue
// (sched/queue) and the dispatch policy (sched/dispatch): task handles,
// queued-item and host snapshots, and the tunable configuration record
// read once at construction time.
package sched
