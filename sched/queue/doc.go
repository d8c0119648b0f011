// Package queue implements the priority-keyed FIFO dispatch queue (C5):
// a mapping from priority to an ordered sequence of queued items, with
// head/tail insertion, keyed removal, and a single mutex guarding the
// whole structure so a caller can span several operations under one
// critical section.
package queue
