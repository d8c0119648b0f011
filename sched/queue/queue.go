package queue

import (
	"sort"
	"sync"

	"github.com/luci/go-render/render"
	log "github.com/sirupsen/logrus"

	"github.com/addthis/hydra-dispatch/common/stats"
	"github.com/addthis/hydra-dispatch/sched"
	"github.com/addthis/hydra-dispatch/sched/dispatch"
)

// IterDecision is returned by a Visitor to tell Iterate what to do with
// the item it was just shown.
type IterDecision int

const (
	// Continue leaves the item in place and moves to the next one.
	Continue IterDecision = iota
	// RemoveCurrent removes the item just visited, then continues.
	RemoveCurrent
	// StopIteration ends the walk immediately, leaving the current item
	// in place.
	StopIteration
)

// Visitor is called once per queued item during Iterate, in priority
// order (highest numeric priority first) and FIFO order within a
// priority.
type Visitor func(priority int, item sched.QueuedItem) IterDecision

// PriorityQueue is a priority-keyed FIFO of queued tasks: a mapping from
// priority to an ordered sequence of items. Iteration walks priorities
// highest-to-lowest; within a priority, order is FIFO except for explicit
// head inserts. All mutating operations serialize on a single mutex (I2,
// I3); *Locked variants assume the caller already holds it, for spanning
// several operations (or a full Iterate) under one critical section.
//
// Lock order: this mutex must always be acquired before any
// dispatch.Ledger mutex a caller takes while it is held (queue ->
// ledger); PriorityQueue itself never reaches into a Ledger.
type PriorityQueue struct {
	mu      sync.Mutex
	buckets map[int][]sched.QueuedItem
	stat    stats.StatsReceiver
	size    int
}

// New returns an empty PriorityQueue.
func New(stat stats.StatsReceiver) *PriorityQueue {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &PriorityQueue{
		buckets: make(map[int][]sched.QueuedItem),
		stat:    stat.Scope("priorityQueue"),
	}
}

// Lock acquires the queue's mutex. Callers must pair it with Unlock and
// should prefer the *Locked methods, or Iterate, over calling public
// methods while holding the lock (the public methods lock internally and
// are not reentrant).
func (q *PriorityQueue) Lock() { q.mu.Lock() }

// Unlock releases the queue's mutex.
func (q *PriorityQueue) Unlock() { q.mu.Unlock() }

// TryLock attempts to acquire the queue's mutex without blocking.
func (q *PriorityQueue) TryLock() bool { return q.mu.TryLock() }

// Enqueue inserts handle into the bucket for priority, creating the
// bucket if absent. Tail inserts (atHead=false) preserve FIFO order;
// atHead=true places the item at position 0 immediately. The return
// value is an insertion-acknowledged bool, not a rejection signal: there
// is no overflow path.
func (q *PriorityQueue) Enqueue(priority int, handle sched.TaskHandle, canIgnoreQuiesce bool, atHead bool, enqueuedAtMs int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.EnqueueLocked(priority, handle, canIgnoreQuiesce, atHead, enqueuedAtMs)
}

// EnqueueLocked is Enqueue for a caller that already holds the lock.
func (q *PriorityQueue) EnqueueLocked(priority int, handle sched.TaskHandle, canIgnoreQuiesce bool, atHead bool, enqueuedAtMs int64) bool {
	item := sched.QueuedItem{Handle: handle, CanIgnoreQuiesce: canIgnoreQuiesce, EnqueuedAtMs: enqueuedAtMs}
	bucket := q.buckets[priority]
	if atHead {
		bucket = append([]sched.QueuedItem{item}, bucket...)
	} else {
		bucket = append(bucket, item)
	}
	q.buckets[priority] = bucket
	q.size++
	q.stat.Counter(stats.QueueEnqueuedCounter).Inc(1)
	q.stat.Gauge(stats.QueueSizeGauge).Update(int64(q.size))
	return true
}

// Remove removes the first item in priority's bucket whose handle
// matches handle (TaskHandle.Matches, so a job wildcard removes the
// first matching task only; callers that want every task of a job call
// Remove repeatedly until it returns false). Returns true if an item was
// removed.
func (q *PriorityQueue) Remove(priority int, handle sched.TaskHandle) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.RemoveLocked(priority, handle)
}

// RemoveLocked is Remove for a caller that already holds the lock.
func (q *PriorityQueue) RemoveLocked(priority int, handle sched.TaskHandle) bool {
	bucket := q.buckets[priority]
	for i, item := range bucket {
		if item.Handle.Matches(handle) {
			q.buckets[priority] = append(bucket[:i], bucket[i+1:]...)
			q.size--
			q.stat.Counter(stats.QueueRemovedCounter).Inc(1)
			q.stat.Gauge(stats.QueueSizeGauge).Update(int64(q.size))
			return true
		}
	}
	return false
}

// SizeAt returns the number of items currently queued at priority.
func (q *PriorityQueue) SizeAt(priority int) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.SizeAtLocked(priority)
}

// SizeAtLocked is SizeAt for a caller that already holds the lock.
func (q *PriorityQueue) SizeAtLocked(priority int) int {
	return len(q.buckets[priority])
}

// Size returns the total number of queued items across all priorities.
func (q *PriorityQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Iterate walks every queued item, priorities highest-to-lowest and FIFO
// within a priority, holding the queue's mutex for the lifetime of the
// walk. stop is checked before each item (never mid-item); if it is set,
// iteration ends immediately so a pending job-stop can acquire the
// mutex promptly. The visitor's return value decides whether the current
// item is removed.
func (q *PriorityQueue) Iterate(stop *dispatch.StopFlag, visit Visitor) {
	q.mu.Lock()
	defer q.mu.Unlock()

	priorities := make([]int, 0, len(q.buckets))
	for p := range q.buckets {
		priorities = append(priorities, p)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(priorities)))

	for _, p := range priorities {
		i := 0
		for i < len(q.buckets[p]) {
			if stop != nil && stop.Get() {
				return
			}
			item := q.buckets[p][i]
			switch visit(p, item) {
			case RemoveCurrent:
				bucket := q.buckets[p]
				q.buckets[p] = append(bucket[:i], bucket[i+1:]...)
				q.size--
				q.stat.Counter(stats.QueueRemovedCounter).Inc(1)
				q.stat.Gauge(stats.QueueSizeGauge).Update(int64(q.size))
			case StopIteration:
				return
			default:
				i++
			}
		}
	}
}

// DebugString renders the queue's current contents for operator logs.
func (q *PriorityQueue) DebugString() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return render.Render(q.buckets)
}

// Log emits the current queue contents at trace level, mirroring the
// original implementation's periodic trace of its internal state.
func (q *PriorityQueue) Log() {
	log.WithField("size", q.Size()).Trace(q.DebugString())
}
