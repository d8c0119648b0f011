package queue

import (
	"testing"

	"github.com/addthis/hydra-dispatch/sched"
	"github.com/addthis/hydra-dispatch/sched/dispatch"
)

func TestPriorityQueue_FIFOWithinPriority(t *testing.T) {
	q := New(nil)
	q.Enqueue(5, sched.NewTaskHandle("job", 0), false, false, 0)
	q.Enqueue(5, sched.NewTaskHandle("job", 1), false, false, 1)
	q.Enqueue(5, sched.NewTaskHandle("job", 2), false, false, 2)

	var seen []int
	q.Iterate(nil, func(priority int, item sched.QueuedItem) IterDecision {
		seen = append(seen, item.Handle.TaskIndex)
		return Continue
	})

	want := []int{0, 1, 2}
	if len(seen) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected FIFO order %v, got %v", want, seen)
		}
	}
}

func TestPriorityQueue_HigherPriorityFirst(t *testing.T) {
	q := New(nil)
	q.Enqueue(1, sched.NewTaskHandle("job", 0), false, false, 0)
	q.Enqueue(9, sched.NewTaskHandle("job", 1), false, false, 0)
	q.Enqueue(5, sched.NewTaskHandle("job", 2), false, false, 0)

	var seenPriorities []int
	q.Iterate(nil, func(priority int, item sched.QueuedItem) IterDecision {
		seenPriorities = append(seenPriorities, priority)
		return Continue
	})

	want := []int{9, 5, 1}
	for i := range want {
		if seenPriorities[i] != want[i] {
			t.Fatalf("expected descending priority order %v, got %v", want, seenPriorities)
		}
	}
}

func TestPriorityQueue_AtHeadInsertsAtPositionZero(t *testing.T) {
	q := New(nil)
	q.Enqueue(1, sched.NewTaskHandle("job", 0), false, false, 0)
	q.Enqueue(1, sched.NewTaskHandle("job", 1), false, true, 0) // atHead

	var seen []int
	q.Iterate(nil, func(priority int, item sched.QueuedItem) IterDecision {
		seen = append(seen, item.Handle.TaskIndex)
		return Continue
	})
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 0 {
		t.Fatalf("expected head-inserted item first, got %v", seen)
	}
}

func TestPriorityQueue_EnqueueRemoveLeavesSizeUnchanged(t *testing.T) {
	q := New(nil)
	q.Enqueue(1, sched.NewTaskHandle("job", 0), false, false, 0)
	before := q.SizeAt(1)
	q.Enqueue(1, sched.NewTaskHandle("job", 0), false, false, 0)
	q.Remove(1, sched.NewTaskHandle("job", 0))
	after := q.SizeAt(1)
	if before != after {
		t.Fatalf("expected sizeAt(1) unchanged across enqueue/remove: before=%d after=%d", before, after)
	}
}

func TestPriorityQueue_RemoveWildcardMatchesFirstTaskOfJob(t *testing.T) {
	q := New(nil)
	q.Enqueue(1, sched.NewTaskHandle("job", 0), false, false, 0)
	q.Enqueue(1, sched.NewTaskHandle("job", 1), false, false, 1)

	if !q.Remove(1, sched.NewJobWildcardHandle("job")) {
		t.Fatal("expected wildcard remove to find a matching task")
	}
	if q.SizeAt(1) != 1 {
		t.Fatalf("expected exactly one task removed, sizeAt=%d", q.SizeAt(1))
	}

	// Repeated wildcard removal drains the rest.
	if !q.Remove(1, sched.NewJobWildcardHandle("job")) {
		t.Fatal("expected second wildcard remove to find the remaining task")
	}
	if q.Remove(1, sched.NewJobWildcardHandle("job")) {
		t.Fatal("expected third wildcard remove to find nothing left")
	}
}

func TestPriorityQueue_RemoveMissingReturnsFalse(t *testing.T) {
	q := New(nil)
	if q.Remove(1, sched.NewTaskHandle("nope", 0)) {
		t.Fatal("expected removing a missing handle to return false")
	}
}

func TestPriorityQueue_Iterate_RemoveCurrent(t *testing.T) {
	q := New(nil)
	q.Enqueue(1, sched.NewTaskHandle("job", 0), false, false, 0)
	q.Enqueue(1, sched.NewTaskHandle("job", 1), false, false, 1)
	q.Enqueue(1, sched.NewTaskHandle("job", 2), false, false, 2)

	q.Iterate(nil, func(priority int, item sched.QueuedItem) IterDecision {
		if item.Handle.TaskIndex == 1 {
			return RemoveCurrent
		}
		return Continue
	})

	if q.SizeAt(1) != 2 {
		t.Fatalf("expected one item removed, sizeAt=%d", q.SizeAt(1))
	}

	var seen []int
	q.Iterate(nil, func(priority int, item sched.QueuedItem) IterDecision {
		seen = append(seen, item.Handle.TaskIndex)
		return Continue
	})
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 2 {
		t.Fatalf("expected remaining items [0 2] in order, got %v", seen)
	}
}

func TestPriorityQueue_Iterate_StopIteration(t *testing.T) {
	q := New(nil)
	q.Enqueue(1, sched.NewTaskHandle("job", 0), false, false, 0)
	q.Enqueue(1, sched.NewTaskHandle("job", 1), false, false, 1)

	var seen []int
	q.Iterate(nil, func(priority int, item sched.QueuedItem) IterDecision {
		seen = append(seen, item.Handle.TaskIndex)
		return StopIteration
	})
	if len(seen) != 1 {
		t.Fatalf("expected iteration to stop after the first item, saw %v", seen)
	}
	if q.SizeAt(1) != 2 {
		t.Fatal("expected StopIteration to leave the current item in place")
	}
}

func TestPriorityQueue_Iterate_StopFlagHaltsBeforeNextItem(t *testing.T) {
	q := New(nil)
	q.Enqueue(1, sched.NewTaskHandle("job", 0), false, false, 0)
	q.Enqueue(1, sched.NewTaskHandle("job", 1), false, false, 1)

	var stop dispatch.StopFlag
	var seen int
	q.Iterate(&stop, func(priority int, item sched.QueuedItem) IterDecision {
		seen++
		stop.Set(true)
		return Continue
	})
	if seen != 1 {
		t.Fatalf("expected iteration to halt after one item once the stop flag is set, saw %d", seen)
	}
}

func TestPriorityQueue_LockUnlockAndLockedVariants(t *testing.T) {
	q := New(nil)
	q.Lock()
	q.EnqueueLocked(1, sched.NewTaskHandle("job", 0), false, false, 0)
	size := q.SizeAtLocked(1)
	q.Unlock()

	if size != 1 {
		t.Fatalf("expected locked enqueue to be visible under the same critical section, got %d", size)
	}
	if q.Size() != 1 {
		t.Fatalf("expected total size 1 after unlock, got %d", q.Size())
	}
}

func TestPriorityQueue_TryLock(t *testing.T) {
	q := New(nil)
	if !q.TryLock() {
		t.Fatal("expected TryLock to succeed on an unlocked queue")
	}
	if q.TryLock() {
		t.Fatal("expected a second TryLock to fail while already held")
	}
	q.Unlock()
}
