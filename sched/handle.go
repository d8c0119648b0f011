package sched

import "fmt"

// WildcardTaskIndex matches any task belonging to a job, used by job-stop
// style removals that want every queued task for a job regardless of index.
const WildcardTaskIndex = -1

// TaskHandle is the opaque identity of a queued task: a job id plus the
// task's index within that job. The queue stores handles, never task
// bodies.
type TaskHandle struct {
	JobID     string
	TaskIndex int
}

// NewTaskHandle returns a handle identifying a single task.
func NewTaskHandle(jobID string, taskIndex int) TaskHandle {
	return TaskHandle{JobID: jobID, TaskIndex: taskIndex}
}

// NewJobWildcardHandle returns a handle matching every task of jobID,
// for use with PriorityQueue.Remove during job-stop.
func NewJobWildcardHandle(jobID string) TaskHandle {
	return TaskHandle{JobID: jobID, TaskIndex: WildcardTaskIndex}
}

func (h TaskHandle) String() string {
	if h.TaskIndex == WildcardTaskIndex {
		return fmt.Sprintf("%s/*", h.JobID)
	}
	return fmt.Sprintf("%s/%d", h.JobID, h.TaskIndex)
}

// Matches reports whether h identifies the same task as other, or, if
// either side is a job wildcard, the same job. Equality is by value, so
// a zero TaskHandle never matches a populated one unless both are zero.
func (h TaskHandle) Matches(other TaskHandle) bool {
	if h.JobID != other.JobID {
		return false
	}
	if h.TaskIndex == WildcardTaskIndex || other.TaskIndex == WildcardTaskIndex {
		return true
	}
	return h.TaskIndex == other.TaskIndex
}

// QueuedItem is one task waiting on the priority queue.
type QueuedItem struct {
	Handle           TaskHandle
	CanIgnoreQuiesce bool
	EnqueuedAtMs     int64
}

// TimeOnQueueMs returns how long the item has been queued as of nowMs.
func (q QueuedItem) TimeOnQueueMs(nowMs int64) int64 {
	d := nowMs - q.EnqueuedAtMs
	if d < 0 {
		return 0
	}
	return d
}

// HostState is a read-only snapshot of one worker host, supplied by the
// external store that owns authoritative host state.
type HostState struct {
	HostID          string
	AvailableSlots  int
	MaxSlots        int
	MeanActiveTasks float64
	Up              bool
}

// TaskSummary carries the fields migration decisions need about a queued
// task without requiring the full task body.
type TaskSummary struct {
	Handle        TaskHandle
	ByteCount     int64
	CurrentHostID string
}
