package dispatch

import "sync/atomic"

// StopFlag is a single atomic boolean signalling that a job stop has
// arrived, so a queue iteration in progress may yield the queue lock
// promptly. It is a hint, not a barrier: there is no ordering guarantee
// beyond atomicity, and callers must check it between items rather than
// inside per-item work.
type StopFlag struct {
	stopped atomic.Bool
}

// Set stores v.
func (f *StopFlag) Set(v bool) {
	f.stopped.Store(v)
}

// Get loads the current value.
func (f *StopFlag) Get() bool {
	return f.stopped.Load()
}
