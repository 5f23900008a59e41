package utils

import "time"

// Timer measures elapsed wall-clock time from its creation.
// Create one with [NewTimer], which starts the timer immediately.
type Timer struct {
	startTime time.Time
	duration  time.Duration
	stopped   bool
}

// NewTimer creates a Timer started at the current instant.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Stop freezes the timer and returns the elapsed time. Later calls return
// the same value.
func (t *Timer) Stop() time.Duration {
	if !t.stopped {
		t.duration = time.Since(t.startTime)
		t.stopped = true
	}
	return t.duration
}

// Elapsed returns the time elapsed so far, or the frozen value once stopped.
func (t *Timer) Elapsed() time.Duration {
	if t.stopped {
		return t.duration
	}
	return time.Since(t.startTime)
}
