package store

import "sync/atomic"

// Clock stamps cache rows with strictly increasing seq numbers.
type Clock interface {
	Next() int64
}

// logicalClock is the default Clock. It resumes from the highest seq found
// in the database so reopened caches keep ordering monotonic.
//
// Thread-safety: safe for concurrent use (atomic operations).
type logicalClock struct {
	seq atomic.Int64
}

func newClockAt(start int64) *logicalClock {
	c := &logicalClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *logicalClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *logicalClock) Current() int64 {
	return c.seq.Load()
}
