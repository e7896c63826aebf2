package testutil

import "sync"

// RunClock is a store.Clock for cache tests. It ignores rows already in the
// database and records every seq it hands out.
type RunClock struct {
	mu     sync.Mutex
	stamps []int64
}

// NewRunClock returns a clock whose first stamp is 1.
func NewRunClock() *RunClock {
	return &RunClock{}
}

// Next stamps a new cache row.
func (c *RunClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := int64(len(c.stamps)) + 1
	c.stamps = append(c.stamps, seq)
	return seq
}

// Stamps returns the seqs handed out so far, oldest first.
func (c *RunClock) Stamps() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.stamps...)
}
