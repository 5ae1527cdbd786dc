package rules

import "sync/atomic"

// Clock is a monotonic logical counter used to stamp findings and
// defects with an arrival sequence.
//
// Arrival order across concurrent workers is whatever the scheduler
// produced; the seq makes that order explicit so a drained batch can be
// reported stably without wall-clock timestamps.
//
// Thread-safety: safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
