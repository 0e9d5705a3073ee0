package session

import "sync/atomic"

// Clock stamps each logged command of a match with a strictly increasing seq.
//
// Ordering never depends on wall-clock time, so replaying the log reproduces
// the match exactly. A resumed session starts its clock at the last logged seq.
//
// Clock is safe for concurrent use, though a Session only advances it while
// holding its own lock.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that resumes after start.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
