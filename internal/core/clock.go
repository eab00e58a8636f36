package core

import "time"

// Clock abstracts the time source so time-windowed behavior (reaction
// windows, analysis throttling) can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a test clock advanced explicitly by the caller.
type ManualClock struct {
	current time.Time
}

// NewManualClock creates a manual clock starting at the given instant.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{current: start}
}

// Now returns the clock's current instant.
func (c *ManualClock) Now() time.Time {
	return c.current
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// Set jumps the clock to the given instant.
func (c *ManualClock) Set(t time.Time) {
	c.current = t
}
