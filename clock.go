package canopy

import (
	"sync"
	"time"
)

// Clock supplies monotonic timestamps in milliseconds. Animations use it when
// Suspend or Resume is called without an explicit timestamp.
type Clock interface {
	Now() float64
}

// monotonicClock reports milliseconds elapsed since it was created.
type monotonicClock struct {
	start time.Time
}

func (c monotonicClock) Now() float64 {
	return float64(time.Since(c.start).Nanoseconds()) / 1e6
}

// NewMonotonicClock returns a Clock whose zero is the moment of the call.
func NewMonotonicClock() Clock {
	return monotonicClock{start: time.Now()}
}

var (
	clockMu      sync.RWMutex
	defaultClock Clock = NewMonotonicClock()
)

// SetDefaultClock replaces the process-wide clock. Pass nil to restore a
// fresh monotonic clock.
func SetDefaultClock(c Clock) {
	if c == nil {
		c = NewMonotonicClock()
	}
	clockMu.Lock()
	defaultClock = c
	clockMu.Unlock()
}

// Now returns the default clock's current timestamp in milliseconds.
func Now() float64 {
	clockMu.RLock()
	c := defaultClock
	clockMu.RUnlock()
	return c.Now()
}

// ManualClock is a Clock that only moves when told to. Useful in tests.
type ManualClock struct {
	mu  sync.Mutex
	now float64
}

// NewManualClock creates a ManualClock reading start.
func NewManualClock(start float64) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual timestamp.
func (c *ManualClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to ts.
func (c *ManualClock) Set(ts float64) {
	c.mu.Lock()
	c.now = ts
	c.mu.Unlock()
}

// Advance moves the clock forward by ms and returns the new timestamp.
func (c *ManualClock) Advance(ms float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += ms
	return c.now
}
