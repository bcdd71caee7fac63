// Package timeutil provides a testable abstraction over the clock used to
// time batch trace calls.
package timeutil

import (
	"sync"
	"time"
)

// Clock reads the current time.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock implements Clock using the time package.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time { return time.Now() }

// Since returns time.Since(t).
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }

// StepClock is a Clock for tests that moves forward by a fixed step every
// time it is read, so a duration measured as Since(Now()) is exactly one
// step.
type StepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewStepClock returns a StepClock starting at start.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{now: start, step: step}
}

func (c *StepClock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

// Now advances the clock by one step and returns the new time.
func (c *StepClock) Now() time.Time { return c.tick() }

// Since advances the clock by one step and returns the duration since t.
func (c *StepClock) Since(t time.Time) time.Duration { return c.tick().Sub(t) }
