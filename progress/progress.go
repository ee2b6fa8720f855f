// Package progress converts consumed budget into a normalized progress value.
// Callers stop a run once Progress returns a value of 1 or more.
package progress

import (
	"errors"
	"time"
)

var ErrZeroBudget = errors.New("progress: budget must be at least 1")

type Controller interface {
	// Progress records one decision and returns the budget consumed so far.
	Progress(best float64) float64
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Option func(t *timing)

type timing struct {
	clock     Clock
	available float64 // seconds
}

func WithClock(clock Clock) Option {
	return func(t *timing) {
		if clock != nil {
			t.clock = clock
		}
	}
}

func newTiming(seconds float64, options []Option) timing {
	if seconds <= 0 {
		panic("progress: available seconds must be positive")
	}
	t := timing{clock: systemClock{}, available: seconds}
	for _, option := range options {
		option(&t)
	}
	return t
}

func (t timing) since(start time.Time, now time.Time) float64 {
	return now.Sub(start).Seconds() / t.available
}

// Iteration spends one unit of budget per call.
type Iteration struct {
	passed    int
	available int
}

func NewIteration(budget int) *Iteration {
	if budget < 1 {
		panic(ErrZeroBudget)
	}
	return &Iteration{available: budget}
}

func (c *Iteration) Progress(float64) float64 {
	p := float64(c.passed) / float64(c.available)
	c.passed++
	return p
}
