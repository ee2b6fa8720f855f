package progress

import (
	"math"
	"time"
)

// Timer measures wall-clock time but reads the clock only every granularity
// calls. The first call anchors the start instant.
type Timer struct {
	timing
	start       time.Time
	progress    float64
	countdown   int
	granularity int
}

func NewTimer(seconds float64, granularity int, options ...Option) *Timer {
	if granularity < 1 {
		panic("progress: granularity must be at least 1")
	}
	return &Timer{
		timing:      newTiming(seconds, options),
		progress:    -1,
		countdown:   1,
		granularity: granularity,
	}
}

func (c *Timer) Progress(float64) float64 {
	c.countdown--
	if c.countdown == 0 {
		if c.progress < 0 {
			c.start = c.clock.Now()
			c.progress = 0
		} else {
			c.progress = c.since(c.start, c.clock.Now())
		}
		c.countdown = c.granularity
	}
	return c.progress
}

// checkpointRate is the number of checkpoints per second AutoTimer aims at.
const checkpointRate = 100

// AutoTimer tunes its polling interval so that clock reads happen about every
// 1/checkpointRate seconds, whatever a single decision costs.
type AutoTimer struct {
	timing
	start      time.Time
	checkpoint time.Time
	started    bool
	progress   float64
	countdown  int
	interval   int
}

func NewAutoTimer(seconds float64, options ...Option) *AutoTimer {
	t := &AutoTimer{timing: newTiming(seconds, options)}
	t.start = t.clock.Now()
	return t
}

func (c *AutoTimer) Progress(float64) float64 {
	if !c.started {
		c.started = true
		c.checkpoint = c.clock.Now()
		c.interval = 1
		c.countdown = 1
		c.progress = 0
		return c.progress
	}

	c.countdown--
	if c.countdown == 0 {
		now := c.clock.Now()
		c.interval = NextInterval(c.interval, now.Sub(c.checkpoint))
		c.checkpoint = now
		c.countdown = c.interval
		c.progress = c.since(c.start, now)
	}
	return c.progress
}

// Interval reports the current number of calls between clock reads.
func (c *AutoTimer) Interval() int {
	return c.interval
}

// NextInterval rescales interval so that the next checkpoint falls roughly
// 1/checkpointRate seconds later. The divisor is floored at 0.5, so the
// interval at most doubles per checkpoint, and the result is never below 1.
func NextInterval(interval int, elapsed time.Duration) int {
	divisor := math.Max(0.5, checkpointRate*elapsed.Seconds())
	next := math.Floor(float64(interval) / divisor)
	if next < 1 {
		return 1
	}
	if next > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(next)
}
