package puzzle

import (
	"fmt"
	"time"
)

// Clock tracks play time. It can be paused and resumed and restored from
// a saved elapsed value.
type Clock struct {
	now     func() time.Time
	base    time.Duration
	started time.Time
	running bool
}

// NewClock creates a stopped clock at zero. A nil now uses time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Start resumes counting. Starting a running clock does nothing.
func (c *Clock) Start() {
	if c.running {
		return
	}
	c.started = c.now()
	c.running = true
}

// Stop pauses the clock, keeping the elapsed time
func (c *Clock) Stop() {
	if !c.running {
		return
	}
	c.base += c.now().Sub(c.started)
	c.running = false
}

// Running reports whether the clock is counting
func (c *Clock) Running() bool {
	return c.running
}

// Elapsed returns the total play time so far
func (c *Clock) Elapsed() time.Duration {
	if c.running {
		return c.base + c.now().Sub(c.started)
	}
	return c.base
}

// Millis returns the elapsed time in milliseconds, as stored in saves
func (c *Clock) Millis() int64 {
	return c.Elapsed().Milliseconds()
}

// Set replaces the elapsed time and pauses the clock
func (c *Clock) Set(d time.Duration) {
	c.base = d
	c.running = false
}

// Format renders the elapsed time as HH:MM:SS
func (c *Clock) Format() string {
	return FormatElapsed(c.Elapsed())
}

// FormatElapsed renders d as HH:MM:SS. Negative durations render as zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
