// Package clock implements the frame clock consumed by timers and tweens.
//
// The clock never reads the system time. The host measures wall-clock deltas
// and feeds them to Tick once per frame, which keeps every consumer
// deterministic under synthetic deltas.
package clock

import (
	"log/slog"
	"math"
	"time"
)

const (
	// MinDelta replaces non-positive deltas so time never stalls or regresses.
	MinDelta = 1e-6
	// DefaultMaxDelta bounds a single frame, e.g. after the process was suspended.
	DefaultMaxDelta = 0.25
	// DefaultSmoothing is the weight of the previous FPS estimate.
	DefaultSmoothing = 0.9
)

// Clock tracks total time, the last frame delta and a smoothed FPS estimate.
// All times are in seconds unless the accessor says otherwise.
type Clock struct {
	total     float64
	delta     float64
	fps       float64
	frame     uint64
	maxDelta  float64
	smoothing float64
}

// Option configures a Clock.
type Option func(*Clock)

// WithMaxDelta overrides the per-frame delta ceiling. Non-positive values are ignored.
func WithMaxDelta(seconds float64) Option {
	return func(c *Clock) {
		if seconds > 0 {
			c.maxDelta = seconds
		}
	}
}

// WithSmoothing overrides the FPS smoothing factor. Values outside [0,1) are ignored.
func WithSmoothing(alpha float64) Option {
	return func(c *Clock) {
		if alpha >= 0 && alpha < 1 {
			c.smoothing = alpha
		}
	}
}

func New(opts ...Option) *Clock {
	c := &Clock{
		maxDelta:  DefaultMaxDelta,
		smoothing: DefaultSmoothing,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tick advances the clock by rawDelta seconds. Anomalous input is clamped
// rather than rejected so the host loop keeps running.
func (c *Clock) Tick(rawDelta float64) {
	delta := c.clamp(rawDelta)

	c.total += delta
	c.delta = delta
	c.frame++

	instant := 1 / delta
	if c.frame == 1 {
		c.fps = instant
	} else {
		c.fps = c.fps*c.smoothing + instant*(1-c.smoothing)
	}
}

// TickDuration is Tick for hosts that measure time.Duration.
func (c *Clock) TickDuration(d time.Duration) {
	c.Tick(d.Seconds())
}

func (c *Clock) clamp(raw float64) float64 {
	switch {
	case math.IsNaN(raw) || raw <= 0:
		slog.Debug("Clock delta clamped", "raw", raw, "delta", MinDelta)
		return MinDelta
	case raw > c.maxDelta:
		slog.Debug("Clock delta clamped", "raw", raw, "delta", c.maxDelta)
		return c.maxDelta
	}
	return raw
}

// DeltaTime returns the last frame delta in seconds.
func (c *Clock) DeltaTime() float64 {
	return c.delta
}

// DeltaMs returns the last frame delta in milliseconds.
func (c *Clock) DeltaMs() float64 {
	return c.delta * 1000
}

// TotalTime returns the accumulated time in seconds.
func (c *Clock) TotalTime() float64 {
	return c.total
}

// TotalTimeMs returns the accumulated time in milliseconds.
func (c *Clock) TotalTimeMs() float64 {
	return c.total * 1000
}

// FPS returns the smoothed frames-per-second estimate, 0 before the first tick.
func (c *Clock) FPS() float64 {
	return c.fps
}

// Frame returns the number of ticks so far.
func (c *Clock) Frame() uint64 {
	return c.frame
}

func (c *Clock) MaxDelta() float64 {
	return c.maxDelta
}
