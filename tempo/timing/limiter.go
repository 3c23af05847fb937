// Package timing paces the host loop. It is the only place besides the
// runner that touches wall-clock time.
package timing

import (
	"fmt"
	"strings"
	"time"
)

// Limiter controls frame rate timing for the host loop.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// DefaultFPS is used when a non-positive target is requested.
const DefaultFPS = 60

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// FrameDuration returns the duration of a single frame at fps.
func FrameDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Duration(float64(time.Second) / fps)
}

// New builds a limiter by name: "none", "ticker" or "adaptive".
func New(kind string, fps float64) (Limiter, error) {
	switch strings.ToLower(kind) {
	case "", "adaptive":
		return NewAdaptiveLimiter(fps), nil
	case "ticker":
		return NewTickerLimiter(fps), nil
	case "none", "noop":
		return NewNoOpLimiter(), nil
	}
	return nil, fmt.Errorf("timing: unknown limiter %q", kind)
}
