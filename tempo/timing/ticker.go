package timing

import "time"

// TickerLimiter paces frames on a time.Ticker. Ticks missed while the host
// was busy are dropped, so a slow frame is followed by at most one
// immediate frame.
type TickerLimiter struct {
	frame  time.Duration
	ticker *time.Ticker
}

func NewTickerLimiter(fps float64) *TickerLimiter {
	frame := FrameDuration(fps)
	return &TickerLimiter{
		frame:  frame,
		ticker: time.NewTicker(frame),
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

// Reset restarts the period from now and discards a pending tick, so the
// first frame after a pause waits a full frame.
func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.frame)
	select {
	case <-t.ticker.C:
	default:
	}
}

// FrameTime returns the ticker period.
func (t *TickerLimiter) FrameTime() time.Duration {
	return t.frame
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
