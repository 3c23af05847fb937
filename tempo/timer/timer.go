// Package timer implements tick-driven countdowns, repeating intervals and an
// ID based callback scheduler on top of them.
//
// Timers never read the system clock. The host feeds elapsed milliseconds to
// Update, and timers announce "done" and "interval" on a bus.
package timer

import (
	"log/slog"
	"math"

	"github.com/hashicorp/go-multierror"

	"github.com/valerio/go-tempo/tempo/bus"
	"github.com/valerio/go-tempo/tempo/errs"
)

const (
	TopicDone     = "done"
	TopicInterval = "interval"
)

// Event is the payload published on TopicDone and TopicInterval.
type Event struct {
	Name    string
	Lap     int
	Elapsed float64
}

// Timer is a single countdown or repeating interval. Durations are in
// milliseconds. A Timer is created Idle and must be started.
type Timer struct {
	name     string
	duration float64
	mode     Mode
	laps     int
	lap      int
	elapsed  float64
	state    State
	bus      *bus.Bus
	diag     errs.Diagnostic
}

// Option configures a Timer.
type Option func(*Timer)

// WithBus publishes events on a shared bus instead of a private one.
func WithBus(b *bus.Bus) Option {
	return func(t *Timer) {
		if b != nil {
			t.bus = b
		}
	}
}

// WithName namespaces the timer's topics as name/done and name/interval.
func WithName(name string) Option {
	return func(t *Timer) { t.name = name }
}

// WithLaps bounds a repeating timer: it completes after n intervals.
// Zero means unbounded.
func WithLaps(n int) Option {
	return func(t *Timer) { t.laps = n }
}

// WithDiagnostic reports ignored state transitions.
func WithDiagnostic(d errs.Diagnostic) Option {
	return func(t *Timer) { t.diag = d }
}

// New creates an idle timer. One-shot timers accept a zero duration and
// complete on the first update after Start; repeating timers need a positive one.
func New(duration float64, mode Mode, opts ...Option) (*Timer, error) {
	t := &Timer{
		duration: duration,
		mode:     mode,
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	if t.bus == nil {
		t.bus = bus.New()
	}
	return t, nil
}

func (t *Timer) validate() error {
	switch {
	case t.mode != OneShot && t.mode != Repeating:
		return errs.Config("timer", "mode", t.mode, errs.ErrInvalidMode)
	case math.IsNaN(t.duration) || math.IsInf(t.duration, 0) || t.duration < 0:
		return errs.Config("timer", "duration", t.duration, errs.ErrNegativeDuration)
	case t.mode == Repeating && t.duration == 0:
		return errs.Config("timer", "duration", t.duration, errs.ErrNonPositiveDuration)
	case t.laps < 0:
		return errs.Config("timer", "laps", t.laps, errs.ErrInvalidLaps)
	case t.laps > 0 && t.mode != Repeating:
		return errs.Config("timer", "laps", t.laps, errs.ErrInvalidLaps)
	}
	return nil
}

// Start runs the timer from zero. Starting a running or paused timer restarts it.
func (t *Timer) Start() {
	t.elapsed = 0
	t.lap = 0
	t.setState(Running)
}

// Pause suspends a running timer.
func (t *Timer) Pause() {
	if t.state != Running {
		t.invalid("pause")
		return
	}
	t.setState(Paused)
}

// Resume continues a paused timer.
func (t *Timer) Resume() {
	if t.state != Paused {
		t.invalid("resume")
		return
	}
	t.setState(Running)
}

// Cancel stops the timer without publishing completion.
func (t *Timer) Cancel() {
	if t.state == Cancelled {
		t.invalid("cancel")
		return
	}
	t.setState(Cancelled)
}

// Update advances a running timer by deltaMs. Negative and non-finite deltas
// count as zero. Every crossed boundary is published before Update returns;
// listener failures are logged and returned, the timer state is already committed.
func (t *Timer) Update(deltaMs float64) error {
	if t.state != Running {
		return nil
	}
	if !(deltaMs > 0) || math.IsInf(deltaMs, 1) {
		if deltaMs != 0 {
			slog.Debug("Timer delta ignored", "timer", t.name, "delta_ms", deltaMs)
		}
		deltaMs = 0
	}
	t.elapsed += deltaMs

	if t.mode == OneShot {
		if t.elapsed >= t.duration {
			return t.complete()
		}
		return nil
	}

	var result *multierror.Error
	for t.state == Running && t.elapsed >= t.duration {
		t.elapsed -= t.duration
		t.lap++
		if err := t.publish(TopicInterval); err != nil {
			result = multierror.Append(result, err)
		}
		if t.laps > 0 && t.lap >= t.laps && t.state == Running {
			if err := t.complete(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}

func (t *Timer) complete() error {
	t.elapsed = t.duration
	t.setState(Completed)
	return t.publish(TopicDone)
}

func (t *Timer) publish(kind string) error {
	topic := t.Topic(kind)
	err := t.bus.Publish(topic, Event{Name: t.name, Lap: t.lap, Elapsed: t.elapsed})
	if err != nil {
		slog.Warn("Timer listener failed", "timer", t.name, "topic", topic, "error", err)
	}
	return err
}

func (t *Timer) setState(s State) {
	if t.state == s {
		return
	}
	slog.Debug("Timer state change",
		"timer", t.name,
		"from", t.state,
		"to", s,
		"elapsed_ms", t.elapsed,
		"lap", t.lap)
	t.state = s
}

func (t *Timer) invalid(op string) {
	slog.Debug("Ignored timer transition", "timer", t.name, "op", op, "state", t.state)
	if t.diag != nil {
		t.diag("timer", op, t.state)
	}
}

// Topic returns the bus topic used for kind (TopicDone or TopicInterval).
func (t *Timer) Topic(kind string) string {
	if t.name == "" {
		return kind
	}
	return t.name + "/" + kind
}

// Bus returns the bus events are published on.
func (t *Timer) Bus() *bus.Bus {
	return t.bus
}

// OnDone subscribes fn to the timer's completion.
func (t *Timer) OnDone(fn bus.Listener) bus.Handle {
	return t.bus.Subscribe(t.Topic(TopicDone), fn)
}

// OnInterval subscribes fn to every lap of a repeating timer.
func (t *Timer) OnInterval(fn bus.Listener) bus.Handle {
	return t.bus.Subscribe(t.Topic(TopicInterval), fn)
}

func (t *Timer) Name() string       { return t.name }
func (t *Timer) State() State       { return t.state }
func (t *Timer) Mode() Mode         { return t.mode }
func (t *Timer) Duration() float64  { return t.duration }
func (t *Timer) Elapsed() float64   { return t.elapsed }
func (t *Timer) Laps() int          { return t.laps }
func (t *Timer) Lap() int           { return t.lap }
func (t *Timer) Remaining() float64 { return t.duration - t.elapsed }

// Progress returns elapsed/duration in [0,1].
func (t *Timer) Progress() float64 {
	if t.duration == 0 {
		if t.state == Completed {
			return 1
		}
		return 0
	}
	return t.elapsed / t.duration
}
