// Package tween interpolates numeric values over time through an easing curve.
//
// A Tween advances when the host calls Update with elapsed milliseconds. It
// publishes "update" on every effective tick, "repeat" at every repeat
// boundary and "complete" once when the last segment finishes.
package tween

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hashicorp/go-multierror"

	"github.com/valerio/go-tempo/tempo/bus"
	"github.com/valerio/go-tempo/tempo/easing"
	"github.com/valerio/go-tempo/tempo/errs"
)

const (
	TopicUpdate   = "update"
	TopicRepeat   = "repeat"
	TopicComplete = "complete"
)

// Infinite repeats a tween until it is removed.
const Infinite = -1

// State is the lifecycle state of a Tween.
type State int

const (
	Running State = iota
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("tween.State(%d)", int(s))
	}
}

// Event is the payload of every tween topic.
type Event struct {
	Name   string
	Value  float64
	Vector []float64
	Repeat int
}

// Tween interpolates from a start to an end value. Scalars are vectors of
// length one. Durations are in milliseconds.
type Tween struct {
	name     string
	from     []float64
	to       []float64
	value    []float64
	duration float64
	elapsed  float64
	curve    easing.ID
	ease     easing.Func
	curveRef string
	repeat   int
	left     int
	yoyo     bool
	flipped  bool
	state    State
	bus      *bus.Bus
	diag     errs.Diagnostic
}

// Option configures a Tween.
type Option func(*Tween)

// WithEasing selects a registered curve. The default is easing.Linear.
func WithEasing(id easing.ID) Option {
	return func(t *Tween) {
		t.curve = id
		t.curveRef = ""
		t.ease = nil
	}
}

// WithEasingName selects a curve by name; unknown names fail New.
func WithEasingName(name string) Option {
	return func(t *Tween) {
		t.curveRef = name
		t.ease = nil
	}
}

// WithEasingFunc uses a custom curve. It must satisfy f(0)=0 and f(1)=1 for
// the boundaries to be exact.
func WithEasingFunc(f easing.Func) Option {
	return func(t *Tween) {
		t.ease = f
		t.curveRef = ""
	}
}

// WithRepeat sets how many times the tween replays after the first pass.
// Infinite repeats forever.
func WithRepeat(n int) Option {
	return func(t *Tween) { t.repeat = n }
}

// WithYoyo reverses direction at every repeat boundary, so odd passes run
// from to back to from. Completion lands exactly on the last pass's end
// value, which is from when the repeat count is odd.
func WithYoyo() Option {
	return func(t *Tween) { t.yoyo = true }
}

// WithBus publishes events on a shared bus instead of a private one.
func WithBus(b *bus.Bus) Option {
	return func(t *Tween) {
		if b != nil {
			t.bus = b
		}
	}
}

// WithName namespaces the tween's topics as name/update, name/repeat and name/complete.
func WithName(name string) Option {
	return func(t *Tween) { t.name = name }
}

// WithDiagnostic reports ignored state transitions.
func WithDiagnostic(d errs.Diagnostic) Option {
	return func(t *Tween) { t.diag = d }
}

// StartPaused creates the tween paused; Unpause starts it.
func StartPaused() Option {
	return func(t *Tween) { t.state = Paused }
}

// New creates a running scalar tween.
func New(from, to, duration float64, opts ...Option) (*Tween, error) {
	return NewVector([]float64{from}, []float64{to}, duration, opts...)
}

// NewVector creates a running tween over equally sized vectors. The slices
// are copied.
func NewVector(from, to []float64, duration float64, opts ...Option) (*Tween, error) {
	t := &Tween{
		from:     append([]float64(nil), from...),
		to:       append([]float64(nil), to...),
		duration: duration,
		curve:    easing.Linear,
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.resolve(); err != nil {
		return nil, err
	}
	if t.bus == nil {
		t.bus = bus.New()
	}
	t.left = t.repeat
	t.value = append([]float64(nil), t.from...)
	return t, nil
}

func (t *Tween) resolve() error {
	switch {
	case len(t.from) == 0:
		return errs.Config("tween", "from", t.from, errs.ErrEmptyValue)
	case len(t.from) != len(t.to):
		return errs.Config("tween", "to", t.to, errs.ErrLengthMismatch)
	case math.IsNaN(t.duration) || math.IsInf(t.duration, 0) || t.duration < 0:
		return errs.Config("tween", "duration", t.duration, errs.ErrNegativeDuration)
	case t.repeat < Infinite:
		return errs.Config("tween", "repeat", t.repeat, errs.ErrInvalidRepeat)
	case t.duration == 0 && t.repeat == Infinite:
		return errs.Config("tween", "duration", t.duration, errs.ErrNonPositiveDuration)
	}

	if t.ease != nil {
		return nil
	}
	if t.curveRef != "" {
		id, err := easing.Parse(t.curveRef)
		if err != nil {
			return err
		}
		t.curve = id
	}
	if !t.curve.Valid() {
		return errs.Config("tween", "easing", t.curve, easing.ErrUnknownCurve)
	}
	t.ease = t.curve.Func()
	return nil
}

// Update advances a running tween by deltaMs. Negative and non-finite deltas
// count as zero. Listener failures are logged and returned after the state
// change is committed.
func (t *Tween) Update(deltaMs float64) error {
	if t.state != Running {
		return nil
	}
	if !(deltaMs > 0) || math.IsInf(deltaMs, 1) {
		if deltaMs != 0 {
			slog.Debug("Tween delta ignored", "tween", t.name, "delta_ms", deltaMs)
		}
		deltaMs = 0
	}
	t.elapsed += deltaMs

	var result *multierror.Error
	for t.state == Running && t.elapsed >= t.duration {
		if t.left == 0 {
			_, end := t.segment()
			t.elapsed = t.duration
			copy(t.value, end)
			t.setState(Completed)
			result = multierror.Append(result, t.publish(TopicUpdate), t.publish(TopicComplete))
			return result.ErrorOrNil()
		}
		if t.left > 0 {
			t.left--
		}
		if t.yoyo {
			t.flipped = !t.flipped
		}
		t.elapsed -= t.duration
		result = multierror.Append(result, t.publish(TopicRepeat))
	}

	// A repeat listener may have paused the tween: the value still follows
	// elapsed, but only a running tween announces it.
	t.interpolate()
	if t.state == Running {
		result = multierror.Append(result, t.publish(TopicUpdate))
	}
	return result.ErrorOrNil()
}

// segment returns the endpoints of the current pass.
func (t *Tween) segment() (start, end []float64) {
	if t.flipped {
		return t.to, t.from
	}
	return t.from, t.to
}

func (t *Tween) interpolate() {
	p := 1.0
	if t.duration > 0 {
		p = t.ease(math.Min(t.elapsed/t.duration, 1))
	}
	start, end := t.segment()
	for i := range t.value {
		t.value[i] = lerp(start[i], end[i], p)
	}
}

// lerp is exact at both ends regardless of rounding in b-a.
func lerp(a, b, p float64) float64 {
	switch p {
	case 0:
		return a
	case 1:
		return b
	}
	return a + (b-a)*p
}

func (t *Tween) publish(kind string) error {
	topic := t.Topic(kind)
	err := t.bus.Publish(topic, Event{
		Name:   t.name,
		Value:  t.value[0],
		Vector: t.Vector(),
		Repeat: t.left,
	})
	if err != nil {
		slog.Warn("Tween listener failed", "tween", t.name, "topic", topic, "error", err)
	}
	return err
}

// Pause freezes the tween's value and elapsed time.
func (t *Tween) Pause() {
	if t.state != Running {
		t.invalid("pause")
		return
	}
	t.setState(Paused)
}

// Unpause resumes a paused tween.
func (t *Tween) Unpause() {
	if t.state != Paused {
		t.invalid("unpause")
		return
	}
	t.setState(Running)
}

// Restart rewinds to the start value with the configured repeat count and runs.
func (t *Tween) Restart() {
	t.elapsed = 0
	t.left = t.repeat
	t.flipped = false
	copy(t.value, t.from)
	t.setState(Running)
}

func (t *Tween) setState(s State) {
	if t.state == s {
		return
	}
	slog.Debug("Tween state change",
		"tween", t.name,
		"from", t.state,
		"to", s,
		"elapsed_ms", t.elapsed,
		"repeat", t.left)
	t.state = s
}

func (t *Tween) invalid(op string) {
	slog.Debug("Ignored tween transition", "tween", t.name, "op", op, "state", t.state)
	if t.diag != nil {
		t.diag("tween", op, t.state)
	}
}

// Topic returns the bus topic used for kind.
func (t *Tween) Topic(kind string) string {
	if t.name == "" {
		return kind
	}
	return t.name + "/" + kind
}

func (t *Tween) OnUpdate(fn bus.Listener) bus.Handle {
	return t.bus.Subscribe(t.Topic(TopicUpdate), fn)
}

func (t *Tween) OnRepeat(fn bus.Listener) bus.Handle {
	return t.bus.Subscribe(t.Topic(TopicRepeat), fn)
}

func (t *Tween) OnComplete(fn bus.Listener) bus.Handle {
	return t.bus.Subscribe(t.Topic(TopicComplete), fn)
}

// Value returns the first component of the current value.
func (t *Tween) Value() float64 {
	return t.value[0]
}

// Vector returns a copy of the current value.
func (t *Tween) Vector() []float64 {
	return append([]float64(nil), t.value...)
}

// Progress returns elapsed/duration of the current segment.
func (t *Tween) Progress() float64 {
	if t.duration == 0 {
		if t.state == Completed {
			return 1
		}
		return 0
	}
	return t.elapsed / t.duration
}

func (t *Tween) IsCompleted() bool { return t.state == Completed }
func (t *Tween) IsPaused() bool    { return t.state == Paused }
func (t *Tween) State() State      { return t.state }
func (t *Tween) Elapsed() float64  { return t.elapsed }
func (t *Tween) Duration() float64 { return t.duration }
func (t *Tween) RepeatsLeft() int  { return t.left }
func (t *Tween) Curve() easing.ID  { return t.curve }
func (t *Tween) Name() string      { return t.name }
func (t *Tween) Yoyo() bool        { return t.yoyo }
func (t *Tween) Bus() *bus.Bus     { return t.bus }
func (t *Tween) From() []float64   { return append([]float64(nil), t.from...) }
func (t *Tween) To() []float64     { return append([]float64(nil), t.to...) }
