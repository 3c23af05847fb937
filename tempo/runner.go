// Package tempo hosts the timing core: a Runner samples wall-clock time,
// ticks a Clock and drives schedulers, timers and tween groups once per
// frame before handing a snapshot to a backend.
package tempo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/valerio/go-tempo/tempo/backend"
	"github.com/valerio/go-tempo/tempo/clock"
	"github.com/valerio/go-tempo/tempo/input"
	"github.com/valerio/go-tempo/tempo/input/action"
	"github.com/valerio/go-tempo/tempo/timer"
	"github.com/valerio/go-tempo/tempo/timing"
	"github.com/valerio/go-tempo/tempo/tween"
)

const (
	MinSpeed = 0.125
	MaxSpeed = 8.0
)

// ErrBackend marks failures reported by the backend. They stop Run.
var ErrBackend = errors.New("backend failure")

// Runner is the host loop around the timing core. It is not safe for
// concurrent use; everything it owns runs on the goroutine calling Step or Run.
type Runner struct {
	clock     *clock.Clock
	scheduler *timer.Scheduler
	groups    []*tween.Group
	timers    []*timer.Timer
	backend   backend.Backend
	config    backend.Config
	limiter   timing.Limiter
	input     *input.Manager
	now       func() time.Time
	onRestart func(*Runner) error

	sceneMs  float64
	speed    float64
	paused   bool
	stepOnce bool
	quit     bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithBackend presents every frame on b, initialized with config.
func WithBackend(b backend.Backend, config backend.Config) Option {
	return func(r *Runner) {
		r.backend = b
		r.config = config
	}
}

// WithLimiter paces Run. The default does not wait.
func WithLimiter(l timing.Limiter) Option {
	return func(r *Runner) {
		if l != nil {
			r.limiter = l
		}
	}
}

// WithNow replaces the wall clock sampled by Run.
func WithNow(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithClock uses a preconfigured clock.
func WithClock(c *clock.Clock) Option {
	return func(r *Runner) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithRestart rebuilds the scene when the restart action fires. The runner
// is reset before fn runs. Without it, restart rewinds the live tweens and
// timers in place.
func WithRestart(fn func(*Runner) error) Option {
	return func(r *Runner) { r.onRestart = fn }
}

func New(opts ...Option) *Runner {
	r := &Runner{
		clock:     clock.New(),
		scheduler: timer.NewScheduler(),
		limiter:   timing.NewNoOpLimiter(),
		input:     input.NewManager(),
		now:       time.Now,
		speed:     1,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.input.On(action.PauseToggle, r.TogglePause)
	r.input.On(action.StepFrame, r.StepFrame)
	r.input.On(action.Restart, func() {
		if err := r.Restart(); err != nil {
			slog.Error("Restart failed", "error", err)
		}
	})
	r.input.On(action.SpeedUp, func() { r.SetSpeed(r.speed * 2) })
	r.input.On(action.SlowDown, func() { r.SetSpeed(r.speed / 2) })
	r.input.On(action.Quit, r.Stop)
	return r
}

// FixedStep returns a clock that advances by exactly one frame at fps on
// every call, for deterministic runs.
func FixedStep(fps float64) func() time.Time {
	step := timing.FrameDuration(fps)
	current := time.Unix(0, 0)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}

func (r *Runner) AddGroup(g *tween.Group) {
	if g != nil {
		r.groups = append(r.groups, g)
	}
}

func (r *Runner) AddTimer(t *timer.Timer) {
	if t != nil {
		r.timers = append(r.timers, t)
	}
}

func (r *Runner) Clock() *clock.Clock         { return r.clock }
func (r *Runner) Scheduler() *timer.Scheduler { return r.scheduler }
func (r *Runner) Input() *input.Manager       { return r.input }
func (r *Runner) Groups() []*tween.Group      { return r.groups }
func (r *Runner) Timers() []*timer.Timer      { return r.timers }
func (r *Runner) Speed() float64              { return r.speed }
func (r *Runner) Paused() bool                { return r.paused }
func (r *Runner) SceneTimeMs() float64        { return r.sceneMs }
func (r *Runner) Stopped() bool               { return r.quit }

// Step runs one frame: the clock is ticked with deltaSeconds, then the
// scheduler, timers and groups advance by the scaled delta in that order,
// and finally the backend renders and its input is dispatched. While paused
// only the clock and backend run, unless a single step was requested.
func (r *Runner) Step(deltaSeconds float64) error {
	r.clock.Tick(deltaSeconds)

	var result *multierror.Error
	if !r.paused || r.stepOnce {
		r.stepOnce = false
		dt := r.clock.DeltaMs() * r.speed
		r.sceneMs += dt

		if err := r.scheduler.Update(dt); err != nil {
			result = multierror.Append(result, err)
		}
		for _, t := range r.timers {
			if err := t.Update(dt); err != nil {
				result = multierror.Append(result, err)
			}
		}
		for _, g := range r.groups {
			if err := g.Update(dt); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}

	if r.backend != nil {
		events, err := r.backend.Update(r.Frame())
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%w: %w", ErrBackend, err))
		}
		for _, ev := range events {
			r.input.Trigger(ev.Action)
		}
	}
	return result.ErrorOrNil()
}

// Run steps the runner at the limiter's pace until Stop is called, a quit
// action arrives or ctx is done. Listener failures are logged and the loop
// continues; backend failures end it.
func (r *Runner) Run(ctx context.Context) error {
	if r.backend != nil {
		if err := r.backend.Init(r.config); err != nil {
			return fmt.Errorf("%w: init: %w", ErrBackend, err)
		}
		defer func() {
			if err := r.backend.Cleanup(); err != nil {
				slog.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	slog.Info("Runner started",
		"groups", len(r.groups),
		"timers", len(r.timers),
		"scheduled", r.scheduler.Len())

	r.limiter.Reset()
	last := r.now()
	for !r.quit {
		if err := ctx.Err(); err != nil {
			slog.Info("Runner cancelled", "frames", r.clock.Frame(), "reason", err)
			return err
		}

		r.limiter.WaitForNextFrame()
		now := r.now()
		delta := now.Sub(last).Seconds()
		last = now

		if err := r.Step(delta); err != nil {
			if errors.Is(err, ErrBackend) {
				return err
			}
			slog.Warn("Frame completed with errors", "frame", r.clock.Frame(), "error", err)
		}
	}

	slog.Info("Runner stopped", "frames", r.clock.Frame(), "scene_ms", r.sceneMs)
	return nil
}

// Stop ends Run after the current frame.
func (r *Runner) Stop() {
	r.quit = true
}

func (r *Runner) TogglePause() {
	r.SetPaused(!r.paused)
}

func (r *Runner) SetPaused(paused bool) {
	if r.paused == paused {
		return
	}
	r.paused = paused
	if !paused {
		r.limiter.Reset()
	}
	slog.Info("Runner pause toggled", "paused", paused, "frame", r.clock.Frame())
}

// StepFrame advances exactly one frame on the next Step while paused.
func (r *Runner) StepFrame() {
	if r.paused {
		r.stepOnce = true
	}
}

// SetSpeed scales the delta fed to the core, clamped to [MinSpeed, MaxSpeed].
func (r *Runner) SetSpeed(speed float64) {
	if math.IsNaN(speed) {
		return
	}
	speed = math.Max(MinSpeed, math.Min(MaxSpeed, speed))
	if speed != r.speed {
		slog.Info("Runner speed changed", "from", r.speed, "to", speed)
	}
	r.speed = speed
}

// Reset drops every group, timer and scheduled callback.
func (r *Runner) Reset() {
	r.groups = nil
	r.timers = nil
	r.scheduler.Clear()
	r.sceneMs = 0
}

// Restart rebuilds the scene through the WithRestart hook or, without one,
// rewinds every live tween and timer.
func (r *Runner) Restart() error {
	slog.Info("Restarting scene", "frame", r.clock.Frame())
	if r.onRestart != nil {
		r.Reset()
		return r.onRestart(r)
	}

	for _, g := range r.groups {
		g.Each(func(_ tween.Handle, tw *tween.Tween) { tw.Restart() })
	}
	for _, t := range r.timers {
		t.Start()
	}
	r.sceneMs = 0
	return nil
}

// Frame snapshots the scene for the backend.
func (r *Runner) Frame() backend.Frame {
	frame := backend.Frame{
		Number:  r.clock.Frame(),
		TimeMs:  r.sceneMs,
		DeltaMs: r.clock.DeltaMs(),
		FPS:     r.clock.FPS(),
		Speed:   r.speed,
		Paused:  r.paused,
	}
	for _, g := range r.groups {
		g.Each(func(_ tween.Handle, tw *tween.Tween) {
			frame.Tweens = append(frame.Tweens, backend.TweenView{
				Name:     tw.Name(),
				Value:    tw.Value(),
				Vector:   tw.Vector(),
				Progress: tw.Progress(),
				State:    tw.State().String(),
				Repeat:   tw.RepeatsLeft(),
			})
		})
	}
	for _, t := range r.timers {
		frame.Timers = append(frame.Timers, backend.TimerView{
			Name:     t.Name(),
			Progress: t.Progress(),
			State:    t.State().String(),
			Lap:      t.Lap(),
			Laps:     t.Laps(),
		})
	}
	return frame
}
