// Package descriptor loads animation scenes from YAML.
//
// A descriptor lists tweens and timers; Build turns it into a tween group and
// a set of timers that publish on one shared bus.
package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/valerio/go-tempo/tempo/bus"
	"github.com/valerio/go-tempo/tempo/timer"
	"github.com/valerio/go-tempo/tempo/tween"
)

// MinRepeatPeriod is the shortest pass a repeating timer or an endlessly
// repeating tween may have. Shorter periods publish thousands of events per frame.
const MinRepeatPeriod = time.Millisecond

var (
	ErrDuplicateName  = errors.New("duplicate name")
	ErrInvalidFPS     = errors.New("fps must be a finite non-negative number")
	ErrPeriodTooShort = fmt.Errorf("repeat period must be at least %v", MinRepeatPeriod)
)

// Descriptor is the parsed form of a scene file.
type Descriptor struct {
	FPS    float64     `yaml:"fps"`
	Tweens []TweenSpec `yaml:"tweens"`
	Timers []TimerSpec `yaml:"timers"`
}

type TweenSpec struct {
	Name     string    `yaml:"name"`
	From     []float64 `yaml:"from"`
	To       []float64 `yaml:"to"`
	Duration Duration  `yaml:"duration"`
	Easing   string    `yaml:"easing"`
	Repeat   int       `yaml:"repeat"`
	Yoyo     bool      `yaml:"yoyo"`
	Paused   bool      `yaml:"paused"`
}

type TimerSpec struct {
	Name     string   `yaml:"name"`
	Duration Duration `yaml:"duration"`
	Mode     string   `yaml:"mode"`
	Laps     int      `yaml:"laps"`
	Paused   bool     `yaml:"paused"`
}

// Duration accepts Go duration strings ("750ms", "1.5s") or plain numbers,
// read as milliseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	switch value.Tag {
	case "!!int", "!!float":
		ms, err := strconv.ParseFloat(value.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, value.Value, err)
		}
		*d = Duration(ms * float64(time.Millisecond))
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Milliseconds returns d as fractional milliseconds.
func (d Duration) Milliseconds() float64 {
	return float64(d) / float64(time.Millisecond)
}

// Scene is a built descriptor: every tween in one group and every timer
// started, all publishing on Bus.
type Scene struct {
	FPS    float64
	Bus    *bus.Bus
	Group  *tween.Group
	Timers []*timer.Timer
}

// Load reads a descriptor file, expanding ${VAR} references from the
// environment before parsing.
func Load(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("descriptor: load: %w", err)
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes YAML. Unknown fields are rejected; an empty document yields
// an empty descriptor.
func Parse(data []byte) (Descriptor, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return Descriptor{}, fmt.Errorf("descriptor: parse: %w", err)
	}
	return d, nil
}

// Validate reports every problem in the descriptor at once.
func (d Descriptor) Validate() error {
	var result *multierror.Error
	if math.IsNaN(d.FPS) || math.IsInf(d.FPS, 0) || d.FPS < 0 {
		result = multierror.Append(result, fmt.Errorf("descriptor: fps %v: %w", d.FPS, ErrInvalidFPS))
	}

	scratch := bus.New()
	seen := make(map[string]bool)
	for i, spec := range d.Tweens {
		name := spec.name(i)
		if seen[name] {
			result = multierror.Append(result, fmt.Errorf("descriptor: tween %q: %w", name, ErrDuplicateName))
		}
		seen[name] = true
		tw, err := spec.build(name, scratch)
		switch {
		case err != nil:
			result = multierror.Append(result, fmt.Errorf("descriptor: tween %q: %w", name, err))
		case tw.RepeatsLeft() == tween.Infinite && time.Duration(spec.Duration) < MinRepeatPeriod:
			result = multierror.Append(result, fmt.Errorf("descriptor: tween %q: duration %v: %w",
				name, time.Duration(spec.Duration), ErrPeriodTooShort))
		}
	}

	seen = make(map[string]bool)
	for i, spec := range d.Timers {
		name := spec.name(i)
		if seen[name] {
			result = multierror.Append(result, fmt.Errorf("descriptor: timer %q: %w", name, ErrDuplicateName))
		}
		seen[name] = true
		tm, err := spec.build(name, scratch)
		switch {
		case err != nil:
			result = multierror.Append(result, fmt.Errorf("descriptor: timer %q: %w", name, err))
		case tm.Mode() == timer.Repeating && time.Duration(spec.Duration) < MinRepeatPeriod:
			result = multierror.Append(result, fmt.Errorf("descriptor: timer %q: duration %v: %w",
				name, time.Duration(spec.Duration), ErrPeriodTooShort))
		}
	}
	return result.ErrorOrNil()
}

// Build validates the descriptor and creates its tweens and timers on b.
// A nil bus gets a fresh one.
func (d Descriptor) Build(b *bus.Bus) (*Scene, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if b == nil {
		b = bus.New()
	}

	scene := &Scene{
		FPS:   d.FPS,
		Bus:   b,
		Group: tween.NewGroup(tween.WithGroupBus(b)),
	}
	for i, spec := range d.Tweens {
		tw, err := spec.build(spec.name(i), b)
		if err != nil {
			return nil, err
		}
		scene.Group.Add(tw)
	}
	for i, spec := range d.Timers {
		t, err := spec.build(spec.name(i), b)
		if err != nil {
			return nil, err
		}
		t.Start()
		if spec.Paused {
			t.Pause()
		}
		scene.Timers = append(scene.Timers, t)
	}
	return scene, nil
}

func (s TweenSpec) name(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("tween-%d", i+1)
}

func (s TweenSpec) build(name string, b *bus.Bus) (*tween.Tween, error) {
	opts := []tween.Option{
		tween.WithName(name),
		tween.WithBus(b),
		tween.WithRepeat(s.Repeat),
	}
	if s.Easing != "" {
		opts = append(opts, tween.WithEasingName(s.Easing))
	}
	if s.Yoyo {
		opts = append(opts, tween.WithYoyo())
	}
	if s.Paused {
		opts = append(opts, tween.StartPaused())
	}
	return tween.NewVector(s.From, s.To, s.Duration.Milliseconds(), opts...)
}

func (s TimerSpec) name(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("timer-%d", i+1)
}

func (s TimerSpec) build(name string, b *bus.Bus) (*timer.Timer, error) {
	mode, err := timer.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}
	return timer.New(s.Duration.Milliseconds(), mode,
		timer.WithName(name),
		timer.WithBus(b),
		timer.WithLaps(s.Laps))
}
