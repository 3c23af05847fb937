// Package backend defines how a Runner presents frames and collects input.
package backend

import "github.com/valerio/go-tempo/tempo/input/action"

// Backend represents a presentation surface for a running scene.
// Backends are responsible for:
// - Rendering a Frame snapshot to their specific output (terminal, logs, etc.)
// - Translating platform-specific input events to Actions
type Backend interface {
	// Init configures the backend. It must be called before Update.
	Init(config Config) error

	// Update renders the frame and returns the input collected since the
	// previous call.
	Update(frame Frame) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// Config holds configuration for backends
type Config struct {
	Title     string
	TargetFPS float64
	ShowHelp  bool // Backends may ignore unsupported features
}

// InputEvent is an action requested by the user through a backend.
type InputEvent struct {
	Action action.Action
}

// Frame is a read-only snapshot of the scene after a Runner step.
type Frame struct {
	Number  uint64
	TimeMs  float64
	DeltaMs float64
	FPS     float64
	Speed   float64
	Paused  bool
	Tweens  []TweenView
	Timers  []TimerView
}

// TweenView describes one live tween.
type TweenView struct {
	Name     string
	Value    float64
	Vector   []float64
	Progress float64
	State    string
	Repeat   int
}

// TimerView describes one named timer.
type TimerView struct {
	Name     string
	Progress float64
	State    string
	Lap      int
	Laps     int
}
