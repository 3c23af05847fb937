package headless

import (
	"log/slog"

	"github.com/valerio/go-tempo/tempo/backend"
	"github.com/valerio/go-tempo/tempo/input/action"
)

// Backend implements the Backend interface for automated runs. It logs the
// scene periodically and requests Quit once maxFrames frames were rendered.
type Backend struct {
	config     backend.Config
	frameCount int
	maxFrames  int
	logEvery   int
	last       backend.Frame
}

// New creates a headless backend. A logEvery of zero disables periodic
// frame logging; maxFrames of zero runs until the caller stops.
func New(maxFrames, logEvery int) *Backend {
	return &Backend{
		maxFrames: maxFrames,
		logEvery:  logEvery,
	}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config
	slog.Info("Running headless mode",
		"title", config.Title,
		"frames", h.maxFrames,
		"log_every", h.logEvery)
	return nil
}

// Update records the frame and logs progress
func (h *Backend) Update(frame backend.Frame) ([]backend.InputEvent, error) {
	h.frameCount++
	h.last = frame

	if h.logEvery > 0 && h.frameCount%h.logEvery == 0 {
		logFrame(frame)
	}

	if h.maxFrames > 0 && h.frameCount >= h.maxFrames {
		slog.Info("Headless execution completed",
			"frames", h.frameCount,
			"time_ms", frame.TimeMs,
			"tweens", len(frame.Tweens))
		return []backend.InputEvent{{Action: action.Quit}}, nil
	}
	return nil, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Frames returns how many frames were rendered.
func (h *Backend) Frames() int {
	return h.frameCount
}

// LastFrame returns the most recent frame passed to Update.
func (h *Backend) LastFrame() backend.Frame {
	return h.last
}

func logFrame(frame backend.Frame) {
	slog.Info("Frame progress",
		"frame", frame.Number,
		"time_ms", frame.TimeMs,
		"fps", frame.FPS,
		"paused", frame.Paused)
	for _, tw := range frame.Tweens {
		slog.Info("Tween",
			"name", tw.Name,
			"value", tw.Value,
			"progress", tw.Progress,
			"state", tw.State)
	}
	for _, tm := range frame.Timers {
		slog.Info("Timer",
			"name", tm.Name,
			"progress", tm.Progress,
			"state", tm.State,
			"lap", tm.Lap)
	}
}
