package action

import "fmt"

// Action represents an input action understood by the runner.
type Action int

const (
	PauseToggle Action = iota
	StepFrame
	Restart
	SpeedUp
	SlowDown
	Quit
)

var names = map[Action]string{
	PauseToggle: "pause-toggle",
	StepFrame:   "step-frame",
	Restart:     "restart",
	SpeedUp:     "speed-up",
	SlowDown:    "slow-down",
	Quit:        "quit",
}

func (a Action) String() string {
	if name, ok := names[a]; ok {
		return name
	}
	return fmt.Sprintf("action.Action(%d)", int(a))
}

// Debounced reports whether repeated triggers of a should be rate limited.
// Stepping and speed changes are meant to be held down.
func (a Action) Debounced() bool {
	switch a {
	case PauseToggle, Restart:
		return true
	}
	return false
}
