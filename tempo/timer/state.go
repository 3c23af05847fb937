package timer

import (
	"fmt"

	"github.com/valerio/go-tempo/tempo/errs"
)

// State is the lifecycle state of a Timer.
type State int

const (
	Idle State = iota
	Running
	Paused
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("timer.State(%d)", int(s))
	}
}

// Mode selects between a single countdown and a repeating interval.
type Mode int

const (
	OneShot Mode = iota
	Repeating
)

func (m Mode) String() string {
	switch m {
	case OneShot:
		return "one-shot"
	case Repeating:
		return "repeating"
	default:
		return fmt.Sprintf("timer.Mode(%d)", int(m))
	}
}

// ParseMode accepts the names used in animation descriptors.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "one-shot", "oneshot", "timeout":
		return OneShot, nil
	case "repeating", "interval", "loop":
		return Repeating, nil
	}
	return 0, errs.Config("timer", "mode", s, errs.ErrInvalidMode)
}
