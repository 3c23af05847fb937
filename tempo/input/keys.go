package input

import "github.com/valerio/go-tempo/tempo/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	"Space":  action.PauseToggle,
	"p":      action.PauseToggle,
	"o":      action.StepFrame,
	"f":      action.StepFrame, // Alternative key for step frame
	"r":      action.Restart,
	"+":      action.SpeedUp,
	"=":      action.SpeedUp, // Alternative without shift
	"-":      action.SlowDown,
	"_":      action.SlowDown, // Alternative with shift
	"Escape": action.Quit,
	"q":      action.Quit,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
