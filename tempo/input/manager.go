package input

import (
	"log/slog"
	"time"

	"github.com/valerio/go-tempo/tempo/input/action"
)

const (
	// debounceDuration is the minimum time between debounced triggers
	debounceDuration = 300 * time.Millisecond
)

// Manager dispatches input actions to their registered callbacks.
type Manager struct {
	handlers      map[action.Action][]func()
	lastTriggered map[action.Action]time.Time
	now           func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		handlers:      make(map[action.Action][]func()),
		lastTriggered: make(map[action.Action]time.Time),
		now:           time.Now,
	}
}

// On registers a callback for an action. Callbacks run in registration order.
func (m *Manager) On(act action.Action, callback func()) {
	m.handlers[act] = append(m.handlers[act], callback)
}

// Trigger runs the callbacks for act. It reports false when the trigger was
// debounced or nothing is registered.
func (m *Manager) Trigger(act action.Action) bool {
	if act.Debounced() {
		now := m.now()
		if last, ok := m.lastTriggered[act]; ok && now.Sub(last) < debounceDuration {
			slog.Debug("Input debounced", "action", act)
			return false
		}
		m.lastTriggered[act] = now
	}

	callbacks := m.handlers[act]
	for _, callback := range callbacks {
		callback()
	}
	return len(callbacks) > 0
}
