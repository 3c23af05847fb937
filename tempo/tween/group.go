package tween

import (
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/valerio/go-tempo/tempo/bus"
)

const (
	TopicRemoved = "removed"
	TopicDrained = "drained"
)

// Handle identifies a tween inside a Group. The zero Handle is never issued.
type Handle uint64

// GroupEvent is the payload of TopicRemoved and TopicDrained.
type GroupEvent struct {
	Handle Handle
	Name   string
}

type member struct {
	handle Handle
	tween  *Tween
	gone   bool
	done   bool
}

// Group advances a set of independent tweens in insertion order and drops
// the ones that complete.
type Group struct {
	members []*member
	next    Handle
	bus     *bus.Bus
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithGroupBus publishes removal events on a shared bus.
func WithGroupBus(b *bus.Bus) GroupOption {
	return func(g *Group) {
		if b != nil {
			g.bus = b
		}
	}
}

func NewGroup(opts ...GroupOption) *Group {
	g := &Group{}
	for _, opt := range opts {
		opt(g)
	}
	if g.bus == nil {
		g.bus = bus.New()
	}
	return g
}

// Add inserts t and returns its handle. A nil tween is ignored and yields 0.
func (g *Group) Add(t *Tween) Handle {
	if t == nil {
		return 0
	}
	g.next++
	g.members = append(g.members, &member{handle: g.next, tween: t})
	return g.next
}

// Remove drops the tween for h immediately, whatever its state. Unknown
// handles are ignored.
func (g *Group) Remove(h Handle) {
	for i, m := range g.members {
		if m.handle != h {
			continue
		}
		m.gone = true
		g.members = append(g.members[:i:i], g.members[i+1:]...)
		return
	}
}

// Update advances every tween by deltaMs, then prunes the ones that completed
// during this pass. Completion events fire during the first phase, so
// listeners always run before the tween leaves the group. Tweens added by a
// listener start advancing on the next Update; tweens added already completed
// stay until removed or restarted.
func (g *Group) Update(deltaMs float64) error {
	pass := make([]*member, len(g.members))
	copy(pass, g.members)

	var result *multierror.Error
	for _, m := range pass {
		if m.gone {
			continue
		}
		wasDone := m.tween.IsCompleted()
		if err := m.tween.Update(deltaMs); err != nil {
			result = multierror.Append(result, err)
		}
		m.done = !wasDone && m.tween.IsCompleted()
	}

	pruned := 0
	kept := make([]*member, 0, len(g.members))
	for _, m := range g.members {
		if !m.done || !m.tween.IsCompleted() {
			kept = append(kept, m)
			continue
		}
		m.gone = true
		pruned++
		if err := g.bus.Publish(TopicRemoved, GroupEvent{Handle: m.handle, Name: m.tween.Name()}); err != nil {
			result = multierror.Append(result, err)
		}
	}
	g.members = kept

	if pruned > 0 {
		slog.Debug("Pruned completed tweens", "pruned", pruned, "remaining", len(g.members))
		if len(g.members) == 0 {
			if err := g.bus.Publish(TopicDrained, GroupEvent{}); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}

// Get returns the tween for h.
func (g *Group) Get(h Handle) (*Tween, bool) {
	for _, m := range g.members {
		if m.handle == h {
			return m.tween, true
		}
	}
	return nil, false
}

// Handles returns the live handles in update order.
func (g *Group) Handles() []Handle {
	handles := make([]Handle, len(g.members))
	for i, m := range g.members {
		handles[i] = m.handle
	}
	return handles
}

// Each calls fn for every live tween in update order.
func (g *Group) Each(fn func(Handle, *Tween)) {
	for _, m := range g.members {
		fn(m.handle, m.tween)
	}
}

func (g *Group) Len() int {
	return len(g.members)
}

// PauseAll pauses every running tween.
func (g *Group) PauseAll() {
	for _, m := range g.members {
		if m.tween.State() == Running {
			m.tween.Pause()
		}
	}
}

// UnpauseAll resumes every paused tween.
func (g *Group) UnpauseAll() {
	for _, m := range g.members {
		if m.tween.IsPaused() {
			m.tween.Unpause()
		}
	}
}

// Clear drops every tween without publishing removals.
func (g *Group) Clear() {
	for _, m := range g.members {
		m.gone = true
	}
	g.members = nil
}

func (g *Group) Bus() *bus.Bus {
	return g.bus
}
