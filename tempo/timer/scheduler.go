package timer

import (
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/valerio/go-tempo/tempo/bus"
	"github.com/valerio/go-tempo/tempo/errs"
)

// ID identifies a scheduled callback. The zero ID is never issued.
type ID uint64

type entry struct {
	id     ID
	timer  *Timer
	handle bus.Handle
	topic  string
}

// Scheduler runs callbacks after a delay, on an interval, or for a bounded
// number of laps. Callbacks run inside Update, in the order they were
// scheduled. Delays are in milliseconds.
type Scheduler struct {
	bus     *bus.Bus
	entries []*entry
	next    ID
}

func NewScheduler() *Scheduler {
	return &Scheduler{bus: bus.New()}
}

// SetTimeout calls fn once after delayMs. A zero delay fires on the next Update.
func (s *Scheduler) SetTimeout(delayMs float64, fn func()) (ID, error) {
	return s.schedule(delayMs, OneShot, 0, TopicDone, func(bus.Event) error {
		fn()
		return nil
	})
}

// SetInterval calls fn every delayMs until cancelled.
func (s *Scheduler) SetInterval(delayMs float64, fn func()) (ID, error) {
	return s.schedule(delayMs, Repeating, 0, TopicInterval, func(bus.Event) error {
		fn()
		return nil
	})
}

// RunInterval calls fn immediately, then every delayMs.
func (s *Scheduler) RunInterval(delayMs float64, fn func()) (ID, error) {
	id, err := s.SetInterval(delayMs, fn)
	if err != nil {
		return 0, err
	}
	fn()
	return id, nil
}

// SetCountdown calls fn every delayMs, laps times, passing the number of laps
// left. The entry is released after the last call.
func (s *Scheduler) SetCountdown(delayMs float64, laps int, fn func(remaining int)) (ID, error) {
	if laps <= 0 {
		return 0, fmt.Errorf("scheduler: %w", errs.Config("countdown", "laps", laps, errs.ErrInvalidLaps))
	}
	return s.schedule(delayMs, Repeating, laps, TopicInterval, func(e bus.Event) error {
		fn(laps - e.Payload.(Event).Lap)
		return nil
	})
}

func (s *Scheduler) schedule(delayMs float64, mode Mode, laps int, kind string, fn bus.Listener) (ID, error) {
	s.next++
	id := s.next
	name := fmt.Sprintf("scheduler/%d", id)

	t, err := New(delayMs, mode, WithBus(s.bus), WithName(name), WithLaps(laps))
	if err != nil {
		s.next--
		return 0, fmt.Errorf("scheduler: %w", err)
	}

	topic := t.Topic(kind)
	e := &entry{
		id:     id,
		timer:  t,
		handle: s.bus.Subscribe(topic, fn),
		topic:  topic,
	}
	s.entries = append(s.entries, e)
	t.Start()

	slog.Debug("Callback scheduled", "id", id, "mode", mode, "delay_ms", delayMs, "laps", laps)
	return id, nil
}

// Cancel removes a pending callback. It reports whether id was pending.
func (s *Scheduler) Cancel(id ID) bool {
	for i, e := range s.entries {
		if e.id != id {
			continue
		}
		e.timer.Cancel()
		s.bus.Unsubscribe(e.topic, e.handle)
		s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
		slog.Debug("Callback cancelled", "id", id)
		return true
	}
	return false
}

// Update advances every pending callback by deltaMs and releases the ones
// that finished. Callbacks scheduled from inside a callback start counting on
// the next Update. Failing callbacks are reported but never stop the pass.
func (s *Scheduler) Update(deltaMs float64) error {
	pending := make([]*entry, len(s.entries))
	copy(pending, s.entries)

	var result *multierror.Error
	for _, e := range pending {
		if err := e.timer.Update(deltaMs); err != nil {
			slog.Error("Error in timed callback", "id", e.id, "error", err)
			result = multierror.Append(result, err)
		}
	}

	kept := s.entries[:0]
	for _, e := range s.entries {
		switch e.timer.State() {
		case Completed, Cancelled:
			s.bus.Unsubscribe(e.topic, e.handle)
		default:
			kept = append(kept, e)
		}
	}
	clear(s.entries[len(kept):])
	s.entries = kept

	return result.ErrorOrNil()
}

// Pending reports whether id is still scheduled.
func (s *Scheduler) Pending(id ID) bool {
	for _, e := range s.entries {
		if e.id == id {
			return true
		}
	}
	return false
}

// Len returns the number of pending callbacks.
func (s *Scheduler) Len() int {
	return len(s.entries)
}

// Clear cancels every pending callback.
func (s *Scheduler) Clear() {
	for _, e := range s.entries {
		e.timer.Cancel()
	}
	s.entries = nil
	s.bus.Reset()
}
