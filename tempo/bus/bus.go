// Package bus implements the synchronous publish/subscribe primitive used by
// timers and tweens to announce state changes.
//
// Delivery happens inside Publish, in subscription order. A failing listener
// never prevents delivery to the listeners after it; every failure is
// collected and returned to the publisher.
package bus

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Event is delivered to listeners.
type Event struct {
	Topic   string
	Payload any
}

// Listener handles a published event.
type Listener func(Event) error

// Handle identifies a subscription. The zero Handle is never issued.
type Handle uint64

// ListenerError wraps the failure of a single listener.
type ListenerError struct {
	Topic  string
	Handle Handle
	Err    error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("bus: listener %d on %q: %v", e.Handle, e.Topic, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

type subscription struct {
	handle Handle
	fn     Listener
	once   bool
	active bool
}

// Bus is a named-topic publish/subscribe registry. It is not safe for
// concurrent use; hosts serialize access the same way they serialize ticks.
type Bus struct {
	topics map[string][]*subscription
	next   Handle
}

func New() *Bus {
	return &Bus{
		topics: make(map[string][]*subscription),
	}
}

// Subscribe registers fn for topic and returns a handle for Unsubscribe.
func (b *Bus) Subscribe(topic string, fn Listener) Handle {
	return b.add(topic, fn, false)
}

// SubscribeOnce registers fn for the next event on topic only.
func (b *Bus) SubscribeOnce(topic string, fn Listener) Handle {
	return b.add(topic, fn, true)
}

func (b *Bus) add(topic string, fn Listener, once bool) Handle {
	if fn == nil {
		return 0
	}
	b.next++
	b.topics[topic] = append(b.topics[topic], &subscription{
		handle: b.next,
		fn:     fn,
		once:   once,
		active: true,
	})
	return b.next
}

// Unsubscribe removes the subscription h from topic. It reports whether a
// subscription was removed. Removing a listener while an event is being
// delivered prevents it from receiving that event if it has not run yet.
func (b *Bus) Unsubscribe(topic string, h Handle) bool {
	subs := b.topics[topic]
	for i, s := range subs {
		if s.handle != h {
			continue
		}
		s.active = false
		b.topics[topic] = append(subs[:i:i], subs[i+1:]...)
		if len(b.topics[topic]) == 0 {
			delete(b.topics, topic)
		}
		return true
	}
	return false
}

// Publish delivers payload to every listener of topic before returning.
// Listeners added during delivery only see later events. The returned error
// is nil or a *multierror.Error of *ListenerError values.
func (b *Bus) Publish(topic string, payload any) error {
	subs := b.topics[topic]
	if len(subs) == 0 {
		return nil
	}

	snapshot := make([]*subscription, len(subs))
	copy(snapshot, subs)

	evt := Event{Topic: topic, Payload: payload}
	var result *multierror.Error
	for _, s := range snapshot {
		if !s.active {
			continue
		}
		if s.once {
			b.Unsubscribe(topic, s.handle)
		}
		if err := invoke(s.fn, evt); err != nil {
			result = multierror.Append(result, &ListenerError{
				Topic:  topic,
				Handle: s.handle,
				Err:    err,
			})
		}
	}
	return result.ErrorOrNil()
}

func invoke(fn Listener, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(evt)
}

// Count returns the number of listeners subscribed to topic.
func (b *Bus) Count(topic string) int {
	return len(b.topics[topic])
}

// Reset removes every subscription.
func (b *Bus) Reset() {
	for _, subs := range b.topics {
		for _, s := range subs {
			s.active = false
		}
	}
	b.topics = make(map[string][]*subscription)
}
