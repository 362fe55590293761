// Package bus carries change notifications between the repository and any
// interested views. Delivery is synchronous, at-most-once per emission, with
// no persistence or replay: a subscriber registered after an emission never
// sees it. An optional Transport extends delivery to other processes sharing
// the same database.
package bus

import (
	"sync"

	"github.com/julianstephens/habitheat/internal/logger"
)

// Topic names a category of change notification.
type Topic string

const (
	TopicHabitCreated Topic = "habit:created"
	TopicHabitUpdated Topic = "habit:updated"
	TopicTickChanged  Topic = "tick:changed"
)

// Event is the message shape broadcast to other contexts, verbatim.
type Event struct {
	Name   Topic  `json:"name"`
	Detail string `json:"detail"`
}

// Handler receives the string payload of a notification.
type Handler func(detail string)

// Bus is an in-process publish/subscribe channel with best-effort
// cross-process broadcast.
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	subs      map[Topic]map[int]Handler
	transport Transport
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a bus. transport may be nil for in-process-only delivery.
func New(transport Transport) *Bus {
	b := &Bus{
		subs:      make(map[Topic]map[int]Handler),
		transport: transport,
		done:      make(chan struct{}),
	}
	if transport != nil {
		go b.pump()
	}
	return b
}

// pump relays events received from other processes into local subscribers.
func (b *Bus) pump() {
	for {
		select {
		case evt, ok := <-b.transport.Events():
			if !ok {
				return
			}
			b.dispatch(evt.Name, evt.Detail)
		case <-b.done:
			return
		}
	}
}

// Subscribe registers a handler for a topic and returns a cancel func.
func (b *Bus) Subscribe(topic Topic, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	b.subs[topic][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish delivers the payload to every local subscriber of the topic and
// then broadcasts it to other contexts. Broadcast failures degrade silently
// to in-process-only delivery.
func (b *Bus) Publish(topic Topic, detail string) {
	b.dispatch(topic, detail)

	if b.transport != nil {
		if err := b.transport.Broadcast(Event{Name: topic, Detail: detail}); err != nil {
			logger.Warn("cross-context broadcast failed", "topic", topic, "error", err)
		}
	}
}

func (b *Bus) dispatch(topic Topic, detail string) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, h := range b.subs[topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(detail)
	}
}

// Close stops the transport pump and releases the transport.
func (b *Bus) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.done)
		if b.transport != nil {
			err = b.transport.Close()
		}
	})
	return err
}
