package events

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Listener reacts to emitted events
type Listener interface {
	HandleEvent(event Event) error
	Priority() int
	ID() string
}

// Bus records every event and then hands it to listeners in priority order.
// Listeners may emit further events; those are recorded and dispatched before
// the outer Emit returns.
type Bus struct {
	listeners map[Type][]Listener
	recorder  Recorder
	mu        sync.RWMutex
}

// NewBus creates a bus writing into recorder. A nil recorder drops events
// after dispatch.
func NewBus(recorder Recorder) *Bus {
	return &Bus{
		listeners: make(map[Type][]Listener),
		recorder:  recorder,
	}
}

// Subscribe adds a listener for one event type
func (b *Bus) Subscribe(eventType Type, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[eventType] = append(b.listeners[eventType], listener)

	sort.SliceStable(b.listeners[eventType], func(i, j int) bool {
		return b.listeners[eventType][i].Priority() < b.listeners[eventType][j].Priority()
	})
}

// SubscribeAll adds a listener for every event type
func (b *Bus) SubscribeAll(listener Listener) {
	for _, eventType := range AllTypes {
		b.Subscribe(eventType, listener)
	}
	log.Printf("EventBus: Subscribed listener %s to all events with priority %d",
		listener.ID(), listener.Priority())
}

// Unsubscribe removes a listener from one event type
func (b *Bus) Unsubscribe(eventType Type, listenerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners := b.listeners[eventType]
	for i, l := range listeners {
		if l.ID() != listenerID {
			continue
		}
		b.listeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
		return
	}
}

// Emit implements Emitter
func (b *Bus) Emit(event Event) error {
	if b.recorder != nil {
		event = b.recorder.Record(event)
	}

	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners[event.Type]))
	copy(listeners, b.listeners[event.Type])
	b.mu.RUnlock()

	for _, listener := range listeners {
		if err := listener.HandleEvent(event); err != nil {
			return fmt.Errorf("listener %s failed: %w", listener.ID(), err)
		}
	}

	return nil
}
