// Package bus is an in-process event channel that lets local writes to
// the shared session list notify subscribers immediately, instead of
// waiting for the next poll tick.
package bus

import "sync"

type EventType string

const EventSessionsChanged EventType = "sessions_changed"

type Event struct {
	Type      EventType
	SessionID string
}

const subscriberBuffer = 16

// Hub fans events out to subscribers. Publish never blocks; a
// subscriber that falls behind misses events and catches up on its next
// poll.
type Hub struct {
	mu      sync.Mutex
	subs    map[int]chan Event
	nextID  int
	stopped bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Subscribe returns an event channel and a cancel function. The channel
// is closed when the subscription is cancelled or the hub stops.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.stopped {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber that has buffer space.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Stop closes all subscriber channels. Further publishes are no-ops.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
