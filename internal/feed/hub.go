// Package feed fans full-state snapshots out to live subscribers.
//
// Every push replaces the subscriber's view, so a slow subscriber only ever
// sees the newest snapshot: older undelivered ones are dropped.
package feed

import "sync"

// Hub publishes snapshots of type T. Publish calls are serialized; subscribers
// observe snapshots in publish order (possibly skipping superseded ones).
type Hub[T any] struct {
	mu      sync.Mutex
	subs    map[uint64]*Subscription[T]
	nextID  uint64
	last    T
	hasLast bool
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[uint64]*Subscription[T])}
}

// Subscription receives snapshots on Updates until Close is called.
type Subscription[T any] struct {
	hub    *Hub[T]
	id     uint64
	ch     chan T
	closed bool
}

// Subscribe registers a new subscriber. If a snapshot was already published it
// is queued immediately.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription[T]{hub: h, id: h.nextID, ch: make(chan T, 1)}
	h.subs[sub.id] = sub
	if h.hasLast {
		sub.ch <- h.last
	}
	return sub
}

// Publish replaces the current snapshot and offers it to every subscriber.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = v
	h.hasLast = true
	for _, sub := range h.subs {
		sub.offer(v)
	}
}

// Latest returns the last published snapshot.
func (h *Hub[T]) Latest() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.hasLast
}

func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// offer must be called with the hub lock held.
func (s *Subscription[T]) offer(v T) {
	select {
	case s.ch <- v:
		return
	default:
	}
	// drop the superseded snapshot, then retry
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- v:
	default:
	}
}

func (s *Subscription[T]) Updates() <-chan T {
	return s.ch
}

// Close detaches the subscription and closes Updates. Any snapshot still
// queued is discarded. Safe to call more than once.
func (s *Subscription[T]) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	delete(s.hub.subs, s.id)
	select {
	case <-s.ch:
	default:
	}
	close(s.ch)
}
