package hub

import (
	"sync"
)

// Hub is an in-process publish/subscribe hub keyed by topic.
// Callbacks run synchronously inside Publish; there is no queueing.
type Hub[K comparable, E any] struct {
	mu     sync.RWMutex
	topics map[K]map[uint64]func(E)
	nextID uint64
}

// New creates a new Hub.
func New[K comparable, E any]() *Hub[K, E] {
	return &Hub[K, E]{
		topics: make(map[K]map[uint64]func(E)),
	}
}

// Subscribe registers fn for key and returns an unsubscribe function.
// Calling the returned function more than once is a no-op.
func (h *Hub[K, E]) Subscribe(key K, fn func(E)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if _, ok := h.topics[key]; !ok {
		h.topics[key] = make(map[uint64]func(E))
	}
	h.topics[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() { h.unsubscribe(key, id) })
	}
}

func (h *Hub[K, E]) unsubscribe(key K, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.topics[key]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(h.topics, key)
		}
	}
}

// Publish delivers event to every subscriber of key and returns how many
// callbacks were invoked. The subscriber list is snapshotted first so a
// callback may unsubscribe itself.
func (h *Hub[K, E]) Publish(key K, event E) int {
	h.mu.RLock()
	subs := h.topics[key]
	callbacks := make([]func(E), 0, len(subs))
	for _, fn := range subs {
		callbacks = append(callbacks, fn)
	}
	h.mu.RUnlock()

	for _, fn := range callbacks {
		fn(event)
	}
	return len(callbacks)
}

// Len returns the number of subscribers for key.
func (h *Hub[K, E]) Len(key K) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[key])
}
