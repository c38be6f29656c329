package state

import "sync"

// Listener is notified with a snapshot of the state after every update.
type Listener[T any] func(snapshot T)

// Store is an observable state container. State values are treated as immutable
// snapshots: updates must replace slices and maps rather than mutate them.
type Store[T any] struct {
	mu        sync.RWMutex
	state     T
	listeners map[uint64]Listener[T]
	nextID    uint64

	// notifyMu keeps listeners seeing updates in commit order.
	notifyMu sync.Mutex
}

// New creates a store holding initial.
func New[T any](initial T) *Store[T] {
	return &Store[T]{
		state:     initial,
		listeners: make(map[uint64]Listener[T]),
	}
}

// Get returns the current snapshot.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Update applies fn to the state and notifies listeners with the result.
// Listeners run on the updating goroutine and must not call Update themselves.
func (s *Store[T]) Update(fn func(*T)) T {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state
	listeners := make([]Listener[T], 0, len(s.listeners))

	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}

	return snapshot
}

// Subscribe registers l and returns a function that removes it.
func (s *Store[T]) Subscribe(l Listener[T]) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.listeners, id)
	}
}
