// ABOUTME: Thread-safe holder for session state with subscriptions
// ABOUTME: Dispatch serializes transitions so listeners only see whole states
package store

import "sync"

// Store holds the current State and applies actions to it.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]func(State)
	nextID    int
	notifyMu  sync.Mutex
}

// New creates a store starting from initial.
func New(initial State) *Store {
	return &Store{
		state:     initial,
		listeners: make(map[int]func(State)),
	}
}

// State returns the current state. Callers must treat its slices as read-only.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies action and notifies subscribers with the resulting state.
func (s *Store) Dispatch(action Action) State {
	// notifyMu keeps listener delivery in dispatch order.
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := s.state
	listeners := make([]func(State), 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return next
}

// Subscribe registers fn to run after every dispatch. The returned func removes it.
// Listeners must not call Dispatch.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
