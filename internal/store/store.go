package store

import (
	"sync"

	"github.com/fjod/storefront/internal/domain"
)

// Listener is notified after every applied transition with the resulting
// state and the action that produced it. Listeners run synchronously on the
// goroutine that called Apply, while the store is locked: they must return
// quickly and must not call Apply or State.
type Listener func(State, Action)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Store owns the application state and serializes transitions.
type Store struct {
	mu    sync.Mutex
	state State

	lmu       sync.Mutex
	listeners []listenerEntry
	nextID    uint64
}

// New creates a store seeded with the catalog.
func New(c domain.Catalog) *Store {
	return &Store{state: NewState(c)}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply performs one transition and returns the new snapshot. Listeners see
// transitions in exactly the order they were applied. A nil action is ignored.
func (s *Store) Apply(a Action) State {
	if a == nil {
		return s.State()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(a)
}

// Update calls fn with the current state while holding the store lock and
// applies the actions it returns in order, each as its own transition. No
// other transition can land between the read and the writes. fn must not call
// back into the store. An empty result leaves the store untouched.
func (s *Store) Update(fn func(State) []Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range fn(s.state) {
		if a == nil {
			continue
		}
		s.applyLocked(a)
	}
	return s.state
}

func (s *Store) applyLocked(a Action) State {
	next := Reduce(s.state, a)
	next.version = s.state.version + 1
	s.state = next

	for _, l := range s.snapshotListeners() {
		l.fn(next, a)
	}
	return next
}

// Subscribe registers fn and returns a function that removes it. The returned
// function is safe to call more than once and from inside a listener.
func (s *Store) Subscribe(fn Listener) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) snapshotListeners() []listenerEntry {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	return append([]listenerEntry(nil), s.listeners...)
}
