// Package prefs is a process-scoped publish/subscribe store for viewer
// preferences that outlive a single viewer session.
package prefs

import "sync"

// Preferences are the viewer choices carried from one session to the next
type Preferences struct {
	Transition      string
	IntervalSeconds int
}

// Store holds the current Preferences and notifies subscribers on change
type Store struct {
	mu      sync.RWMutex
	current Preferences
	subs    map[uint64]func(Preferences)
	nextID  uint64
}

// NewStore creates a Store seeded with initial
func NewStore(initial Preferences) *Store {
	return &Store{
		current: initial,
		subs:    make(map[uint64]func(Preferences)),
	}
}

// Get returns the current preferences
func (s *Store) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the preferences and notifies subscribers when they changed.
// Subscribers run synchronously on the caller's goroutine, outside the lock.
func (s *Store) Set(p Preferences) {
	s.mu.Lock()
	if p == s.current {
		s.mu.Unlock()
		return
	}
	s.current = p
	subs := make([]func(Preferences), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
}

// Subscribe registers fn for future changes. The returned func removes the
// subscription and is safe to call more than once.
func (s *Store) Subscribe(fn func(Preferences)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions
func (s *Store) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
