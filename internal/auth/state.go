package auth

import (
	"sync"
	"time"
)

// loginState is what a pending sign-in remembers between start and callback.
type loginState struct {
	guestID string
	expires time.Time
}

// stateStore holds single-use OAuth state values in memory.
type stateStore struct {
	mu    sync.Mutex
	items map[string]loginState
	now   func() time.Time
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]loginState), now: time.Now}
}

func (s *stateStore) put(state string, ls loginState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.items[state] = ls
}

// consume removes state and reports whether it existed and had not expired.
func (s *stateStore) consume(state string) (loginState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.items[state]
	if !ok {
		return loginState{}, false
	}
	delete(s.items, state)
	if s.now().After(ls.expires) {
		return loginState{}, false
	}
	return ls, true
}

func (s *stateStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// purgeLocked drops abandoned sign-ins.
func (s *stateStore) purgeLocked() {
	now := s.now()
	for k, ls := range s.items {
		if now.After(ls.expires) {
			delete(s.items, k)
		}
	}
}
