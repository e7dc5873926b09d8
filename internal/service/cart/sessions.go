package cart

import "sync"

// Sessions holds one Store per anonymous cart session id.
type Sessions struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewSessions() *Sessions {
	return &Sessions{stores: make(map[string]*Store)}
}

// Get returns the store for id, creating an empty one on first use.
func (s *Sessions) Get(id string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	store, ok := s.stores[id]
	if !ok {
		store = NewStore()
		s.stores[id] = store
	}
	return store
}

// Lookup returns the store for id without creating one.
func (s *Sessions) Lookup(id string) (*Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	store, ok := s.stores[id]
	return store, ok
}

// Drop discards the stores for ids, e.g. after their sessions expired.
func (s *Sessions) Drop(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.stores, id)
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}
