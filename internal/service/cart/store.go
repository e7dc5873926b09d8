package cart

import (
	"sync"

	"github.com/shopspring/decimal"
	"grocery-storefront/internal/domain"
)

// Store owns a single cart State and serializes mutations through Reduce.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
	return s.state.clone()
}

func (s *Store) Add(product domain.Product) State {
	return s.dispatch(Add{Product: product})
}

func (s *Store) Remove(productID string) State {
	return s.dispatch(Remove{ProductID: productID})
}

func (s *Store) SetQuantity(productID string, quantity int) State {
	return s.dispatch(SetQuantity{ProductID: productID, Quantity: quantity})
}

func (s *Store) Clear() State {
	return s.dispatch(Clear{})
}

// Snapshot returns a copy that callers may keep or modify freely.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) Total() decimal.Decimal {
	return s.Snapshot().Total()
}

func (s *Store) ItemCount() int {
	return s.Snapshot().ItemCount()
}
