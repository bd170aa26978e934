package orders

import (
	"errors"
	"sync"

	"github.com/agroconnect-tz/agroconnect-backend/pkg/pagination"
	"github.com/google/uuid"
)

// ErrOrderNotFound signals a lookup for an unknown order id. Callers decide
// how to surface the absence; it is not an internal failure.
var ErrOrderNotFound = errors.New("order not found")

// Store owns the in-session order list: append-only, newest first. Orders
// are never deleted during a session. The simulator mutates the same
// structures readers query, so all access goes through the store mutex.
type Store struct {
	mu   sync.RWMutex
	list []*Order
	byID map[uuid.UUID]*Order
}

// NewStore builds an empty order store.
func NewStore() *Store {
	return &Store{byID: make(map[uuid.UUID]*Order)}
}

// Prepend adds a freshly created order at the head of the list.
func (s *Store) Prepend(order *Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append([]*Order{order}, s.list...)
	s.byID[order.ID] = order
}

// GetByID returns a copy of the order, or ErrOrderNotFound.
func (s *Store) GetByID(id uuid.UUID) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return order.Clone(), nil
}

// ListByBuyer pages through the buyer's orders, newest first. The bool
// reports whether more pages exist past the returned slice.
func (s *Store) ListByBuyer(buyerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*Order
	for _, order := range s.list {
		if order.BuyerID == buyerID {
			matched = append(matched, order)
		}
	}

	start := 0
	if cursor != nil {
		for i, order := range matched {
			if cursor.Matches(order.CreatedAt, order.ID) {
				start = i + 1
				break
			}
		}
	}
	if start >= len(matched) {
		return nil, false
	}

	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]Order, 0, end-start)
	for _, order := range matched[start:end] {
		out = append(out, *order.Clone())
	}
	return out, end < len(matched)
}

// Update applies fn to the stored order under the write lock and returns a
// copy of the result. fn returning an error leaves the order untouched only
// if fn itself did not mutate; callers validate before mutating.
func (s *Store) Update(id uuid.UUID, fn func(*Order) error) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	return order.Clone(), nil
}

// Each visits every order under the write lock. The lifecycle worker uses it
// to scan and mutate in one serialized pass.
func (s *Store) Each(fn func(*Order)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.list {
		fn(order)
	}
}

// Len reports how many orders exist in the session.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}
