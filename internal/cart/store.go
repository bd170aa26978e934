package cart

import (
	"sync"
	"time"

	"github.com/agroconnect-tz/agroconnect-backend/internal/catalog"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// store holds every buyer's cart behind one mutex. HTTP handlers and the
// checkout path mutate the same structures, so access is serialized here
// rather than by a single-threaded event loop.
type store struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*cartState
}

type cartState struct {
	items    map[uuid.UUID]*Item
	location *types.DeliveryLocation
}

func newStore() *store {
	return &store{carts: make(map[uuid.UUID]*cartState)}
}

func (s *store) cart(buyerID uuid.UUID) *cartState {
	state, ok := s.carts[buyerID]
	if !ok {
		state = &cartState{items: make(map[uuid.UUID]*Item)}
		s.carts[buyerID] = state
	}
	return state
}

// upsertItem inserts the crop or merges into the existing line. A merge that
// would push the quantity past availability is rejected whole: prior state is
// left untouched.
func (s *store) upsertItem(buyerID uuid.UUID, crop catalog.Crop, quantity int, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.cart(buyerID)

	existing, ok := state.items[crop.ID]
	if !ok {
		state.items[crop.ID] = &Item{
			Crop:     crop,
			Quantity: quantity,
			Unit:     crop.Unit,
			AddedAt:  now,
		}
		return false, nil
	}

	newQty := existing.Quantity + quantity
	if newQty > crop.QuantityAvailable {
		return false, quantityExceeded(&crop, newQty)
	}
	existing.Quantity = newQty
	existing.Crop = crop
	return true, nil
}

func (s *store) hasItem(buyerID, cropID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.carts[buyerID]
	if !ok {
		return false
	}
	_, ok = state.items[cropID]
	return ok
}

func (s *store) setQuantity(buyerID uuid.UUID, crop catalog.Crop, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.cart(buyerID)
	item, ok := state.items[crop.ID]
	if !ok {
		return
	}
	item.Quantity = quantity
	item.Crop = crop
}

// removeItem drops the line and returns the crop name, or "" when it was
// already absent.
func (s *store) removeItem(buyerID, cropID uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.carts[buyerID]
	if !ok {
		return ""
	}
	item, ok := state.items[cropID]
	if !ok {
		return ""
	}
	delete(state.items, cropID)
	return item.Crop.Name
}

func (s *store) clearItems(buyerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.carts[buyerID]; ok {
		state.items = make(map[uuid.UUID]*Item)
	}
}

func (s *store) setLocation(buyerID uuid.UUID, loc types.DeliveryLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.cart(buyerID)
	state.location = &loc
}

func (s *store) reset(buyerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.carts[buyerID]; ok {
		state.items = make(map[uuid.UUID]*Item)
		state.location = nil
	}
}

// snapshot copies the current cart. Subtotal and item count are derived
// fresh from the lines so reads can never be stale.
func (s *store) snapshot(buyerID uuid.UUID) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{Items: []Item{}, Subtotal: decimal.Zero}
	state, ok := s.carts[buyerID]
	if !ok {
		return snap
	}

	for _, item := range state.items {
		snap.Items = append(snap.Items, *item)
		snap.TotalItems += item.Quantity
		snap.Subtotal = snap.Subtotal.Add(item.LineTotal())
	}
	sortItems(snap.Items)

	if state.location != nil {
		loc := *state.location
		snap.DeliveryLocation = &loc
	}
	return snap
}
