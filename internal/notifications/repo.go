package notifications

import (
	"sync"

	"github.com/agroconnect-tz/agroconnect-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Repository stores notifications per buyer, newest first.
type Repository interface {
	Append(notification Notification)
	ListByBuyer(buyerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]Notification, bool)
	MarkRead(buyerID, notificationID uuid.UUID) bool
	MarkAllRead(buyerID uuid.UUID) int
}

type memoryRepository struct {
	mu      sync.RWMutex
	byBuyer map[uuid.UUID][]Notification
}

// NewRepository builds an empty in-memory notification store.
func NewRepository() Repository {
	return &memoryRepository{byBuyer: make(map[uuid.UUID][]Notification)}
}

func (r *memoryRepository) Append(notification Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byBuyer[notification.BuyerID]
	r.byBuyer[notification.BuyerID] = append([]Notification{notification}, list...)
}

func (r *memoryRepository) ListByBuyer(buyerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]Notification, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.byBuyer[buyerID]

	start := 0
	if cursor != nil {
		for i, item := range list {
			if cursor.Matches(item.CreatedAt, item.ID) {
				start = i + 1
				break
			}
		}
	}
	if start >= len(list) {
		return nil, false
	}

	end := start + limit
	if end > len(list) {
		end = len(list)
	}
	out := make([]Notification, end-start)
	copy(out, list[start:end])
	return out, end < len(list)
}

func (r *memoryRepository) MarkRead(buyerID, notificationID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byBuyer[buyerID]
	for i := range list {
		if list[i].ID == notificationID {
			list[i].Read = true
			return true
		}
	}
	return false
}

func (r *memoryRepository) MarkAllRead(buyerID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byBuyer[buyerID]
	count := 0
	for i := range list {
		if !list[i].Read {
			list[i].Read = true
			count++
		}
	}
	return count
}
