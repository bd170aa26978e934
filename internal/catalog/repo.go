package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/agroconnect-tz/agroconnect-backend/pkg/enums"
	"github.com/google/uuid"
)

var (
	// ErrCropNotFound signals a lookup for an unknown crop id.
	ErrCropNotFound = errors.New("crop not found")
	// ErrInsufficientStock signals a reservation larger than the available quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Repository stores crop listings.
type Repository interface {
	Insert(ctx context.Context, crop Crop) error
	Get(ctx context.Context, id uuid.UUID) (*Crop, error)
	List(ctx context.Context, category *enums.CropCategory) ([]Crop, error)
	Search(ctx context.Context, query string) ([]Crop, error)
	Reserve(ctx context.Context, id uuid.UUID, qty int) error
	Release(ctx context.Context, id uuid.UUID, qty int) error
}

// memoryRepository keeps the catalog in process memory. Persistence lives
// with the hosting platform, not this service.
type memoryRepository struct {
	mu    sync.RWMutex
	crops map[uuid.UUID]*Crop
}

// NewRepository builds an empty in-memory crop repository.
func NewRepository() Repository {
	return &memoryRepository{crops: make(map[uuid.UUID]*Crop)}
}

func (r *memoryRepository) Insert(_ context.Context, crop Crop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := crop.clone()
	r.crops[crop.ID] = &stored
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id uuid.UUID) (*Crop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	crop, ok := r.crops[id]
	if !ok {
		return nil, ErrCropNotFound
	}
	out := crop.clone()
	return &out, nil
}

func (r *memoryRepository) List(_ context.Context, category *enums.CropCategory) ([]Crop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Crop, 0, len(r.crops))
	for _, crop := range r.crops {
		if category != nil && crop.Category != *category {
			continue
		}
		out = append(out, crop.clone())
	}
	sortCrops(out)
	return out, nil
}

func (r *memoryRepository) Search(_ context.Context, query string) ([]Crop, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Crop
	for _, crop := range r.crops {
		if needle == "" ||
			strings.Contains(strings.ToLower(crop.Name), needle) ||
			strings.Contains(strings.ToLower(crop.SellerName), needle) {
			out = append(out, crop.clone())
		}
	}
	sortCrops(out)
	return out, nil
}

func (r *memoryRepository) Reserve(_ context.Context, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	crop, ok := r.crops[id]
	if !ok {
		return ErrCropNotFound
	}
	if qty > crop.QuantityAvailable {
		return ErrInsufficientStock
	}
	crop.QuantityAvailable -= qty
	return nil
}

func (r *memoryRepository) Release(_ context.Context, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	crop, ok := r.crops[id]
	if !ok {
		return ErrCropNotFound
	}
	crop.QuantityAvailable += qty
	return nil
}

// sortCrops keeps listings stable: newest first, id as tie-break.
func sortCrops(crops []Crop) {
	sort.Slice(crops, func(i, j int) bool {
		if !crops[i].CreatedAt.Equal(crops[j].CreatedAt) {
			return crops[i].CreatedAt.After(crops[j].CreatedAt)
		}
		return crops[i].ID.String() < crops[j].ID.String()
	})
}
