package cart

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/agroconnect-tz/agroconnect-backend/internal/catalog"
	"github.com/agroconnect-tz/agroconnect-backend/internal/notifications"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect-tz/agroconnect-backend/pkg/errors"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cropLoader interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Crop, error)
}

/// Service owns the per-buyer carts. Cart state is session-local: it is lost
// on process restart.
type Service interface {
	Get(ctx context.Context, buyerID uuid.UUID) (*Snapshot, error)
	AddItem(ctx context.Context, buyerID, cropID uuid.UUID, quantity int) (*Snapshot, error)
	UpdateQuantity(ctx context.Context, buyerID, cropID uuid.UUID, quantity int) (*Snapshot, error)
	RemoveItem(ctx context.Context, buyerID, cropID uuid.UUID) (*Snapshot, error)
	Clear(ctx context.Context, buyerID uuid.UUID) error
	SetDeliveryLocation(ctx context.Context, buyerID uuid.UUID, loc types.DeliveryLocation) error
	// Reset empties the cart and drops the delivery location in one step.
	// Checkout calls it after an order is accepted.
	Reset(ctx context.Context, buyerID uuid.UUID)
}

// Item is one cart line. At most one item exists per crop id.
type Item struct {
	Crop     catalog.Crop   `json:"crop"`
	Quantity int            `json:"quantity"`
	Unit     enums.CropUnit `json:"unit"`
	AddedAt  time.Time      `json:"addedAt"`
}

// LineTotal is the item's contribution to the subtotal.
func (i Item) LineTotal() decimal.Decimal {
	return i.Crop.PricePerUnit.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Snapshot is a point-in-time copy of a buyer's cart. Totals are recomputed
// on every read, never cached.
type Snapshot struct {
	Items            []Item                  `json:"items"`
	TotalItems       int                     `json:"totalItems"`
	Subtotal         decimal.Decimal         `json:"subtotal"`
	DeliveryLocation *types.DeliveryLocation `json:"deliveryLocation,omitempty"`
}

type service struct {
	store    *store
	crops    cropLoader
	notifier notifications.Notifier
	now      func() time.Time
}

// NewService builds the cart service.
func NewService(crops cropLoader, notifier notifications.Notifier) (Service, error) {
	if crops == nil {
		return nil, fmt.Errorf("crop loader required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		store:    newStore(),
		crops:    crops,
		notifier: notifier,
		now:      time.Now,
	}, nil
}

func (s *service) Get(ctx context.Context, buyerID uuid.UUID) (*Snapshot, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	return s.store.snapshot(buyerID), nil
}

func (s *service) AddItem(ctx context.Context, buyerID, cropID uuid.UUID, quantity int) (*Snapshot, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	crop, err := s.crops.Get(ctx, cropID)
	if err != nil {
		return nil, err
	}
	if quantity > crop.QuantityAvailable {
		return nil, quantityExceeded(crop, quantity)
	}

	merged, err := s.store.upsertItem(buyerID, *crop, quantity, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if merged {
		s.notifier.Notify(ctx, buyerID, fmt.Sprintf("Updated %s quantity in your cart", crop.Name))
	} else {
		s.notifier.Notify(ctx, buyerID, fmt.Sprintf("Added %s to your cart", crop.Name))
	}
	return s.store.snapshot(buyerID), nil
}

func (s *service) UpdateQuantity(ctx context.Context, buyerID, cropID uuid.UUID, quantity int) (*Snapshot, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, buyerID, cropID)
	}

	if !s.store.hasItem(buyerID, cropID) {
		// Absent item: setting a quantity is a no-op, not an error.
		return s.store.snapshot(buyerID), nil
	}

	crop, err := s.crops.Get(ctx, cropID)
	if err != nil {
		return nil, err
	}
	if quantity > crop.QuantityAvailable {
		return nil, quantityExceeded(crop, quantity)
	}

	s.store.setQuantity(buyerID, *crop, quantity)
	s.notifier.Notify(ctx, buyerID, fmt.Sprintf("Updated %s quantity in your cart", crop.Name))
	return s.store.snapshot(buyerID), nil
}

func (s *service) RemoveItem(ctx context.Context, buyerID, cropID uuid.UUID) (*Snapshot, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	name := s.store.removeItem(buyerID, cropID)
	// Removal is idempotent: an absent item still reads as a successful
	// removal to the user.
	if name == "" {
		s.notifier.Notify(ctx, buyerID, "Item removed from your cart")
	} else {
		s.notifier.Notify(ctx, buyerID, fmt.Sprintf("Removed %s from your cart", name))
	}
	return s.store.snapshot(buyerID), nil
}

func (s *service) Clear(ctx context.Context, buyerID uuid.UUID) error {
	if buyerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	s.store.clearItems(buyerID)
	s.notifier.Notify(ctx, buyerID, "Your cart has been cleared")
	return nil
}

func (s *service) SetDeliveryLocation(ctx context.Context, buyerID uuid.UUID, loc types.DeliveryLocation) error {
	if buyerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	if !loc.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery location needs an address and valid coordinates")
	}
	s.store.setLocation(buyerID, loc)
	return nil
}

func (s *service) Reset(_ context.Context, buyerID uuid.UUID) {
	s.store.reset(buyerID)
}

func quantityExceeded(crop *catalog.Crop, requested int) error {
	return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("only %d %s of %s available", crop.QuantityAvailable, crop.Unit, crop.Name)).
		WithDetails(map[string]any{
			"cropId":    crop.ID.String(),
			"requested": requested,
			"available": crop.QuantityAvailable,
		})
}

// sortItems keeps snapshot ordering stable by insertion time.
func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AddedAt.Before(items[j].AddedAt)
	})
}
