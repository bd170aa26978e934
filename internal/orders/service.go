package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agroconnect-tz/agroconnect-backend/internal/notifications"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect-tz/agroconnect-backend/pkg/errors"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/pagination"
	"github.com/google/uuid"
)

type stockReleaser interface {
	Release(ctx context.Context, cropID uuid.UUID, qty int) error
}

// Service exposes the order query surface plus the two user-driven
// transitions: buyer cancellation and seller confirmation.
type Service interface {
	Get(ctx context.Context, buyerID, orderID uuid.UUID) (*Order, error)
	List(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*ListResult, error)
	Cancel(ctx context.Context, buyerID, orderID uuid.UUID) (*Order, error)
	Confirm(ctx context.Context, sellerID, orderID uuid.UUID) (*Order, error)
}

// ListResult wraps one page of orders and the cursor for the next.
type ListResult struct {
	Items  []Order `json:"items"`
	Cursor string  `json:"cursor"`
}

type service struct {
	store    *Store
	stock    stockReleaser
	notifier notifications.Notifier
	now      func() time.Time
}

// NewService builds the order service over the shared store.
func NewService(store *Store, stock stockReleaser, notifier notifications.Notifier) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("order store required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock releaser required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		store:    store,
		stock:    stock,
		notifier: notifier,
		now:      time.Now,
	}, nil
}

func (s *service) Get(ctx context.Context, buyerID, orderID uuid.UUID) (*Order, error) {
	if buyerID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id and order id are required")
	}
	order, err := s.store.GetByID(orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	items, hasMore := s.store.ListByBuyer(buyerID, cursor, limit)
	result := &ListResult{Items: items}
	if result.Items == nil {
		result.Items = []Order{}
	}
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		result.Cursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

// Cancel lets the buyer abort an order that the lifecycle has not dispatched
// yet. Reserved stock goes back to the catalog.
func (s *service) Cancel(ctx context.Context, buyerID, orderID uuid.UUID) (*Order, error) {
	if buyerID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id and order id are required")
	}

	updated, err := s.store.Update(orderID, func(order *Order) error {
		if order.BuyerID != buyerID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		switch order.Status {
		case enums.OrderStatusPending, enums.OrderStatusConfirmed:
		case enums.OrderStatusCancelled:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already cancelled")
		default:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already on the way and can no longer be cancelled")
		}
		ApplyTransition(order, Transition{From: order.Status, To: enums.OrderStatusCancelled, At: s.now()})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}

	for _, item := range updated.Items {
		if releaseErr := s.stock.Release(ctx, item.CropID, item.Quantity); releaseErr != nil {
			// The cancellation already took effect; a failed restock only
			// loses the availability bump.
			if typed := pkgerrors.As(releaseErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
				return updated, releaseErr
			}
		}
	}

	s.notifier.Notify(ctx, buyerID, fmt.Sprintf("Your order %s has been cancelled", updated.Reference))
	return updated, nil
}

// Confirm records the seller accepting a pending order. The lifecycle
// worker still drives dispatch and delivery afterwards.
func (s *service) Confirm(ctx context.Context, sellerID, orderID uuid.UUID) (*Order, error) {
	if sellerID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id and order id are required")
	}

	updated, err := s.store.Update(orderID, func(order *Order) error {
		if !orderHasSeller(order, sellerID) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order is %s and cannot be confirmed", order.Status))
		}
		ApplyTransition(order, Transition{From: order.Status, To: enums.OrderStatusConfirmed, At: s.now()})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}

	s.notifier.Notify(ctx, updated.BuyerID, fmt.Sprintf("Your order %s was confirmed by the seller", updated.Reference))
	return updated, nil
}

func orderHasSeller(order *Order, sellerID uuid.UUID) bool {
	for _, item := range order.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}
