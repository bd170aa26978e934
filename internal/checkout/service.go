package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agroconnect-tz/agroconnect-backend/internal/cart"
	"github.com/agroconnect-tz/agroconnect-backend/internal/notifications"
	"github.com/agroconnect-tz/agroconnect-backend/internal/orders"
	pkgerrors "github.com/agroconnect-tz/agroconnect-backend/pkg/errors"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cartAccess interface {
	Get(ctx context.Context, buyerID uuid.UUID) (*cart.Snapshot, error)
	Reset(ctx context.Context, buyerID uuid.UUID)
}

type stockReserver interface {
	Reserve(ctx context.Context, cropID uuid.UUID, qty int) error
	Release(ctx context.Context, cropID uuid.UUID, qty int) error
}

// Service turns a cart snapshot plus delivery location into an order.
type Service interface {
	ProceedToCheckout(ctx context.Context, buyerID uuid.UUID) (*orders.Order, error)
}

// ServiceParams configure the checkout service.
type ServiceParams struct {
	Logger           *logger.Logger
	Cart             cartAccess
	Stock            stockReserver
	Orders           *orders.Store
	Submitter        OrderSubmitter
	Notifier         notifications.Notifier
	DeliveryFee      decimal.Decimal
	DeliveryEstimate time.Duration
	MaxAttempts      int
	RetryBackoff     time.Duration
}

type service struct {
	logg             *logger.Logger
	cart             cartAccess
	stock            stockReserver
	orders           *orders.Store
	submitter        OrderSubmitter
	notifier         notifications.Notifier
	deliveryFee      decimal.Decimal
	deliveryEstimate time.Duration
	maxAttempts      int
	retryBackoff     time.Duration

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}

	now func() time.Time
}

// NewService builds a checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock reserver required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if params.Submitter == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.DeliveryFee.IsNegative() {
		return nil, fmt.Errorf("delivery fee cannot be negative")
	}
	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	deliveryEstimate := params.DeliveryEstimate
	if deliveryEstimate <= 0 {
		deliveryEstimate = 30 * time.Minute
	}
	return &service{
		logg:             params.Logger,
		cart:             params.Cart,
		stock:            params.Stock,
		orders:           params.Orders,
		submitter:        params.Submitter,
		notifier:         params.Notifier,
		deliveryFee:      params.DeliveryFee,
		deliveryEstimate: deliveryEstimate,
		maxAttempts:      maxAttempts,
		retryBackoff:     params.RetryBackoff,
		inFlight:         make(map[uuid.UUID]struct{}),
		now:              time.Now,
	}, nil
}

// ProceedToCheckout validates the cart, submits the order and, only on
// acceptance, clears the cart and delivery location. Any failure leaves the
// cart exactly as it was.
func (s *service) ProceedToCheckout(ctx context.Context, buyerID uuid.UUID) (*orders.Order, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}

	if !s.begin(buyerID) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a checkout is already in progress")
	}
	defer s.end(buyerID)

	snapshot, err := s.cart.Get(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if snapshot.DeliveryLocation == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "set a delivery location before checking out")
	}

	order := orders.NewOrder(orders.NewOrderParams{
		BuyerID:          buyerID,
		Items:            toOrderItems(snapshot.Items),
		DeliveryFee:      s.deliveryFee,
		DeliveryAddress:  *snapshot.DeliveryLocation,
		DeliveryEstimate: s.deliveryEstimate,
		Now:              s.now(),
	})

	if err := s.submitWithRetry(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout failed, your cart has been kept")
	}

	if err := s.reserveStock(ctx, snapshot.Items); err != nil {
		return nil, err
	}

	s.orders.Prepend(order)
	s.cart.Reset(ctx, buyerID)

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":  order.ID.String(),
		"reference": order.Reference,
		"total":     order.TotalAmount.String(),
	})
	s.logg.Info(logCtx, "order placed")
	s.notifier.Notify(ctx, buyerID, fmt.Sprintf("Order %s placed, estimated delivery in %s", order.Reference, s.deliveryEstimate))

	return order.Clone(), nil
}

// submitWithRetry retries transient submission failures with exponential
// backoff; permanent rejections surface immediately.
func (s *service) submitWithRetry(ctx context.Context, order *orders.Order) error {
	backoff := s.retryBackoff
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		lastErr = s.submitter.Submit(ctx, order)
		if lastErr == nil {
			return nil
		}
		if !pkgerrors.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == s.maxAttempts {
			break
		}
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"attempt": attempt,
			"backoff": backoff.String(),
		})
		s.logg.Warn(logCtx, "order submission failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return lastErr
}

// reserveStock decrements availability for every line. A line that can no
// longer be covered rolls back the lines already reserved.
func (s *service) reserveStock(ctx context.Context, items []cart.Item) error {
	reserved := make([]cart.Item, 0, len(items))
	for _, item := range items {
		if err := s.stock.Reserve(ctx, item.Crop.ID, item.Quantity); err != nil {
			for _, done := range reserved {
				if releaseErr := s.stock.Release(ctx, done.Crop.ID, done.Quantity); releaseErr != nil {
					s.logg.Error(ctx, "failed to roll back stock reservation", releaseErr)
				}
			}
			return err
		}
		reserved = append(reserved, item)
	}
	return nil
}

func (s *service) begin(buyerID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.inFlight[buyerID]; exists {
		return false
	}
	s.inFlight[buyerID] = struct{}{}
	return true
}

func (s *service) end(buyerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, buyerID)
}

func toOrderItems(items []cart.Item) []orders.NewOrderItem {
	out := make([]orders.NewOrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, orders.NewOrderItem{
			CropID:       item.Crop.ID,
			CropName:     item.Crop.Name,
			SellerID:     item.Crop.SellerID,
			SellerName:   item.Crop.SellerName,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			PricePerUnit: item.Crop.PricePerUnit,
		})
	}
	return out
}
