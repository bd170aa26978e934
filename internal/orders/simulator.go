package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/agroconnect-tz/agroconnect-backend/internal/notifications"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/enums"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/logger"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/metrics"
	"github.com/google/uuid"
)

const defaultTickInterval = 15 * time.Second

// SimulatorParams configure the lifecycle worker.
type SimulatorParams struct {
	Logger   *logger.Logger
	Store    *Store
	Notifier notifications.Notifier
	Metrics  *metrics.LifecycleMetrics
	Rules    Rules
	Interval time.Duration
}

// Simulator advances non-terminal orders through the delivery lifecycle on a
// fixed tick. It performs no I/O: each tick is a pure local state transform
// over the owned order store.
type Simulator struct {
	logg     *logger.Logger
	store    *Store
	notifier notifications.Notifier
	metrics  *metrics.LifecycleMetrics
	rules    Rules
	interval time.Duration
	now      func() time.Time
}

// NewSimulator builds the lifecycle worker.
func NewSimulator(params SimulatorParams) (*Simulator, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("order store required")
	}
	if params.Rules.DispatchAfter <= 0 || params.Rules.DeliverAfter <= 0 {
		return nil, fmt.Errorf("lifecycle rules require positive delays")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultTickInterval
	}
	return &Simulator{
		logg:     params.Logger,
		store:    params.Store,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		rules:    params.Rules,
		interval: interval,
		now:      time.Now,
	}, nil
}

// Run drives the tick loop until the context is canceled.
func (s *Simulator) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logg.Info(ctx, "order lifecycle worker started")
	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "order lifecycle worker stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

type appliedTransition struct {
	orderID   uuid.UUID
	reference string
	buyerID   uuid.UUID
	from      enums.OrderStatus
	to        enums.OrderStatus
}

// Tick scans every order once, applying any transition that is due. The scan
// holds the store lock so user-triggered mutations serialize against it.
func (s *Simulator) Tick(ctx context.Context) {
	start := s.now()

	var applied []appliedTransition
	s.store.Each(func(order *Order) {
		tr, ok := NextTransition(order, start, s.rules)
		if !ok {
			return
		}
		ApplyTransition(order, tr)
		applied = append(applied, appliedTransition{
			orderID:   order.ID,
			reference: order.Reference,
			buyerID:   order.BuyerID,
			from:      tr.From,
			to:        tr.To,
		})
	})

	// Notifications go out after the lock is released.
	for _, tr := range applied {
		s.metrics.IncTransition(tr.from.String(), tr.to.String())
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": tr.orderID.String(),
			"from":     tr.from.String(),
			"to":       tr.to.String(),
		})
		s.logg.Info(logCtx, "order status advanced")
		s.notify(ctx, tr)
	}

	s.metrics.ObserveTick(s.now().Sub(start))
}

func (s *Simulator) notify(ctx context.Context, tr appliedTransition) {
	if s.notifier == nil {
		return
	}
	var message string
	switch tr.to {
	case enums.OrderStatusInTransit:
		message = fmt.Sprintf("Your order %s is on the way", tr.reference)
	case enums.OrderStatusDelivered:
		message = fmt.Sprintf("Your order %s has been delivered", tr.reference)
	default:
		message = fmt.Sprintf("Your order %s is now %s", tr.reference, tr.to.TimelineLabel())
	}
	s.notifier.Notify(ctx, tr.buyerID, message)
}
