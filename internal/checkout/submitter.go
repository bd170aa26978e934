package checkout

import (
	"context"
	"time"

	"github.com/agroconnect-tz/agroconnect-backend/internal/orders"
)

// OrderSubmitter hands a constructed order to the backing platform. A real
// implementation submits over the network and may reject; the simulated one
// only models the latency.
type OrderSubmitter interface {
	Submit(ctx context.Context, order *orders.Order) error
}

// SimulatedSubmitter stands in for the hosted order backend: it blocks for a
// fixed delay and always accepts.
type SimulatedSubmitter struct {
	Delay time.Duration
}

func (s SimulatedSubmitter) Submit(ctx context.Context, _ *orders.Order) error {
	if s.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
