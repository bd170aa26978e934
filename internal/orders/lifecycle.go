package orders

import (
	"time"

	"github.com/agroconnect-tz/agroconnect-backend/pkg/enums"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/types"
)

// Rules are the elapsed-time thresholds driving automatic transitions.
type Rules struct {
	// DispatchAfter moves pending and confirmed orders in transit.
	DispatchAfter time.Duration
	// DeliverAfter moves in-transit orders to delivered, measured from the
	// dispatch update.
	DeliverAfter time.Duration
}

// Transition is one status edge applied to an order.
type Transition struct {
	From enums.OrderStatus
	To   enums.OrderStatus
	At   time.Time
}

// courier is the placeholder assigned when an order goes in transit. A real
// dispatch integration would supply this.
var courier = Driver{
	ID:      "drv-001",
	Name:    "Juma Hassan",
	Phone:   "+255 754 123 456",
	Vehicle: "Toyota Hiace - T 123 ABC",
}

// dispatchPoint is the courier's reference starting position.
var dispatchPoint = TrackingLocation{
	Coordinates: types.Coordinates{Latitude: -6.8160, Longitude: 39.2803},
	Address:     "Kariakoo Market, Dar es Salaam",
}

// NextTransition reports the transition due for the order at now, if any.
// It is pure: eligibility is computed from the order's own last tracking
// update (its creation time before any update), never from a global clock
// offset, so orders created at different times progress independently.
func NextTransition(o *Order, now time.Time, rules Rules) (Transition, bool) {
	if o == nil || o.Status.IsTerminal() {
		return Transition{}, false
	}

	base := o.Tracking.LastUpdate
	if base.IsZero() {
		base = o.CreatedAt
	}
	elapsed := now.Sub(base)

	switch o.Status {
	case enums.OrderStatusPending, enums.OrderStatusConfirmed:
		if elapsed > rules.DispatchAfter {
			return Transition{From: o.Status, To: enums.OrderStatusInTransit, At: now}, true
		}
	case enums.OrderStatusInTransit:
		if elapsed > rules.DeliverAfter {
			return Transition{From: o.Status, To: enums.OrderStatusDelivered, At: now}, true
		}
	}
	return Transition{}, false
}

// ApplyTransition mutates the order for the given edge: status, timeline and
// tracking metadata. Each application appends exactly one timeline entry and
// moves the Current flag onto it.
func ApplyTransition(o *Order, tr Transition) {
	at := tr.At.UTC()
	o.Status = tr.To

	for i := range o.Tracking.Timeline {
		o.Tracking.Timeline[i].Current = false
	}
	o.Tracking.Timeline = append(o.Tracking.Timeline, TimelineEntry{
		Status:    tr.To.TimelineLabel(),
		Time:      at,
		Completed: true,
		Current:   true,
	})

	if tr.To == enums.OrderStatusInTransit {
		driver := courier
		loc := dispatchPoint
		o.Tracking.Driver = &driver
		o.Tracking.CurrentLocation = &loc
	}

	o.Tracking.CurrentStatus = tr.To.TimelineLabel()
	o.Tracking.LastUpdate = at
}
