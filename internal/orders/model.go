package orders

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/agroconnect-tz/agroconnect-backend/pkg/enums"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is an immutable record of a submitted cart. Only Status and Tracking
// change after creation, and only through the lifecycle rules or the
// cancel/confirm operations.
type Order struct {
	ID                uuid.UUID              `json:"id"`
	Reference         string                 `json:"reference"`
	BuyerID           uuid.UUID              `json:"buyerId"`
	SellerID          uuid.UUID              `json:"sellerId"`
	SellerName        string                 `json:"sellerName"`
	Items             []OrderItem            `json:"items"`
	Status            enums.OrderStatus      `json:"status"`
	Subtotal          decimal.Decimal        `json:"subtotal"`
	DeliveryFee       decimal.Decimal        `json:"deliveryFee"`
	TotalAmount       decimal.Decimal        `json:"totalAmount"`
	DeliveryAddress   types.DeliveryLocation `json:"deliveryAddress"`
	CreatedAt         time.Time              `json:"createdAt"`
	EstimatedDelivery time.Time              `json:"estimatedDelivery"`
	Tracking          Tracking               `json:"tracking"`
}

// OrderItem is a line cloned from the cart at checkout time.
type OrderItem struct {
	ID           uuid.UUID       `json:"id"`
	CropID       uuid.UUID       `json:"cropId"`
	CropName     string          `json:"cropName"`
	SellerID     uuid.UUID       `json:"sellerId"`
	SellerName   string          `json:"sellerName"`
	Quantity     int             `json:"quantity"`
	Unit         enums.CropUnit  `json:"unit"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

// Tracking is the mutable delivery sub-record of an order.
type Tracking struct {
	CurrentStatus   string            `json:"currentStatus"`
	LastUpdate      time.Time         `json:"lastUpdate"`
	Driver          *Driver           `json:"driver,omitempty"`
	CurrentLocation *TrackingLocation `json:"currentLocation,omitempty"`
	Timeline        []TimelineEntry   `json:"timeline"`
}

// Driver identifies who is carrying the order once it is in transit.
type Driver struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
}

// TrackingLocation is the courier's last reported position.
type TrackingLocation struct {
	Coordinates types.Coordinates `json:"coordinates"`
	Address     string            `json:"address"`
}

// TimelineEntry is one historical status marker. Exactly one entry carries
// Current at any moment.
type TimelineEntry struct {
	Status    string    `json:"status"`
	Time      time.Time `json:"time"`
	Completed bool      `json:"completed"`
	Current   bool      `json:"current"`
}

// NewOrderItem carries the checkout snapshot of one cart line.
type NewOrderItem struct {
	CropID       uuid.UUID
	CropName     string
	SellerID     uuid.UUID
	SellerName   string
	Quantity     int
	Unit         enums.CropUnit
	PricePerUnit decimal.Decimal
}

// NewOrderParams configures order creation.
type NewOrderParams struct {
	BuyerID          uuid.UUID
	Items            []NewOrderItem
	DeliveryFee      decimal.Decimal
	DeliveryAddress  types.DeliveryLocation
	DeliveryEstimate time.Duration
	Now              time.Time
}

// NewOrder builds a pending order from a cart snapshot. The total is derived
// from the items here so it always equals subtotal plus delivery fee.
func NewOrder(params NewOrderParams) *Order {
	id := uuid.New()
	createdAt := params.Now.UTC()

	items := make([]OrderItem, 0, len(params.Items))
	subtotal := decimal.Zero
	sellerNames := make([]string, 0, 1)
	seenSellers := make(map[uuid.UUID]struct{})
	var firstSeller uuid.UUID

	for _, in := range params.Items {
		lineTotal := in.PricePerUnit.Mul(decimal.NewFromInt(int64(in.Quantity)))
		items = append(items, OrderItem{
			ID:           uuid.New(),
			CropID:       in.CropID,
			CropName:     in.CropName,
			SellerID:     in.SellerID,
			SellerName:   in.SellerName,
			Quantity:     in.Quantity,
			Unit:         in.Unit,
			PricePerUnit: in.PricePerUnit,
			TotalPrice:   lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)

		if _, ok := seenSellers[in.SellerID]; !ok {
			seenSellers[in.SellerID] = struct{}{}
			sellerNames = append(sellerNames, in.SellerName)
			if firstSeller == uuid.Nil {
				firstSeller = in.SellerID
			}
		}
	}

	return &Order{
		ID:                id,
		Reference:         referenceFor(id),
		BuyerID:           params.BuyerID,
		SellerID:          firstSeller,
		SellerName:        strings.Join(sellerNames, ", "),
		Items:             items,
		Status:            enums.OrderStatusPending,
		Subtotal:          subtotal,
		DeliveryFee:       params.DeliveryFee,
		TotalAmount:       subtotal.Add(params.DeliveryFee),
		DeliveryAddress:   params.DeliveryAddress,
		CreatedAt:         createdAt,
		EstimatedDelivery: createdAt.Add(params.DeliveryEstimate),
		Tracking: Tracking{
			CurrentStatus: enums.OrderStatusPending.TimelineLabel(),
			LastUpdate:    createdAt,
			Timeline: []TimelineEntry{{
				Status:    enums.OrderStatusPending.TimelineLabel(),
				Time:      createdAt,
				Completed: true,
				Current:   true,
			}},
		},
	}
}

// referenceFor derives the human-facing ORD-XXXXXXX token from the order id.
// Uniqueness comes from the UUID; the reference is display-only.
func referenceFor(id uuid.UUID) string {
	encoded := strings.ToUpper(hex.EncodeToString(id[:]))
	return "ORD-" + encoded[:7]
}

// Clone deep-copies the order so readers never share tracking state with the
// lifecycle worker.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	out := *o
	out.Items = append([]OrderItem(nil), o.Items...)
	out.Tracking.Timeline = append([]TimelineEntry(nil), o.Tracking.Timeline...)
	if o.Tracking.Driver != nil {
		driver := *o.Tracking.Driver
		out.Tracking.Driver = &driver
	}
	if o.Tracking.CurrentLocation != nil {
		loc := *o.Tracking.CurrentLocation
		out.Tracking.CurrentLocation = &loc
	}
	return &out
}
