package catalog

import (
	"time"

	"github.com/agroconnect-tz/agroconnect-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Crop is a sellable unit of produce listed by a farmer.
type Crop struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	Category          enums.CropCategory `json:"category"`
	Unit              enums.CropUnit     `json:"unit"`
	PricePerUnit      decimal.Decimal    `json:"pricePerUnit"`
	QuantityAvailable int                `json:"quantityAvailable"`
	SellerID          uuid.UUID          `json:"sellerId"`
	SellerName        string             `json:"sellerName"`
	Region            string             `json:"region"`
	IsOrganic         bool               `json:"isOrganic"`
	Images            []string           `json:"images,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
}

func (c Crop) clone() Crop {
	out := c
	if c.Images != nil {
		out.Images = append([]string(nil), c.Images...)
	}
	return out
}
