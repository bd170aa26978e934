package types

import "strings"

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point lies inside the WGS84 bounds.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// DeliveryLocation is where a buyer wants an order delivered. It is
// transient cart state: checkout consumes it and resets it.
type DeliveryLocation struct {
	Address        string      `json:"address"`
	Coordinates    Coordinates `json:"coordinates"`
	IsLiveLocation bool        `json:"isLiveLocation"`
}

// Valid reports whether the location can back a checkout.
func (d DeliveryLocation) Valid() bool {
	return strings.TrimSpace(d.Address) != "" && d.Coordinates.Valid()
}
