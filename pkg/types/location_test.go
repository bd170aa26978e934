package types

import "testing"

func TestCoordinatesValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		coords Coordinates
		want   bool
	}{
		{name: "dar es salaam", coords: Coordinates{Latitude: -6.7924, Longitude: 39.2083}, want: true},
		{name: "equator origin", coords: Coordinates{}, want: true},
		{name: "latitude overflow", coords: Coordinates{Latitude: 91}, want: false},
		{name: "latitude underflow", coords: Coordinates{Latitude: -91}, want: false},
		{name: "longitude overflow", coords: Coordinates{Longitude: 181}, want: false},
		{name: "longitude underflow", coords: Coordinates{Longitude: -181}, want: false},
	}
	for _, tt := range tests {
		if got := tt.coords.Valid(); got != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestDeliveryLocationValid(t *testing.T) {
	t.Parallel()

	good := DeliveryLocation{
		Address:     "Kariakoo, Dar es Salaam",
		Coordinates: Coordinates{Latitude: -6.8160, Longitude: 39.2803},
	}
	if !good.Valid() {
		t.Fatal("expected valid location")
	}

	if (DeliveryLocation{Address: "   ", Coordinates: good.Coordinates}).Valid() {
		t.Fatal("blank address must be invalid")
	}
	if (DeliveryLocation{Address: "somewhere", Coordinates: Coordinates{Latitude: 120}}).Valid() {
		t.Fatal("out of range coordinates must be invalid")
	}
}
