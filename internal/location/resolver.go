package location

import (
	"context"

	pkgerrors "github.com/agroconnect-tz/agroconnect-backend/pkg/errors"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/types"
)

// Resolver supplies the buyer's current coordinates. A failed or unsupported
// lookup maps to a dependency error; the client falls back to manual address
// entry.
type Resolver interface {
	CurrentPosition(ctx context.Context) (types.Coordinates, error)
}

// ErrUnavailable is returned when no position source is available.
var ErrUnavailable = pkgerrors.New(pkgerrors.CodeDependency, "location unavailable, enter the delivery address manually")

// StaticResolver reports a fixed point. Used in development where no device
// location capability exists.
type StaticResolver struct {
	Coordinates types.Coordinates
}

func (r StaticResolver) CurrentPosition(_ context.Context) (types.Coordinates, error) {
	if !r.Coordinates.Valid() {
		return types.Coordinates{}, ErrUnavailable
	}
	return r.Coordinates, nil
}

// UnavailableResolver always fails, modeling a device without location
// support.
type UnavailableResolver struct{}

func (UnavailableResolver) CurrentPosition(_ context.Context) (types.Coordinates, error) {
	return types.Coordinates{}, ErrUnavailable
}
