package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agroconnect-tz/agroconnect-backend/api/middleware"
	"github.com/agroconnect-tz/agroconnect-backend/api/responses"
	"github.com/agroconnect-tz/agroconnect-backend/api/validators"
	cartsvc "github.com/agroconnect-tz/agroconnect-backend/internal/cart"
	"github.com/agroconnect-tz/agroconnect-backend/internal/location"
	pkgerrors "github.com/agroconnect-tz/agroconnect-backend/pkg/errors"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/logger"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/types"
)

type addCartItemRequest struct {
	CropID   uuid.UUID `json:"cropId" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type deliveryLocationRequest struct {
	Address         string   `json:"address" validate:"required"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,longitude"`
	UseLiveLocation bool     `json:"useLiveLocation"`
}

// CartFetch returns the buyer's current cart snapshot.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snapshot, err := svc.Get(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CartAddItem adds a crop to the cart or merges into an existing line.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snapshot, err := svc.AddItem(r.Context(), buyerID, payload.CropID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, snapshot)
	}
}

// CartUpdateItem sets a line's quantity; zero or less removes the line.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cropID, err := uuid.Parse(chi.URLParam(r, "cropId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid crop id"))
			return
		}
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snapshot, err := svc.UpdateQuantity(r.Context(), buyerID, cropID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CartRemoveItem removes a line. Removing an absent line still succeeds.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cropID, err := uuid.Parse(chi.URLParam(r, "cropId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid crop id"))
			return
		}
		snapshot, err := svc.RemoveItem(r.Context(), buyerID, cropID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Clear(r.Context(), buyerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

// CartSetDeliveryLocation records where the order should go. Live location
// comes from the resolver; a resolver failure tells the client to fall back
// to the manually entered coordinates.
func CartSetDeliveryLocation(svc cartsvc.Service, resolver location.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload deliveryLocationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loc := types.DeliveryLocation{
			Address:        payload.Address,
			IsLiveLocation: payload.UseLiveLocation,
		}
		if payload.UseLiveLocation {
			if resolver == nil {
				responses.WriteError(r.Context(), logg, w, location.ErrUnavailable)
				return
			}
			coords, err := resolver.CurrentPosition(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			loc.Coordinates = coords
		} else {
			if payload.Latitude == nil || payload.Longitude == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "latitude and longitude are required for a manual address"))
				return
			}
			loc.Coordinates = types.Coordinates{Latitude: *payload.Latitude, Longitude: *payload.Longitude}
		}

		if err := svc.SetDeliveryLocation(r.Context(), buyerID, loc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, loc)
	}
}

func buyerFromContext(r *http.Request) (uuid.UUID, error) {
	buyerID, ok := middleware.BuyerIDFromContext(r.Context())
	if !ok || buyerID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer context missing")
	}
	return buyerID, nil
}
