package controllers

import (
	"net/http"

	"github.com/agroconnect-tz/agroconnect-backend/api/responses"
	"github.com/agroconnect-tz/agroconnect-backend/internal/checkout"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/logger"
)

// Checkout converts the buyer's cart into an order. The cart is left
// untouched when submission fails, so the buyer can retry.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.ProceedToCheckout(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
