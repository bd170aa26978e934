package middleware

import (
	"context"
	"net/http"

	"github.com/agroconnect-tz/agroconnect-backend/api/responses"
	pkgerrors "github.com/agroconnect-tz/agroconnect-backend/pkg/errors"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/logger"
	"github.com/google/uuid"
)

// Buyer identity rides on a header. Full authentication is handled by the
// hosting platform in front of this service.
const buyerIDHeader = "X-Buyer-Id"

type buyerIDKey struct{}

// BuyerContext requires a parseable buyer id on every request it guards and
// stores it in the request context.
func BuyerContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(buyerIDHeader)
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity required"))
				return
			}
			buyerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid buyer id"))
				return
			}

			ctx := context.WithValue(r.Context(), buyerIDKey{}, buyerID)
			if logg != nil {
				ctx = logg.WithBuyerID(ctx, buyerID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BuyerIDFromContext returns the buyer id stored by BuyerContext.
func BuyerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(buyerIDKey{}).(uuid.UUID)
	return id, ok
}
