package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	cartsvc "github.com/agroconnect-tz/agroconnect-backend/internal/cart"
	"github.com/agroconnect-tz/agroconnect-backend/internal/catalog"
	checkoutsvc "github.com/agroconnect-tz/agroconnect-backend/internal/checkout"
	"github.com/agroconnect-tz/agroconnect-backend/internal/location"
	"github.com/agroconnect-tz/agroconnect-backend/internal/notifications"
	ordersvc "github.com/agroconnect-tz/agroconnect-backend/internal/orders"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/config"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/logger"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "development", Port: "8080", LogLevel: "disabled"},
		RateLimit: config.RateLimitConfig{
			SearchPerSecond:   100,
			SearchBurst:       100,
			CheckoutPerSecond: 100,
			CheckoutBurst:     100,
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("disabled")})

	cropRepo := catalog.NewRepository()
	if err := catalog.Seed(context.Background(), cropRepo, time.Now().UTC()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	catalogService, err := catalog.NewService(cropRepo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	notificationsService, err := notifications.NewService(notifications.NewRepository(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cartService, err := cartsvc.NewService(catalogService, notificationsService)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	orderStore := ordersvc.NewStore()
	ordersService, err := ordersvc.NewService(orderStore, catalogService, notificationsService)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Logger:           logg,
		Cart:             cartService,
		Stock:            catalogService,
		Orders:           orderStore,
		Submitter:        &checkoutsvc.SimulatedSubmitter{Delay: time.Millisecond},
		Notifier:         notificationsService,
		DeliveryFee:      decimal.RequireFromString("2000"),
		DeliveryEstimate: 30 * time.Minute,
		MaxAttempts:      1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return NewRouter(RouterParams{
		Config:        testConfig(),
		Logger:        logg,
		Catalog:       catalogService,
		Cart:          cartService,
		Checkout:      checkoutService,
		Orders:        ordersService,
		Notifications: notificationsService,
		Location: location.StaticResolver{
			Coordinates: types.Coordinates{Latitude: -6.7924, Longitude: 39.2083},
		},
		CatalogReady: func() bool { return true },
		Metrics:      prometheus.NewRegistry(),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, buyerID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if buyerID != uuid.Nil {
		req.Header.Set("X-Buyer-Id", buyerID.String())
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid envelope: %v (%s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("invalid data payload: %v (%s)", err, envelope.Data)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := doJSON(t, router, http.MethodGet, path, uuid.Nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, rec.Code)
		}
	}
}

func TestCropRoutesArePublic(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/crops/", uuid.Nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("crop list returned %d: %s", rec.Code, rec.Body.String())
	}
	var crops []catalog.Crop
	decodeData(t, rec, &crops)
	if len(crops) == 0 {
		t.Fatal("expected seeded crops")
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/crops/search?q=maize", uuid.Nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("crop search returned %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/crops/"+crops[0].ID.String(), uuid.Nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("crop detail returned %d", rec.Code)
	}
}

func TestCartRoutesRequireBuyer(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/cart/", uuid.Nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without buyer header, got %d", rec.Code)
	}
}

func TestCartCheckoutOrderFlow(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	buyerID := uuid.New()

	var crops []catalog.Crop
	rec := doJSON(t, router, http.MethodGet, "/api/v1/crops/", uuid.Nil, nil)
	decodeData(t, rec, &crops)
	crop := crops[0]

	// Checkout with nothing in the cart fails upfront.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/checkout", buyerID, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty cart checkout returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", buyerID, map[string]any{
		"cropId":   crop.ID,
		"quantity": 3,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add item returned %d: %s", rec.Code, rec.Body.String())
	}
	var snapshot cartsvc.Snapshot
	decodeData(t, rec, &snapshot)
	if snapshot.TotalItems != 3 {
		t.Fatalf("expected 3 items in cart, got %d", snapshot.TotalItems)
	}

	// A location is still missing.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/checkout", buyerID, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("checkout without location returned %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/v1/cart/delivery-location", buyerID, map[string]any{
		"address":         "Mbezi Beach, Dar es Salaam",
		"useLiveLocation": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set location returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/checkout", buyerID, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout returned %d: %s", rec.Code, rec.Body.String())
	}
	var order ordersvc.Order
	decodeData(t, rec, &order)
	if order.Reference == "" || order.Status != "pending" {
		t.Fatalf("unexpected order: %+v", order)
	}
	wantTotal := crop.PricePerUnit.Mul(decimal.NewFromInt(3)).Add(decimal.RequireFromString("2000"))
	if !order.TotalAmount.Equal(wantTotal) {
		t.Fatalf("expected total %s, got %s", wantTotal, order.TotalAmount)
	}

	// The cart is cleared after checkout.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/cart/", buyerID, nil)
	decodeData(t, rec, &snapshot)
	if snapshot.TotalItems != 0 {
		t.Fatalf("cart should be empty after checkout, got %d items", snapshot.TotalItems)
	}

	// Catalog availability dropped by the ordered quantity.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/crops/"+crop.ID.String(), uuid.Nil, nil)
	var after catalog.Crop
	decodeData(t, rec, &after)
	if after.QuantityAvailable != crop.QuantityAvailable-3 {
		t.Fatalf("expected availability %d, got %d", crop.QuantityAvailable-3, after.QuantityAvailable)
	}

	// The order shows up in the buyer's list and detail views.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders/", buyerID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("order list returned %d", rec.Code)
	}
	var page ordersvc.ListResult
	decodeData(t, rec, &page)
	if len(page.Items) != 1 || page.Items[0].ID != order.ID {
		t.Fatalf("unexpected order page: %+v", page)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders/"+order.ID.String(), buyerID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("order detail returned %d", rec.Code)
	}

	// Another buyer cannot see it.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders/"+order.ID.String(), uuid.New(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign buyer, got %d", rec.Code)
	}

	// Seller confirmation via the seller surface.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seller/orders/"+order.ID.String()+"/confirm", nil)
	req.Header.Set("X-Seller-Id", order.Items[0].SellerID.String())
	confirmRec := httptest.NewRecorder()
	router.ServeHTTP(confirmRec, req)
	if confirmRec.Code != http.StatusOK {
		t.Fatalf("seller confirm returned %d: %s", confirmRec.Code, confirmRec.Body.String())
	}

	// Cancel while still undelivered.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/orders/"+order.ID.String()+"/cancel", buyerID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel returned %d: %s", rec.Code, rec.Body.String())
	}
	var cancelled ordersvc.Order
	decodeData(t, rec, &cancelled)
	if cancelled.Status != "cancelled" {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	// Notifications accumulated along the way.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/notifications/", buyerID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("notification list returned %d", rec.Code)
	}
	var inbox notifications.ListResult
	decodeData(t, rec, &inbox)
	if len(inbox.Items) == 0 {
		t.Fatal("expected notifications from the flow")
	}
}

func TestCartAddItemValidation(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	buyerID := uuid.New()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", buyerID, map[string]any{
		"cropId":   uuid.New(),
		"quantity": 0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", buyerID, map[string]any{
		"cropId":   uuid.New(),
		"quantity": 2,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown crop, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCartQuantityConflictPayload(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	buyerID := uuid.New()

	var crops []catalog.Crop
	rec := doJSON(t, router, http.MethodGet, "/api/v1/crops/", uuid.Nil, nil)
	decodeData(t, rec, &crops)
	crop := crops[0]

	rec = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", buyerID, map[string]any{
		"cropId":   crop.ID,
		"quantity": crop.QuantityAvailable + 1,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	if envelope.Error.Code != "CONFLICT" {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
	if fmt.Sprint(envelope.Error.Details["available"]) != fmt.Sprint(crop.QuantityAvailable) {
		t.Fatalf("expected availability in details, got %v", envelope.Error.Details)
	}
}
