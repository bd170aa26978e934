package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agroconnect-tz/agroconnect-backend/api/controllers"
	"github.com/agroconnect-tz/agroconnect-backend/api/middleware"
	cartsvc "github.com/agroconnect-tz/agroconnect-backend/internal/cart"
	"github.com/agroconnect-tz/agroconnect-backend/internal/catalog"
	checkoutsvc "github.com/agroconnect-tz/agroconnect-backend/internal/checkout"
	"github.com/agroconnect-tz/agroconnect-backend/internal/location"
	"github.com/agroconnect-tz/agroconnect-backend/internal/notifications"
	ordersvc "github.com/agroconnect-tz/agroconnect-backend/internal/orders"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/config"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/logger"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	Catalog       catalog.Service
	Cart          cartsvc.Service
	Checkout      checkoutsvc.Service
	Orders        ordersvc.Service
	Notifications notifications.Service
	Location      location.Resolver
	CatalogReady  func() bool
	Metrics       prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	searchPolicy := middleware.NewRateLimitPolicy(
		"crop_search",
		cfg.RateLimit.SearchPerSecond,
		cfg.RateLimit.SearchBurst,
	)
	checkoutPolicy := middleware.NewRateLimitPolicy(
		"checkout",
		cfg.RateLimit.CheckoutPerSecond,
		cfg.RateLimit.CheckoutBurst,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.CatalogReady))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/crops", func(r chi.Router) {
		r.Get("/", controllers.CropList(p.Catalog, logg))
		r.With(middleware.RateLimit(searchPolicy, logg)).Get("/search", controllers.CropSearch(p.Catalog, logg))
		r.Get("/{cropId}", controllers.CropDetail(p.Catalog, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BuyerContext(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(p.Cart, logg))
			r.Delete("/", controllers.CartClear(p.Cart, logg))
			r.Post("/items", controllers.CartAddItem(p.Cart, logg))
			r.Patch("/items/{cropId}", controllers.CartUpdateItem(p.Cart, logg))
			r.Delete("/items/{cropId}", controllers.CartRemoveItem(p.Cart, logg))
			r.Put("/delivery-location", controllers.CartSetDeliveryLocation(p.Cart, p.Location, logg))
		})

		r.With(middleware.RateLimit(checkoutPolicy, logg)).Post("/checkout", controllers.Checkout(p.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(p.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(p.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(p.Orders, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(p.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.NotificationMarkRead(p.Notifications, logg))
			r.Post("/read-all", controllers.NotificationMarkAllRead(p.Notifications, logg))
		})
	})

	r.Route("/api/v1/seller", func(r chi.Router) {
		r.Post("/orders/{orderId}/confirm", controllers.SellerOrderConfirm(p.Orders, logg))
	})

	return r
}
