package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agroconnect-tz/agroconnect-backend/api/routes"
	cartsvc "github.com/agroconnect-tz/agroconnect-backend/internal/cart"
	"github.com/agroconnect-tz/agroconnect-backend/internal/catalog"
	checkoutsvc "github.com/agroconnect-tz/agroconnect-backend/internal/checkout"
	"github.com/agroconnect-tz/agroconnect-backend/internal/location"
	"github.com/agroconnect-tz/agroconnect-backend/internal/notifications"
	ordersvc "github.com/agroconnect-tz/agroconnect-backend/internal/orders"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/config"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/instance"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/logger"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/metrics"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/types"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cropRepo := catalog.NewRepository()
	if err := catalog.Seed(ctx, cropRepo, time.Now()); err != nil {
		logg.Error(ctx, "failed to seed crop catalog", err)
		os.Exit(1)
	}
	catalogService, err := catalog.NewService(cropRepo)
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(), logg)
	if err != nil {
		logg.Error(ctx, "failed to create notifications service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(catalogService, notificationsService)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	orderStore := ordersvc.NewStore()
	ordersService, err := ordersvc.NewService(orderStore, catalogService, notificationsService)
	if err != nil {
		logg.Error(ctx, "failed to create order service", err)
		os.Exit(1)
	}

	deliveryFee, err := cfg.Cart.DeliveryFeeAmount()
	if err != nil {
		logg.Error(ctx, "invalid delivery fee", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Logger:           logg,
		Cart:             cartService,
		Stock:            catalogService,
		Orders:           orderStore,
		Submitter:        &checkoutsvc.SimulatedSubmitter{Delay: cfg.Checkout.SubmitDelay},
		Notifier:         notificationsService,
		DeliveryFee:      deliveryFee,
		DeliveryEstimate: cfg.Lifecycle.DeliveryEstimate,
		MaxAttempts:      cfg.Checkout.MaxAttempts,
		RetryBackoff:     cfg.Checkout.RetryBackoff,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	lifecycleMetrics := metrics.NewLifecycleMetrics(registry)

	simulator, err := ordersvc.NewSimulator(ordersvc.SimulatorParams{
		Logger:   logg,
		Store:    orderStore,
		Notifier: notificationsService,
		Metrics:  lifecycleMetrics,
		Rules: ordersvc.Rules{
			DispatchAfter: cfg.Lifecycle.DispatchAfter,
			DeliverAfter:  cfg.Lifecycle.DeliverAfter,
		},
		Interval: cfg.Lifecycle.TickInterval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create order lifecycle simulator", err)
		os.Exit(1)
	}
	go simulator.Run(ctx)

	// Dar es Salaam city centre stands in for a device GPS fix.
	resolver := location.StaticResolver{
		Coordinates: types.Coordinates{Latitude: -6.7924, Longitude: 39.2083},
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	lctx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(lctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			Catalog:       catalogService,
			Cart:          cartService,
			Checkout:      checkoutService,
			Orders:        ordersService,
			Notifications: notificationsService,
			Location:      resolver,
			CatalogReady: func() bool {
				crops, err := catalogService.List(context.Background(), catalog.ListParams{})
				return err == nil && len(crops) > 0
			},
			Metrics: registry,
		}),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "error shutting down api server", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(lctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(lctx, "api server stopped")
}
