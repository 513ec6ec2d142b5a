package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tillpointhq/tillpoint-backend/api/controllers"
	"github.com/tillpointhq/tillpoint-backend/api/routes"
	"github.com/tillpointhq/tillpoint-backend/internal/cart"
	catalogsvc "github.com/tillpointhq/tillpoint-backend/internal/catalog"
	checkoutsvc "github.com/tillpointhq/tillpoint-backend/internal/checkout"
	"github.com/tillpointhq/tillpoint-backend/internal/lifecycle"
	salessvc "github.com/tillpointhq/tillpoint-backend/internal/sales"
	"github.com/tillpointhq/tillpoint-backend/pkg/config"
	"github.com/tillpointhq/tillpoint-backend/pkg/db"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
	"github.com/tillpointhq/tillpoint-backend/pkg/metrics"
	"github.com/tillpointhq/tillpoint-backend/pkg/redis"
	"github.com/tillpointhq/tillpoint-backend/pkg/shopapi"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	shopClient, err := shopapi.NewClient(cfg.ShopAPI)
	if err != nil {
		logg.Error(context.Background(), "failed to build shop api client", err)
		os.Exit(1)
	}

	probes := map[string]controllers.Pinger{
		"database": dbClient,
		"shop_api": shopClient,
	}

	cartStore := cart.NewStore()
	trackers := lifecycle.NewRegistry()

	guard := checkoutsvc.NewMemoryGuard()
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		guard = checkoutsvc.NewRedisGuard(redisClient, cfg.Checkout.InFlightTTL)
		probes["redis"] = redisClient
	}

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	salesRepo, err := salessvc.NewRepo(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to migrate sale history", err)
		os.Exit(1)
	}
	salesService, err := salessvc.NewService(shopClient, salesRepo, trackers, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(cartStore, shopClient, trackers, guard, salesService, checkoutMetrics, logg, cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	catalogService, err := catalogsvc.NewService(shopClient, trackers, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, probes, cartStore, trackers, checkoutService, catalogService, salesService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
