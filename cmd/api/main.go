package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/promayouf/storefront-backend/api/routes"
	cartstore "github.com/promayouf/storefront-backend/internal/cart"
	"github.com/promayouf/storefront-backend/internal/coupons"
	"github.com/promayouf/storefront-backend/internal/pricing"
	"github.com/promayouf/storefront-backend/internal/products"
	"github.com/promayouf/storefront-backend/internal/recentlyviewed"
	"github.com/promayouf/storefront-backend/pkg/config"
	"github.com/promayouf/storefront-backend/pkg/db"
	"github.com/promayouf/storefront-backend/pkg/logger"
	"github.com/promayouf/storefront-backend/pkg/metrics"
	"github.com/promayouf/storefront-backend/pkg/migrate"
	"github.com/promayouf/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

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

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	cartMetrics := metrics.NewCartMetrics(registry)

	storage, err := cartstore.NewRedisStorage(redisClient, cfg.Cart.SessionTTL, cfg.Cart.DefaultPaymentMethod, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart storage", err)
		os.Exit(1)
	}

	store, err := cartstore.NewStore(storage, pricing.NewEngine(cfg.Pricing), cartMetrics, logg, cfg.Cart.DefaultPaymentMethod)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	productsSvc, err := products.NewService(products.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	couponsSvc, err := coupons.NewService(coupons.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create coupons service", err)
		os.Exit(1)
	}

	recentSvc, err := recentlyviewed.NewService(redisClient, cfg.Cart.RecentlyViewedLimit, cfg.Cart.SessionTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create recently viewed service", err)
		os.Exit(1)
	}

	router, err := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		CartStore:      store,
		Products:       productsSvc,
		Coupons:        couponsSvc,
		RecentlyViewed: recentSvc,
		Registry:       registry,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build router", err)
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
	logg.Info(ctx, "starting storefront api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
