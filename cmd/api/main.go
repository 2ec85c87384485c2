package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/verduraria/backend/api/routes"
	"github.com/verduraria/backend/internal/analytics"
	"github.com/verduraria/backend/internal/auth"
	"github.com/verduraria/backend/internal/cart"
	"github.com/verduraria/backend/internal/catalog"
	"github.com/verduraria/backend/internal/checkout"
	"github.com/verduraria/backend/internal/coupons"
	"github.com/verduraria/backend/internal/finance"
	"github.com/verduraria/backend/internal/inventory"
	"github.com/verduraria/backend/internal/loyalty"
	"github.com/verduraria/backend/internal/orders"
	"github.com/verduraria/backend/pkg/config"
	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/logger"
	"github.com/verduraria/backend/pkg/mercadopago"
	"github.com/verduraria/backend/pkg/metrics"
	"github.com/verduraria/backend/pkg/migrate"
	pkgredis "github.com/verduraria/backend/pkg/redis"
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

	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	// redis only backs the idempotency layer, so a store without it still
	// boots; guarded endpoints simply skip replay protection
	var redisClient *pkgredis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = pkgredis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured, idempotency replay disabled")
	}

	var gateway mercadopago.Gateway
	if cfg.MercadoPago.AccessToken != "" {
		client, err := mercadopago.NewClient(ctx, cfg.MercadoPago, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap mercado pago client", err)
			os.Exit(1)
		}
		gateway = client
	} else {
		logg.Warn(ctx, "mercado pago not configured, async checkout disabled")
	}

	services, err := buildServices(cfg, logg, dbClient, gateway)
	if err != nil {
		logg.Error(ctx, "failed to build services", err)
		os.Exit(1)
	}

	if err := services.Auth.SeedAdmin(ctx); err != nil {
		logg.Error(ctx, "failed to seed admin account", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, services),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, gateway mercadopago.Gateway) (routes.Services, error) {
	conn := dbClient.DB()

	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn), dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	cartSvc, err := cart.NewService(cart.NewRepository(conn), catalog.NewRepository(conn), dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	couponSvc, err := coupons.NewService(coupons.NewRepository(conn), dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	inventorySvc, err := inventory.NewService(inventory.NewRepository(conn), dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	loyaltySvc, err := loyalty.NewService(loyalty.NewRepository(conn), dbClient, couponSvc)
	if err != nil {
		return routes.Services{}, err
	}
	orderRepo := orders.NewRepository(conn)
	orderSvc, err := orders.NewService(orderRepo, dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	checkoutSvc, err := checkout.NewService(
		cartSvc, couponSvc, inventorySvc, loyaltySvc, orderRepo,
		gateway, cfg.MercadoPago, dbClient, logg,
		metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
	)
	if err != nil {
		return routes.Services{}, err
	}
	financeSvc, err := finance.NewService(finance.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	analyticsSvc, err := analytics.NewService(analytics.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	authSvc, err := auth.NewService(
		auth.NewRepository(conn),
		auth.NewHTTPVerifier(cfg.Federation),
		cfg.JWT, cfg.Password, cfg.Admin, logg,
	)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:      authSvc,
		Catalog:   catalogSvc,
		Cart:      cartSvc,
		Coupons:   couponSvc,
		Inventory: inventorySvc,
		Loyalty:   loyaltySvc,
		Orders:    orderSvc,
		Checkout:  checkoutSvc,
		Finance:   financeSvc,
		Analytics: analyticsSvc,
		Gateway:   gateway,
	}, nil
}
