package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verduraria/backend/api/controllers"
	webhookcontrollers "github.com/verduraria/backend/api/controllers/webhooks"
	"github.com/verduraria/backend/api/middleware"
	analyticssvc "github.com/verduraria/backend/internal/analytics"
	authsvc "github.com/verduraria/backend/internal/auth"
	cartsvc "github.com/verduraria/backend/internal/cart"
	"github.com/verduraria/backend/internal/catalog"
	checkoutsvc "github.com/verduraria/backend/internal/checkout"
	couponsvc "github.com/verduraria/backend/internal/coupons"
	financesvc "github.com/verduraria/backend/internal/finance"
	inventorysvc "github.com/verduraria/backend/internal/inventory"
	loyaltysvc "github.com/verduraria/backend/internal/loyalty"
	ordersvc "github.com/verduraria/backend/internal/orders"
	"github.com/verduraria/backend/pkg/config"
	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/logger"
	"github.com/verduraria/backend/pkg/mercadopago"
	pkgredis "github.com/verduraria/backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth      authsvc.Service
	Catalog   catalog.Service
	Cart      cartsvc.Service
	Coupons   couponsvc.Service
	Inventory inventorysvc.Service
	Loyalty   loyaltysvc.Service
	Orders    ordersvc.Service
	Checkout  checkoutsvc.Service
	Finance   financesvc.Service
	Analytics analyticssvc.Service
	Gateway   mercadopago.Gateway
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	services Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// typed nils must not reach the interface parameters
	var idempotencyStore pkgredis.IdempotencyStore
	var redisPinger pkgredis.Pinger
	if redisClient != nil {
		idempotencyStore = redisClient
		redisPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	r.Handle("/metrics", promhttp.Handler())

	// gateway callbacks authenticate by fetching the payment back from the
	// gateway, not by bearer token
	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/mercadopago", webhookcontrollers.MercadoPago(services.Checkout, services.Gateway, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(services.Auth, logg))
		r.Post("/login", controllers.AuthLogin(services.Auth, logg))
		r.Post("/google", controllers.AuthFederatedLogin(services.Auth, authsvc.ProviderGoogle, logg))
		r.Post("/facebook", controllers.AuthFederatedLogin(services.Auth, authsvc.ProviderFacebook, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.AuthMe(services.Auth, logg))
	})

	// storefront surface: anonymous browsing and carts, optional identity
	// for loyalty attribution at checkout
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/info", controllers.StoreInfo())
		r.Get("/promotions", controllers.Promotions(services.Catalog, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(services.Catalog, logg))
			r.Get("/{productId}", controllers.GetProduct(services.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(services.Cart, logg))
			r.Route("/{cartId}", func(r chi.Router) {
				r.Get("/", controllers.GetCart(services.Cart, logg))
				r.Post("/items", controllers.AddCartItem(services.Cart, logg))
				r.Delete("/items/{productId}", controllers.RemoveCartItem(services.Cart, logg))
			})
		})

		// guarded POSTs stay flat so the idempotency rules can match the
		// route pattern verbatim
		r.Get("/checkout/preview", controllers.CheckoutPreview(services.Checkout, logg))
		r.Post("/checkout", controllers.Checkout(services.Checkout, logg))
		r.Post("/checkout/pending", controllers.CheckoutPending(services.Checkout, logg))

		r.Get("/orders/{orderId}", controllers.GetOrder(services.Orders, logg))
	})

	// customer account surface
	r.Route("/api/v1/me", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/orders", controllers.MyOrders(services.Orders, logg))
		r.Get("/loyalty", controllers.MyLoyalty(services.Loyalty, logg))
	})

	// back office: operators read, admins mutate
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireOperator(logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(services.Orders, logg))
				r.Get("/export", controllers.ExportOrdersCSV(services.Orders, logg))
				r.Get("/{orderId}", controllers.GetOrder(services.Orders, logg))
				r.Patch("/{orderId}/status", controllers.UpdateOrderStatus(services.Orders, logg))
			})

			r.Get("/stock/entries", controllers.ListStockEntries(services.Inventory, logg))
			r.Post("/stock/entries", controllers.AddStockEntry(services.Inventory, logg))
			r.Get("/stock/losses", controllers.ListStockLosses(services.Inventory, logg))
			r.Post("/stock/losses", controllers.AddStockLoss(services.Inventory, logg))
			r.Get("/stock/losses/export", controllers.ExportStockLossesCSV(services.Inventory, logg))
			r.Get("/stock/turnover", controllers.StockTurnover(services.Inventory, logg))
			r.Get("/stock/turnover/export", controllers.ExportStockTurnoverCSV(services.Inventory, logg))
			r.Get("/stock/low", controllers.LowStock(services.Inventory, logg))
			r.Get("/stock/low/export", controllers.ExportLowStockCSV(services.Inventory, logg))

			r.Route("/loyalty", func(r chi.Router) {
				r.Get("/", controllers.ListLoyaltyAccounts(services.Loyalty, logg))
				r.Get("/{taxId}", controllers.GetLoyaltyAccount(services.Loyalty, logg))
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/summary", controllers.AnalyticsSummary(services.Analytics, logg))
				r.Get("/overview", controllers.AnalyticsOverview(services.Analytics, logg))
				r.Get("/series", controllers.AnalyticsDailySeries(services.Analytics, logg))
				r.Get("/top-products", controllers.AnalyticsTopProducts(services.Analytics, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.CreateProduct(services.Catalog, logg))
				r.Patch("/{productId}", controllers.UpdateProduct(services.Catalog, logg))
				r.Delete("/{productId}", controllers.DeleteProduct(services.Catalog, logg))
			})

			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", controllers.ListCoupons(services.Coupons, logg))
				r.Post("/", controllers.CreateCoupon(services.Coupons, logg))
				r.Patch("/{code}/active", controllers.SetCouponActive(services.Coupons, logg))
			})

			r.Get("/outflows", controllers.ListOutflows(services.Finance, logg))
			r.Post("/outflows", controllers.CreateOutflow(services.Finance, logg))
			r.Get("/outflows/export", controllers.ExportOutflowsCSV(services.Finance, logg))
			r.Delete("/outflows/{outflowId}", controllers.DeleteOutflow(services.Finance, logg))
		})
	})

	return r
}
