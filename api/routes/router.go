package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockroomlabs/stockroom-backend/api/controllers"
	"github.com/stockroomlabs/stockroom-backend/api/middleware"
	"github.com/stockroomlabs/stockroom-backend/internal/analytics"
	"github.com/stockroomlabs/stockroom-backend/internal/inventory"
	"github.com/stockroomlabs/stockroom-backend/internal/orders"
	"github.com/stockroomlabs/stockroom-backend/internal/products"
	"github.com/stockroomlabs/stockroom-backend/pkg/config"
	"github.com/stockroomlabs/stockroom-backend/pkg/db"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
	"github.com/stockroomlabs/stockroom-backend/pkg/metrics"
	pkgredis "github.com/stockroomlabs/stockroom-backend/pkg/redis"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DBPinger  db.Pinger
	Redis     *pkgredis.Client
	Metrics   *metrics.HTTPMetrics
	Gatherer  http.Handler
	Products  products.Service
	Inventory inventory.Service
	Orders    orders.Service
	Analytics analytics.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, redisPinger(deps.Redis)))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", deps.Gatherer)
	} else {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
		}

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(deps.Products, logg))
			r.Post("/", controllers.CreateCategory(deps.Products, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.Products, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(deps.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(deps.Products, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.ListInventory(deps.Inventory, logg))
			r.Get("/low-stock", controllers.LowStock(deps.Inventory, logg))
			r.Get("/transactions", controllers.ListTransactions(deps.Inventory, logg))
			r.Post("/adjustments", controllers.AdjustInventory(deps.Inventory, logg))
			r.Get("/{productId}", controllers.GetInventoryItem(deps.Inventory, logg))
			r.Put("/{productId}", controllers.SetInventory(deps.Inventory, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Post("/", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
			r.Put("/{orderId}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/revenue", controllers.RevenueAnalytics(deps.Analytics, logg))
			r.Get("/categories", controllers.SalesByCategory(deps.Analytics, logg))
			r.Get("/marketplaces", controllers.MarketplacePerformance(deps.Analytics, logg))
		})
	})

	return r
}

func redisPinger(client *pkgredis.Client) pkgredis.Pinger {
	if client == nil {
		return nil
	}
	return client
}
