package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tillpointhq/tillpoint-backend/api/controllers"
	"github.com/tillpointhq/tillpoint-backend/api/middleware"
	"github.com/tillpointhq/tillpoint-backend/internal/cart"
	catalogsvc "github.com/tillpointhq/tillpoint-backend/internal/catalog"
	checkoutsvc "github.com/tillpointhq/tillpoint-backend/internal/checkout"
	"github.com/tillpointhq/tillpoint-backend/internal/lifecycle"
	salessvc "github.com/tillpointhq/tillpoint-backend/internal/sales"
	"github.com/tillpointhq/tillpoint-backend/pkg/config"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	probes map[string]controllers.Pinger,
	cartStore *cart.Store,
	trackers *lifecycle.Registry,
	checkoutService checkoutsvc.Service,
	catalogService catalogsvc.Service,
	salesService salessvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, probes))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RegisterContext(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(cartStore, logg))
			r.Delete("/", controllers.CartClear(cartStore, logg))
			r.Post("/items", controllers.CartAddItem(cartStore, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartStore, logg))
			r.Put("/items/{productId}/quantity", controllers.CartSetQuantity(cartStore, logg))
			r.Post("/items/{productId}/quantity", controllers.CartChangeQuantity(cartStore, logg))
			r.Put("/items/{productId}/price", controllers.CartSetPrice(cartStore, logg))
			r.Put("/paid-amount", controllers.CartSetPaidAmount(cartStore, logg))
			r.Put("/name-override", controllers.CartSetNameOverride(cartStore, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutConfirm(checkoutService, logg))
			r.Get("/last-sale", controllers.CheckoutLastSale(checkoutService, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(catalogService, logg))
			r.Get("/brands", controllers.CatalogBrands(catalogService, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesList(salesService, logg))
			r.Get("/stats", controllers.SalesStats(salesService, logg))
			r.Get("/history", controllers.SalesHistory(salesService, logg))
			r.Get("/{saleId}", controllers.SalesGet(salesService, logg))
		})

		r.Get("/status", controllers.RegisterStatus(trackers, logg))
	})

	return r
}
