package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/promayouf/storefront-backend/api/controllers"
	cartcontrollers "github.com/promayouf/storefront-backend/api/controllers/cart"
	"github.com/promayouf/storefront-backend/api/middleware"
	cartstore "github.com/promayouf/storefront-backend/internal/cart"
	"github.com/promayouf/storefront-backend/internal/coupons"
	"github.com/promayouf/storefront-backend/internal/products"
	"github.com/promayouf/storefront-backend/internal/recentlyviewed"
	"github.com/promayouf/storefront-backend/pkg/config"
	"github.com/promayouf/storefront-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router needs to wire the handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             pinger
	Redis          pinger
	CartStore      *cartstore.Store
	Products       products.Service
	Coupons        coupons.Service
	RecentlyViewed *recentlyviewed.Service
	Registry       *prometheus.Registry
}

// NewRouter builds the full storefront HTTP surface.
func NewRouter(deps Deps) (http.Handler, error) {
	cartHandlers, err := cartcontrollers.NewControllers(deps.CartStore, deps.Products, deps.Coupons, deps.Logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.DB, deps.Redis, deps.Logger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	session := middleware.CartSession(deps.Logger, deps.Config.Cart.SessionTTL)

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(session)
		r.Get("/", cartHandlers.Get)
		r.Delete("/", cartHandlers.Clear)
		r.Post("/reset", cartHandlers.Reset)
		r.Post("/items", cartHandlers.AddItem)
		r.Delete("/items/{productID}", cartHandlers.RemoveItem)
		r.Patch("/items/{productID}/customization", cartHandlers.UpdateCustomization)
		r.Patch("/items/{productID}/color", cartHandlers.UpdateColor)
		r.Post("/coupon", cartHandlers.ApplyCoupon)
		r.Delete("/coupon", cartHandlers.RemoveCoupon)
		r.Put("/shipping-address", cartHandlers.SaveShippingAddress)
		r.Put("/payment-method", cartHandlers.SavePaymentMethod)
	})

	r.Route("/api/v1/recently-viewed", func(r chi.Router) {
		r.Use(session)
		r.Get("/", controllers.RecentlyViewedList(deps.RecentlyViewed, deps.Logger))
		r.Post("/", controllers.RecentlyViewedRecord(deps.RecentlyViewed, deps.Logger))
		r.Delete("/", controllers.RecentlyViewedClear(deps.RecentlyViewed, deps.Logger))
	})

	return r, nil
}
