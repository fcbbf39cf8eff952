// Package http wires the storefront engines to their HTTP surface.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velora/storefront/pkg/health"
	"github.com/velora/storefront/pkg/middleware"
)

// RouterConfig holds the dependencies for building the HTTP router.
type RouterConfig struct {
	CartHandler     *CartHandler
	WishlistHandler *WishlistHandler
	HealthHandler   *health.Handler
	Logger          *slog.Logger
}

// NewRouter builds the chi router with middleware and all routes.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))

	r.Get("/health", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.CartHandler.GetCart)
			r.Delete("/", cfg.CartHandler.ClearCart)

			r.Post("/items", cfg.CartHandler.AddItem)
			r.Put("/items/{itemId}", cfg.CartHandler.UpdateItemQuantity)
			r.Delete("/items/{itemId}", cfg.CartHandler.RemoveItem)

			r.Post("/coupon", cfg.CartHandler.ApplyCoupon)
			r.Delete("/coupon", cfg.CartHandler.RemoveCoupon)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", cfg.WishlistHandler.GetWishlist)
			r.Delete("/", cfg.WishlistHandler.ClearWishlist)

			r.Post("/items", cfg.WishlistHandler.AddItem)
			r.Post("/items/toggle", cfg.WishlistHandler.ToggleItem)
			r.Get("/items/{itemId}", cfg.WishlistHandler.ContainsItem)
			r.Delete("/items/{itemId}", cfg.WishlistHandler.RemoveItem)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, response{
			Error: &errorResponse{Code: "NOT_FOUND", Message: "route not found"},
		})
	})

	return r
}
