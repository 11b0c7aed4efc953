package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bansalKrishna311/tryo/pkg/health"
	"github.com/bansalKrishna311/tryo/pkg/middleware"
)

// ServiceName labels HTTP metrics and spans.
const ServiceName = "tryo"

// Handlers groups the resource handlers mounted by NewRouter.
type Handlers struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Wishlist *WishlistHandler
	History  *HistoryHandler
	Profile  *ProfileHandler
}

// NewRouter creates a chi router with all tryo routes registered.
func NewRouter(h Handlers, healthHandler *health.Handler, cors middleware.CORSConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cors))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(300))
			r.Get("/catalog", h.Catalog.ListProducts)
			r.Get("/catalog/{productId}", h.Catalog.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.Get("/cart", h.Cart.GetCart)
			r.Delete("/cart", h.Cart.ClearCart)
			r.Post("/cart/items", h.Cart.UpsertItem)
			r.Put("/cart/items/{productId}", h.Cart.SetQuantity)
			r.Delete("/cart/items/{productId}", h.Cart.RemoveItem)

			r.Get("/wishlist", h.Wishlist.GetWishlist)
			r.Delete("/wishlist", h.Wishlist.ClearWishlist)
			r.Post("/wishlist/toggle", h.Wishlist.Toggle)
			r.Delete("/wishlist/items/{productId}", h.Wishlist.RemoveItem)

			r.Get("/try-on/history", h.History.ListHistory)
			r.Post("/try-on/history", h.History.RecordTryOn)

			r.Get("/onboarding", h.Profile.GetOnboarding)
			r.Put("/onboarding", h.Profile.CompleteOnboarding)
			r.Post("/feedback", h.Profile.SubmitFeedback)
		})
	})

	return r
}
