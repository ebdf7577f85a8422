package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

// NewRouter wires every storefront route onto a chi router wrapped with
// OpenTelemetry instrumentation.
func NewRouter(s StateStore, c Checkouter, logger *zap.Logger, cfg RouterConfig) http.Handler {
	cartHandler := NewCartHandler(s, logger)
	catalogHandler := NewCatalogHandler(s, logger)
	stateHandler := NewStateHandler(s, logger)
	rs := newResponder(logger)
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	checkoutHandler := NewCheckoutHandler(c, cfg.RequestTimeout, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))
	}
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		rs.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", stateHandler.GetState)
		r.Put("/view", stateHandler.SetView)
		r.Post("/favorites/{artwork_id}/toggle", stateHandler.ToggleFavorite)

		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/artworks", catalogHandler.ListArtworks)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Checkout)
	})

	return otelhttp.NewHandler(r, "storefront")
}
