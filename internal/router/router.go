package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/view"

	"github.com/rs/zerolog"
)

// Options tunes the optional parts of the router.
type Options struct {
	// Metrics, when non-nil, enables request metrics and the /metrics endpoint.
	Metrics *metrics.Metrics

	RateLimitRPS   float64
	RateLimitBurst int
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	pages *handler.Pages,
	productHandler *handler.ProductHandler,
	opts Options,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}

	mux.Handle("GET /static/", http.StripPrefix("/static/", view.Static(http.HandlerFunc(pages.NotFound))))

	mux.HandleFunc("GET /{$}", pages.Home)
	mux.HandleFunc("GET /products", productHandler.List)
	mux.Handle("POST /products/add",
		middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst, logger)(http.HandlerFunc(productHandler.Add)))
	mux.HandleFunc("GET /api/products", productHandler.APIList)

	// Everything else gets the HTML 404 page.
	mux.HandleFunc("/", pages.NotFound)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> Metrics -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Metrics(opts.Metrics)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger, pages.ServerError)(handler)

	return handler
}
