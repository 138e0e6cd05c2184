package router

import (
	"net/http"

	"order-desk/internal/handler"
	"order-desk/internal/middleware"
	"order-desk/internal/ratelimit"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// A nil limiter disables rate limiting on order submission. clients decides
// which address a submission is counted against; nil uses the remote host.
func New(
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	limiter *ratelimit.Limiter,
	clients *middleware.ClientResolver,
	allowedOrigins []string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	var submit http.Handler = http.HandlerFunc(orderHandler.Submit)
	if limiter != nil {
		submit = middleware.RateLimit(limiter, clients, logger.With().Str("component", "ratelimit").Logger())(submit)
	}
	mux.Handle("/api/order", submit)

	mux.HandleFunc("/api/products", productHandler.Products)
	mux.HandleFunc("/api/orders/today", orderHandler.Today)
	mux.HandleFunc("/api/orders/history", orderHandler.History)

	// Apply middleware in order: RequestID -> Recovery -> Logging -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(allowedOrigins)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
