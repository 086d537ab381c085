package api

import (
	"net/http"

	"github.com/rs/cors"

	"tableserve/internal/common/logger"
)

// Router wires every endpoint behind CORS and request logging. The
// metrics handler stays outside the JSON envelope.
func Router(h *Handler, metricsHandler http.Handler, allowedOrigins []string, lg *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/restaurant-info", h.RestaurantInfo)
	mux.HandleFunc("GET /api/menu", h.Menu)
	mux.HandleFunc("POST /api/orders", h.PlaceOrder)
	mux.HandleFunc("POST /api/verify-order", h.VerifyOrder)
	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("GET /api/orders/{orderId}", h.GetOrder)
	mux.HandleFunc("PATCH /api/orders/{orderId}", h.UpdateOrderStatus)
	mux.HandleFunc("GET /api/sheets/stats", h.SheetStats)
	mux.HandleFunc("POST /api/notifications/retry", h.RetryNotifications)
	mux.HandleFunc("GET /api/health", h.Health)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "X-Request-Id"},
	})
	return withRequestLog(lg, c.Handler(mux))
}
