package http

import (
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/wind-dashboard/internal/observability"
)

// NewRouter wires the dashboard, API, health and metrics routes. The limiter and
// request timeout apply to /api only; a nil limiter disables rate limiting.
func NewRouter(h *Handler, logger *zap.Logger, limiter *rate.Limiter, requestTimeout time.Duration) *mux.Router {
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)
	router.HandleFunc("/", h.GetDashboard).Methods("GET")
	router.PathPrefix("/static/").Handler(StaticHandler()).Methods("GET")
	router.HandleFunc("/health", h.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())

	api := router.PathPrefix("/api").Subrouter()
	api.Use(RateLimitMiddleware(limiter, h.traffic))
	api.Use(TimeoutMiddleware(requestTimeout))
	api.HandleFunc("/locations", h.GetLocations).Methods("GET")
	api.HandleFunc("/charts/{location}", h.GetCharts).Methods("GET")
	return router
}
