package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kjstillabower/wind-dashboard/internal/dataset"
	"github.com/kjstillabower/wind-dashboard/internal/lifecycle"
	"github.com/kjstillabower/wind-dashboard/internal/observability"
	"github.com/kjstillabower/wind-dashboard/internal/traffic"
	"github.com/kjstillabower/wind-dashboard/internal/validation"
	"github.com/kjstillabower/wind-dashboard/internal/view"
)

// HealthConfig holds thresholds for the health handler.
type HealthConfig struct {
	OverloadWindow       time.Duration
	OverloadThresholdPct int
	RateLimitRPS         int // 0 when rate limiter disabled
	ForecastSeeded       bool
}

// DashboardConfig controls the rendered page.
type DashboardConfig struct {
	Title           string
	DefaultLocation dataset.LocationKey
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	view             *view.View
	dashboard        DashboardConfig
	healthConfig     *HealthConfig
	traffic          *traffic.Tracker
	state            *lifecycle.State
	logger           *zap.Logger
	page             *template.Template
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler. The default location must be part of the view's dataset.
func NewHandler(
	v *view.View,
	dashboard DashboardConfig,
	healthConfig *HealthConfig,
	tracker *traffic.Tracker,
	state *lifecycle.State,
	logger *zap.Logger,
) (*Handler, error) {
	def, err := v.ParseLocation(string(dashboard.DefaultLocation))
	if err != nil {
		return nil, err
	}
	dashboard.DefaultLocation = def
	page, err := template.ParseFS(assets, "assets/dashboard.html")
	if err != nil {
		return nil, err
	}
	if tracker == nil {
		tracker = traffic.NewTracker(0)
	}
	if state == nil {
		state = lifecycle.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		view:         v,
		dashboard:    dashboard,
		healthConfig: healthConfig,
		traffic:      tracker,
		state:        state,
		logger:       logger,
		page:         page,
	}, nil
}

type dashboardPage struct {
	Title     string
	Locations []string
	Selected  string
}

// GetDashboard handles GET /. An optional ?location= preselects the dropdown;
// anything not in the dataset falls back to the default.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	selected := h.dashboard.DefaultLocation
	if q := r.URL.Query().Get("location"); q != "" {
		if loc, err := h.view.ParseLocation(q); err == nil {
			selected = loc
		}
	}
	data := dashboardPage{Title: h.dashboard.Title, Selected: string(selected)}
	for _, loc := range h.view.Locations() {
		data.Locations = append(data.Locations, string(loc))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, data); err != nil {
		h.loggerFor(r).Error("render dashboard", zap.Error(err))
	}
}

// GetLocations handles GET /api/locations.
func (h *Handler) GetLocations(w http.ResponseWriter, r *http.Request) {
	locs := h.view.Locations()
	names := make([]string, 0, len(locs))
	for _, loc := range locs {
		names = append(names, string(loc))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"locations": names,
		"default":   string(h.dashboard.DefaultLocation),
	})
}

// GetCharts handles GET /api/charts/{location}: the dropdown selection callback.
func (h *Handler) GetCharts(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerFor(r)
	name, err := validation.ValidateLocation(mux.Vars(r)["location"], validation.DefaultMaxLength)
	if err != nil {
		h.traffic.RecordRejected()
		writeError(w, r, http.StatusBadRequest, "INVALID_LOCATION", err.Error())
		return
	}
	loc, err := h.view.ParseLocation(name)
	if err != nil {
		h.traffic.RecordRejected()
		observability.UnknownLocationTotal.Inc()
		logger.Debug("unknown location", zap.String("location", name))
		writeError(w, r, http.StatusNotFound, "UNKNOWN_LOCATION", err.Error())
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "REQUEST_TIMEOUT", "request deadline exceeded")
		return
	}

	start := time.Now()
	charts, err := h.view.DeriveCharts(loc)
	if err != nil {
		h.traffic.RecordRejected()
		if errors.Is(err, dataset.ErrUnknownLocation) {
			writeError(w, r, http.StatusNotFound, "UNKNOWN_LOCATION", err.Error())
			return
		}
		logger.Error("derive charts", zap.String("location", string(loc)), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "unable to derive charts")
		return
	}
	elapsed := time.Since(start)
	observability.RecordChartDerivation(string(loc), elapsed)
	h.traffic.RecordServed()
	logger.Debug("charts derived", zap.String("location", string(loc)), zap.Duration("duration", elapsed))
	writeJSON(w, http.StatusOK, newChartsResponse(charts))
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := map[string]interface{}{
		"dataset":   "healthy",
		"locations": len(h.view.Locations()),
	}
	if h.healthConfig != nil {
		checks["forecastSeeded"] = h.healthConfig.ForecastSeeded
		if h.healthConfig.OverloadWindow > 0 {
			rejected, total := h.traffic.RejectionRate(h.healthConfig.OverloadWindow)
			checks["requestsInWindow"] = total
			checks["rejectedInWindow"] = rejected
		}
	}
	writeJSON(w, result.statusCode, map[string]interface{}{
		"status":        result.status,
		"service":       observability.ServiceName,
		"version":       "dev",
		"checks":        checks,
		"uptimeSeconds": int64(h.state.Uptime().Seconds()),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// computeHealthStatus evaluates conditions in priority order:
// shutting-down > overloaded > healthy.
func (h *Handler) computeHealthStatus() healthResult {
	if h.state.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if h.healthConfig != nil && h.healthConfig.RateLimitRPS > 0 && h.healthConfig.OverloadWindow > 0 {
		threshold := float64(h.healthConfig.RateLimitRPS) * h.healthConfig.OverloadWindow.Seconds() * float64(h.healthConfig.OverloadThresholdPct) / 100
		if float64(h.traffic.RequestCount(h.healthConfig.OverloadWindow)) > threshold {
			return healthResult{"overloaded", http.StatusServiceUnavailable, "overload_threshold"}
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

// StaticHandler serves the embedded dashboard script under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(assets, "assets/static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code, message,
// and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": CorrelationIDFromContext(r.Context()),
		},
	})
}
