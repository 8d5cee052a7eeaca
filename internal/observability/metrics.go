package observability

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p99 increases on /api/charts.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation.
	HTTPRequestsInFlight prometheus.Gauge

	// Chart derivations per location (allow-list; others go to "other").
	ChartDerivationsTotal *prometheus.CounterVec

	// Derivation latency. Should stay in the microsecond range; anything else is a regression.
	ChartDerivationDuration prometheus.Histogram

	// Requests naming a location outside the dataset.
	UnknownLocationTotal prometheus.Counter

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter

	// trackedLocations is set from the dataset; used to bound location label cardinality.
	trackedLocationsMu sync.RWMutex
	trackedLocations   map[string]string

	windowGaugesOnce sync.Once
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	ChartDerivationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartDerivationsTotal",
			Help: "Chart sets derived, by location (allow-list; others use location=other)",
		},
		[]string{"location"},
	)
	ChartDerivationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chartDerivationDurationSeconds",
			Help:    "Time to derive historical, forecast and power-curve series",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
	)
	UnknownLocationTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unknownLocationTotal",
			Help: "Chart requests rejected because the location is not in the dataset",
		},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		ChartDerivationsTotal, ChartDerivationDuration,
		UnknownLocationTotal, RateLimitDeniedTotal,
	)
}

// WindowCounter is the subset of traffic.Tracker the window gauges read.
type WindowCounter interface {
	RequestCount(window time.Duration) int
	DenialCount(window time.Duration) int
}

// RegisterWindowGauges registers request and reject gauges over the sliding window.
// Only the first call registers; later calls are no-ops.
func RegisterWindowGauges(counter WindowCounter, window time.Duration) {
	windowGaugesOnce.Do(func() {
		registry.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "apiRequestsInWindow",
					Help: "Chart API requests in the overload window; load/capacity planning",
				},
				func() float64 { return float64(counter.RequestCount(window)) },
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "apiRejectsInWindow",
					Help: "429 responses in the overload window",
				},
				func() float64 { return float64(counter.DenialCount(window)) },
			),
		)
	})
}

// SetTrackedLocations sets the allow-list for location labels. Untracked locations record as "other".
func SetTrackedLocations(locations []string) {
	trackedLocationsMu.Lock()
	defer trackedLocationsMu.Unlock()
	trackedLocations = make(map[string]string, len(locations))
	for _, loc := range locations {
		trackedLocations[normalizeLocationForMetrics(loc)] = loc
	}
}

// RecordChartDerivation records one derivation for location and how long it took.
func RecordChartDerivation(location string, d time.Duration) {
	ChartDerivationsTotal.WithLabelValues(MetricLocationLabel(location)).Inc()
	ChartDerivationDuration.Observe(d.Seconds())
}

// MetricLocationLabel returns the label value for location: the lowercased name if
// tracked, otherwise "other".
func MetricLocationLabel(location string) string {
	loc := normalizeLocationForMetrics(location)
	trackedLocationsMu.RLock()
	_, ok := trackedLocations[loc] // nil map read is safe in Go
	trackedLocationsMu.RUnlock()
	if ok {
		return loc
	}
	return "other"
}

func normalizeLocationForMetrics(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
