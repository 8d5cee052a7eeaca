package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/wind-dashboard/internal/dataset"
	"github.com/kjstillabower/wind-dashboard/internal/forecast"
	"github.com/kjstillabower/wind-dashboard/internal/lifecycle"
	"github.com/kjstillabower/wind-dashboard/internal/observability"
	"github.com/kjstillabower/wind-dashboard/internal/traffic"
	"github.com/kjstillabower/wind-dashboard/internal/view"
)

func newTestServer(t *testing.T, noise forecast.Source, limiter *rate.Limiter) *httptest.Server {
	t.Helper()
	v := view.New(dataset.Default(), noise)
	h, err := NewHandler(v, DashboardConfig{Title: "Wind Energy Feasibility Dashboard", DefaultLocation: dataset.Chennai},
		&HealthConfig{OverloadWindow: time.Minute, OverloadThresholdPct: 80, RateLimitRPS: 100},
		traffic.NewTracker(0), lifecycle.New(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	srv := httptest.NewServer(NewRouter(h, zap.NewNop(), limiter, 2*time.Second))
	t.Cleanup(srv.Close)
	return srv
}

func getCharts(t *testing.T, srv *httptest.Server, location string) ChartsResponse {
	t.Helper()
	resp, err := http.Get(srv.URL + "/api/charts/" + location)
	if err != nil {
		t.Fatalf("GET charts: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET charts status = %d, want 200", resp.StatusCode)
	}
	var out ChartsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode charts: %v", err)
	}
	return out
}

func TestRouter_EndToEnd_PageScriptAndCharts(t *testing.T) {
	srv := newTestServer(t, forecast.Zero, nil)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(page), "location-dropdown") {
		t.Fatalf("GET / status = %d, page missing dropdown", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/static/dashboard.js")
	if err != nil {
		t.Fatalf("GET script: %v", err)
	}
	script, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(script), "/api/charts/") {
		t.Fatalf("GET /static/dashboard.js status = %d", resp.StatusCode)
	}

	charts := getCharts(t, srv, "Chennai")
	if len(charts.Charts.Historical.Y) != 12 || len(charts.Charts.Forecast.Y) != 6 || len(charts.Charts.PowerCurve.Y) != 25 {
		t.Errorf("series lengths = %d/%d/%d, want 12/6/25",
			len(charts.Charts.Historical.Y), len(charts.Charts.Forecast.Y), len(charts.Charts.PowerCurve.Y))
	}
	if resp.Header.Get("X-Correlation-ID") == "" {
		t.Error("X-Correlation-ID missing from response")
	}
}

func TestRouter_LocationWithSpaceIsUnknown(t *testing.T) {
	srv := newTestServer(t, forecast.Zero, nil)

	resp, err := http.Get(srv.URL + "/api/charts/New%20Delhi")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRouter_UnseededForecastVariesBetweenSelections(t *testing.T) {
	srv := newTestServer(t, forecast.NewSource(nil), nil)

	a := getCharts(t, srv, "Hyderabad")
	b := getCharts(t, srv, "Hyderabad")

	same := true
	for i := range a.Charts.Forecast.Y {
		if a.Charts.Forecast.Y[i] != b.Charts.Forecast.Y[i] {
			same = false
		}
	}
	if same {
		t.Error("repeated selections produced identical noisy forecasts")
	}
	for i := range a.Charts.Historical.Y {
		if a.Charts.Historical.Y[i] != b.Charts.Historical.Y[i] {
			t.Fatalf("historical[%d] changed between selections", i)
		}
	}
}

func TestRouter_RateLimitAppliesToAPIOnly(t *testing.T) {
	srv := newTestServer(t, forecast.Zero, rate.NewLimiter(rate.Limit(0.001), 1))

	first, err := http.Get(srv.URL + "/api/locations")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	first.Body.Close()
	second, err := http.Get(srv.URL + "/api/locations")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	second.Body.Close()
	if first.StatusCode != http.StatusOK || second.StatusCode != http.StatusTooManyRequests {
		t.Errorf("statuses = %d, %d; want 200, 429", first.StatusCode, second.StatusCode)
	}

	health, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("/health status = %d, want 200 (not rate limited)", health.StatusCode)
	}
}

func TestRouter_MetricsExposed(t *testing.T) {
	observability.SetTrackedLocations([]string{"Jaipur"})
	defer observability.SetTrackedLocations(nil)
	srv := newTestServer(t, forecast.Zero, nil)
	getCharts(t, srv, "Jaipur")

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `chartDerivationsTotal{location="jaipur"}`) {
		t.Error("/metrics missing chartDerivationsTotal for jaipur")
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, forecast.Zero, nil)

	resp, err := http.Post(srv.URL+"/api/charts/Chennai", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", resp.StatusCode)
	}
}
