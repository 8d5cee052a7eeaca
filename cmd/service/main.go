package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/wind-dashboard/internal/config"
	"github.com/kjstillabower/wind-dashboard/internal/dataset"
	"github.com/kjstillabower/wind-dashboard/internal/forecast"
	httphandler "github.com/kjstillabower/wind-dashboard/internal/http"
	"github.com/kjstillabower/wind-dashboard/internal/lifecycle"
	"github.com/kjstillabower/wind-dashboard/internal/observability"
	"github.com/kjstillabower/wind-dashboard/internal/traffic"
	"github.com/kjstillabower/wind-dashboard/internal/view"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// A local .env may supply ENV_NAME, SERVER_PORT or FORECAST_SEED; real env wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("dotenv", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	data := dataset.Default()
	noise := forecast.NewSource(cfg.ForecastSeed)
	if cfg.ForecastSeed != nil {
		logger.Info("forecast noise seeded", zap.Uint64("seed", *cfg.ForecastSeed))
	}
	dashboardView := view.New(data, noise)

	tracker := traffic.NewTracker(cfg.OverloadWindow)
	state := lifecycle.New()

	locations := data.Locations()
	names := make([]string, 0, len(locations))
	for _, loc := range locations {
		names = append(names, string(loc))
	}
	observability.SetTrackedLocations(names)
	observability.RegisterWindowGauges(tracker, cfg.OverloadWindow)

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	healthConfig := &httphandler.HealthConfig{
		OverloadWindow:       cfg.OverloadWindow,
		OverloadThresholdPct: cfg.OverloadThresholdPct,
		RateLimitRPS:         cfg.RateLimitRPS,
		ForecastSeeded:       cfg.ForecastSeed != nil,
	}
	dashboard := httphandler.DashboardConfig{
		Title:           cfg.DashboardTitle,
		DefaultLocation: dataset.LocationKey(cfg.DefaultLocation),
	}
	handler, err := httphandler.NewHandler(dashboardView, dashboard, healthConfig, tracker, state, logger)
	if err != nil {
		logger.Fatal("handler", zap.Error(err))
	}

	router := httphandler.NewRouter(handler, logger, limiter, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", ":"+cfg.ServerPort),
			zap.Int("locations", len(names)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	state.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	inFlight := httphandler.InFlightCount()
	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
