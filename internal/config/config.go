package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds service configuration loaded from YAML and env.
type Config struct {
	ServerPort string

	RequestTimeout time.Duration

	RateLimitRPS   int
	RateLimitBurst int

	ShutdownTimeout               time.Duration
	ShutdownInFlightTimeout       time.Duration
	ShutdownInFlightCheckInterval time.Duration

	OverloadWindow       time.Duration
	OverloadThresholdPct int

	DashboardTitle  string
	DefaultLocation string

	// ForecastSeed makes forecast noise reproducible when set. Nil means unseeded.
	ForecastSeed *uint64
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`

	Reliability struct {
		RateLimitRPS   int `yaml:"rate_limit_rps"`
		RateLimitBurst int `yaml:"rate_limit_burst"`
	} `yaml:"reliability"`

	Shutdown struct {
		Timeout               string `yaml:"timeout"`
		InFlightTimeout       string `yaml:"in_flight_timeout"`
		InFlightCheckInterval string `yaml:"in_flight_check_interval"`
	} `yaml:"shutdown"`

	Lifecycle struct {
		OverloadWindow       string `yaml:"overload_window"`
		OverloadThresholdPct int    `yaml:"overload_threshold_pct"`
	} `yaml:"lifecycle"`

	Dashboard struct {
		Title           string `yaml:"title"`
		DefaultLocation string `yaml:"default_location"`
	} `yaml:"dashboard"`

	Forecast struct {
		Seed *uint64 `yaml:"seed"`
	} `yaml:"forecast"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev) relative to the
// working directory. SERVER_PORT, DEFAULT_LOCATION and FORECAST_SEED override the file.
func Load() (*Config, error) {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes, applying env overrides and defaults.
func Parse(data []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{}

	cfg.ServerPort = strings.TrimSpace(os.Getenv("SERVER_PORT"))
	if cfg.ServerPort == "" {
		cfg.ServerPort = strings.TrimSpace(fc.Server.Port)
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8050"
	}

	cfg.RequestTimeout = parseDuration(fc.Request.Timeout, 5*time.Second)

	cfg.RateLimitRPS = fc.Reliability.RateLimitRPS
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 50
	}
	cfg.RateLimitBurst = fc.Reliability.RateLimitBurst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 100
	}

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)
	cfg.ShutdownInFlightTimeout = parseDuration(fc.Shutdown.InFlightTimeout, 10*time.Second)
	cfg.ShutdownInFlightCheckInterval = parseDuration(fc.Shutdown.InFlightCheckInterval, 100*time.Millisecond)

	cfg.OverloadWindow = parseDuration(fc.Lifecycle.OverloadWindow, 60*time.Second)
	cfg.OverloadThresholdPct = fc.Lifecycle.OverloadThresholdPct
	if cfg.OverloadThresholdPct <= 0 {
		cfg.OverloadThresholdPct = 80
	}

	cfg.DashboardTitle = strings.TrimSpace(fc.Dashboard.Title)
	if cfg.DashboardTitle == "" {
		cfg.DashboardTitle = "Wind Energy Feasibility Dashboard"
	}
	cfg.DefaultLocation = strings.TrimSpace(os.Getenv("DEFAULT_LOCATION"))
	if cfg.DefaultLocation == "" {
		cfg.DefaultLocation = strings.TrimSpace(fc.Dashboard.DefaultLocation)
	}
	if cfg.DefaultLocation == "" {
		cfg.DefaultLocation = "Chennai"
	}

	cfg.ForecastSeed = fc.Forecast.Seed
	if s := strings.TrimSpace(os.Getenv("FORECAST_SEED")); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("FORECAST_SEED must be an unsigned integer, got %q", s)
		}
		cfg.ForecastSeed = &seed
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// validate performs post-load validation of configuration values.
func validate(cfg *Config) error {
	port, err := strconv.Atoi(cfg.ServerPort)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("server.port must be a TCP port number, got %q", cfg.ServerPort)
	}
	if cfg.OverloadThresholdPct > 100 {
		return fmt.Errorf("lifecycle.overload_threshold_pct must be at most 100, got %d", cfg.OverloadThresholdPct)
	}
	if cfg.RateLimitBurst < cfg.RateLimitRPS {
		cfg.RateLimitBurst = cfg.RateLimitRPS
	}
	return nil
}
