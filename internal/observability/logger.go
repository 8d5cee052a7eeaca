package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every log line and reported by /health.
const ServiceName = "wind-dashboard"

// NewLogger builds the process logger from LOG_LEVEL (default info) and
// LOG_FORMAT ("json" by default, "console" for local runs).
func NewLogger() (*zap.Logger, error) {
	return loggerConfig(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")).Build()
}

func loggerConfig(level, format string) zap.Config {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = parseLogLevel(level)
	cfg.InitialFields = map[string]interface{}{"service": ServiceName}
	return cfg
}

// parseLogLevel accepts any zapcore level name, case-insensitive. Unknown or
// empty values fall back to info; levels above error are clamped to error.
func parseLogLevel(s string) zap.AtomicLevel {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	if lvl > zapcore.ErrorLevel {
		lvl = zapcore.ErrorLevel
	}
	return zap.NewAtomicLevelAt(lvl)
}
