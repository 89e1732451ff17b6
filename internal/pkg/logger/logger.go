package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. Production-like environments get JSON output,
// everything else the colored console encoder.
func New(env, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var cfg zap.Config
	switch env {
	case "prod", "production", "release":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// Must is New for process bootstrap; it falls back to a no-op logger
// rather than running without one.
func Must(env, level string) *zap.Logger {
	log, err := New(env, level)
	if err != nil {
		return zap.NewNop()
	}
	return log
}
