package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New build the zap logger used by every component of the engine.
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "timestamp"

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// NewNop no-op logger for tests.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
