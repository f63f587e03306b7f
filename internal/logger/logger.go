// Package logger provides structured logging on zap.
// It builds a JSON logger with service-level context and propagates a
// cycle ID through context.Context.
package logger

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const cycleIDKey ctxKey = "cycle_id"

// Init creates a production JSON logger for the given service at the given
// level name ("debug", "info", "warn", "error").
func Init(service, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.Fields(zap.String("service", service)))
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}

	// Package-level zap.L() and zap.S() share the same output
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// WithCycleID stores a cycle ID in the context for downstream propagation.
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cycleIDKey, id)
}

// CycleID extracts the cycle ID from context. Returns "" if not set.
func CycleID(ctx context.Context) string {
	if v, ok := ctx.Value(cycleIDKey).(string); ok {
		return v
	}
	return ""
}

// NewCycleID returns a random identifier for one refresh cycle.
func NewCycleID() string {
	return uuid.NewString()
}

// Fields returns zap fields carrying the cycle ID from context.
// Usage: log.Info("msg", logger.Fields(ctx)...)
func Fields(ctx context.Context) []zap.Field {
	id := CycleID(ctx)
	if id == "" {
		return nil
	}
	return []zap.Field{zap.String("cycle_id", id)}
}
