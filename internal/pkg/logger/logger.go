package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	mu   sync.RWMutex
	base = mustDefault()
)

func mustDefault() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// Init replaces the global logger. level is one of debug, info, warn, error.
func Init(level string, development bool) error {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	SetLogger(l)
	return nil
}

// SetLogger is mostly useful in tests (zap.NewNop, zaptest/observer).
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l.Sugar()
}

func Sync() {
	_ = get().Sync()
}

// WithFields returns a ctx whose log lines carry the given key/value pairs.
func WithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	fields, _ := ctx.Value(ctxKey{}).([]interface{})
	merged := make([]interface{}, 0, len(fields)+len(keysAndValues))
	merged = append(merged, fields...)
	merged = append(merged, keysAndValues...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func from(ctx context.Context) *zap.SugaredLogger {
	l := get()
	if ctx == nil {
		return l
	}
	if fields, ok := ctx.Value(ctxKey{}).([]interface{}); ok && len(fields) > 0 {
		return l.With(fields...)
	}
	return l
}

func Debugf(ctx context.Context, template string, args ...interface{}) {
	from(ctx).Debugf(template, args...)
}

func Info(ctx context.Context, args ...interface{}) {
	from(ctx).Info(args...)
}

func Infof(ctx context.Context, template string, args ...interface{}) {
	from(ctx).Infof(template, args...)
}

func Warn(ctx context.Context, args ...interface{}) {
	from(ctx).Warn(args...)
}

func Warnf(ctx context.Context, template string, args ...interface{}) {
	from(ctx).Warnf(template, args...)
}

func Error(ctx context.Context, args ...interface{}) {
	from(ctx).Error(args...)
}

func Errorf(ctx context.Context, template string, args ...interface{}) {
	from(ctx).Errorf(template, args...)
}

func Fatal(ctx context.Context, args ...interface{}) {
	from(ctx).Fatal(args...)
}

func Fatalf(ctx context.Context, template string, args ...interface{}) {
	from(ctx).Fatalf(template, args...)
}
