// Package logger wraps zap with a context-carried logger. Request handlers and
// jobs attach fields (request ID, submission ID, job ID) once with WithFields and
// every log call further down the chain picks them up from the context.
package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environments understood by New. Anything but production gets the
// development preset.
const (
	DevelopmentEnvironment = "development"
	ProductionEnvironment  = "production"
)

var defaultLogger = zap.NewNop() //nolint: gochecknoglobals

// New builds a zap logger for the given environment: JSON at info level in
// production, human-readable at debug level everywhere else.
func New(environment string) (*zap.Logger, error) {
	if environment == ProductionEnvironment {
		return zap.NewProduction() //nolint: wrapcheck
	}

	return zap.NewDevelopment() //nolint: wrapcheck
}

// Setup replaces the default logger. On failure the previous one is kept.
func Setup(environment string) {
	if l, err := New(environment); err == nil {
		SetDefault(l)
	}
}

// SetDefault makes l the logger used for contexts that carry none.
func SetDefault(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	defaultLogger = l
}

// Sync flushes any buffered entries of the logger carried by ctx.
func Sync(ctx context.Context) {
	_ = Get(ctx).Sync()
}

type key struct{}

// Get returns the logger carried by ctx, or the default logger.
func Get(ctx context.Context) *zap.Logger {
	if l, _ := ctx.Value(key{}).(*zap.Logger); l != nil {
		return l
	}

	return defaultLogger
}

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, key{}, l)
}

// WithFields returns a copy of ctx whose logger adds fields to every entry.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

func Debug(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Debug(msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Error(msg, fields...)
}

// Fatal logs and exits the process.
func Fatal(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Fatal(msg, fields...)
}
