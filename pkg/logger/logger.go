// Package logger provides the structured, levelled logger for shoplist,
// built on log/slog.
//
// Handlers are chosen from APP_ENV: a human-readable text handler for local
// development, JSON for production. An optional MongoDB sink can be fanned
// in at boot with EnableMongoSink (see mongo_handler.go).
//
// WithCtx returns a logger pre-tagged with the request ID injected by the
// request middleware, so every log line from a handler is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "uid", p.UID)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/shoplist/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

func baseHandler() slog.Handler {
	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// EnableMongoSink fans log records out to MongoDB in addition to stdout.
// Returns the handler so the caller can Close() it on shutdown.
// A connection failure leaves the stdout logger untouched.
func EnableMongoSink(uri, db string) (*MongoHandler, error) {
	mh, err := NewMongoHandler(uri, db, "logs")
	if err != nil {
		return nil, err
	}

	L = slog.New(NewMultiHandler(baseHandler(), mh))
	slog.SetDefault(L)
	return mh, nil
}

// ctxKey stores a per-request *slog.Logger in a context.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx by the request
// logging middleware, or the base logger if none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// Inject stores a pre-tagged *slog.Logger into ctx. Called by the request
// logging middleware; application code rarely needs it.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level on the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level on the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level on the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level on the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
