package server

import (
	"runtime/debug"
	"time"

	"github.com/Brownie44l1/boardgate/internal/response"
	"github.com/Brownie44l1/boardgate/internal/router"
)

// Middleware wraps a handler
type Middleware func(next router.Handler) router.Handler

// LoggingMiddleware logs every dispatched request. Error responses are
// logged at warn level.
func LoggingMiddleware(logger Logger) Middleware {
	return func(next router.Handler) router.Handler {
		return func(ctx *router.Context) {
			start := time.Now()

			next(ctx)

			status := ctx.Response.StatusCode()
			fields := []Field{
				{"method", ctx.Method().String()},
				{"path", ctx.Path()},
				{"family", ctx.Family.String()},
				{"status", int(status)},
				{"duration_ms", time.Since(start).Milliseconds()},
			}
			if status.IsError() {
				logger.Warn("request failed", fields...)
				return
			}
			logger.Info("request handled", fields...)
		}
	}
}

// RecoveryMiddleware turns a handler panic into a 500 so the loop keeps
// serving. Nothing is sent if the handler already responded.
func RecoveryMiddleware(logger Logger) Middleware {
	return func(next router.Handler) router.Handler {
		return func(ctx *router.Context) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						Field{"error", err},
						Field{"stack", string(debug.Stack())},
						Field{"path", ctx.Path()},
					)

					if !ctx.Response.Written() {
						ctx.Status(response.StatusInternalServerError)
					}
				}
			}()

			next(ctx)
		}
	}
}
