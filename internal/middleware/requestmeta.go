package middleware

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// ContextWithRequestID adds a request ID to the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}

	return ""
}

// RequestLog is a middleware that tags each request with an ID (reusing an
// inbound X-Request-ID when present), echoes it in the response and logs the
// outcome once the handler returns.
func RequestLog(logger *zap.Logger, newID func() string) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		id := ctx.Header(RequestIDHeader)
		if id == "" {
			id = newID()
		}

		ctx.SetHeader(RequestIDHeader, id)
		ctx = huma.WithContext(ctx, ContextWithRequestID(ctx.Context(), id))

		next(ctx)

		logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.URL().Path),
			zap.Int("status", ctx.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", clientIP(ctx)),
		)
	}
}
