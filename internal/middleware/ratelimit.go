package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/ratelimit"
	"go.uber.org/zap"
)

// Admission returns a Huma middleware that passes each request through the
// admission gate and bounds the admitted request by requestTimeout.
// Endpoints whose metadata disables admission skip the gate.
func Admission(
	api huma.API,
	gate ratelimit.Admitter,
	requestTimeout time.Duration,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if cfg := ratelimit.GetEndpointConfig(ctx); cfg != nil && cfg.Disabled {
			next(ctx)

			return
		}

		if err := gate.Acquire(ctx.Context()); err != nil {
			logger.Warn("request rejected by admission gate",
				zap.String("path", operationPath(ctx)),
				zap.String("method", ctx.Method()),
				zap.String("client_ip", clientIP(ctx)),
				zap.Error(err),
			)

			ctx.SetHeader("Retry-After", "1")
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "too many requests")

			return
		}

		if requestTimeout <= 0 {
			next(ctx)

			return
		}

		timeoutCtx, cancel := context.WithTimeout(ctx.Context(), requestTimeout)
		defer cancel()

		next(huma.WithContext(ctx, timeoutCtx))
	}
}

// operationPath extracts the route template from the operation, if available.
func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ctx.URL().Path
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	// Check X-Forwarded-For header (may contain multiple IPs)
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		// Take the first IP (original client)
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()

	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return ip
}
