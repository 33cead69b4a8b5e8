package health

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/ratelimit"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"

	stateHealthy   = "healthy"
	stateUnhealthy = "unhealthy"
	stateDisabled  = "disabled"
)

// Checker defines the interface for checking a backend's reachability.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler reports the service version and the state of its backends.
// A nil checker means the backend is not configured.
type Handler struct {
	version  string
	postgres Checker
	redis    Checker
	timeout  time.Duration
}

// NewHandler creates a new health handler. Each ping is bounded by timeout.
func NewHandler(version string, postgres, redis Checker, timeout time.Duration) *Handler {
	return &Handler{
		version:  version,
		postgres: postgres,
		redis:    redis,
		timeout:  timeout,
	}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status   string `enum:"ok,degraded"               json:"status"`
		Version  string `example:"1.0.0"                  json:"version"`
		Postgres string `enum:"healthy,unhealthy,disabled" json:"postgres"`
		Redis    string `enum:"healthy,unhealthy,disabled" json:"redis"`
	}
}

// Check always answers 200; an unreachable backend only degrades the status.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = StatusOK
	resp.Body.Version = h.version
	resp.Body.Postgres = h.ping(ctx, h.postgres)
	resp.Body.Redis = h.ping(ctx, h.redis)

	if resp.Body.Postgres == stateUnhealthy || resp.Body.Redis == stateUnhealthy {
		resp.Body.Status = StatusDegraded
	}

	return resp, nil
}

func (h *Handler) ping(ctx context.Context, checker Checker) string {
	if checker == nil {
		return stateDisabled
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	if err := checker.Ping(ctx); err != nil {
		return stateUnhealthy
	}

	return stateHealthy
}

// RegisterRoutes registers the health route outside the admission gate.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.Check)
}
