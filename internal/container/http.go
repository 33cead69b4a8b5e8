package container

import (
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jaevor/go-nanoid"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/events"
	"github.com/serroba/shortlink/internal/handlers"
	"github.com/serroba/shortlink/internal/health"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/middleware"
	"github.com/serroba/shortlink/internal/ratelimit"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

const (
	requestIDLength  = 21
	compressionLevel = 5
	corsMaxAge       = 300
)

// HTTPPackage provides the chi router and the huma API with every route
// registered behind the request log and admission middlewares. The router
// itself answers CORS for any origin and compresses JSON and text bodies.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{
				http.MethodGet, http.MethodHead, http.MethodPost, http.MethodDelete, http.MethodOptions,
			},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{"Location", "Retry-After", middleware.RequestIDHeader},
			MaxAge:         corsMaxAge,
		}))
		router.Use(chimw.Compress(compressionLevel,
			"application/json", "application/problem+json", "text/html", "text/plain",
		))

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		gate, err := do.Invoke[*ratelimit.Gate](i)
		if err != nil {
			return nil, err
		}

		service, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		healthHandler, err := do.Invoke[*health.Handler](i)
		if err != nil {
			return nil, err
		}

		publishCreated, err := do.Invoke[messaging.Publish[events.MappingCreated]](i)
		if err != nil {
			return nil, err
		}

		publishDeleted, err := do.Invoke[messaging.Publish[events.MappingDeleted]](i)
		if err != nil {
			return nil, err
		}

		newRequestID, err := nanoid.Standard(requestIDLength)
		if err != nil {
			return nil, fmt.Errorf("create request id generator: %w", err)
		}

		huma.NewError = handlers.NewError

		api := humachi.New(router, huma.DefaultConfig("URL Shortener", Version))
		api.UseMiddleware(middleware.RequestLog(logger.Named("http"), newRequestID))
		api.UseMiddleware(middleware.Admission(api, gate, opts.RequestTimeout, logger.Named("admission")))

		urlHandler := handlers.NewURLHandler(
			service,
			opts.PublicBaseURL(),
			publishCreated,
			publishDeleted,
			logger.Named("handlers"),
		)

		handlers.RegisterRoutes(api, urlHandler)
		health.RegisterRoutes(api, healthHandler)

		return api, nil
	})
}

// ServerPackages registers everything the HTTP server needs.
func ServerPackages(injector *do.Injector, options *Options) {
	do.ProvideValue(injector, options)
	LoggerPackage(injector)
	RedisPackage(injector)
	PostgresPackage(injector)
	RepositoryPackage(injector)
	RateLimitPackage(injector)
	PublisherGroupPackage(injector)
	HealthPackage(injector)
	HTTPPackage(injector)
}
