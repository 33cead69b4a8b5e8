package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/ratelimit"
)

// RateLimitPackage provides the admission gate shared by all gated routes.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.Gate, error) {
		opts := do.MustInvoke[*Options](i)

		return ratelimit.NewGate(ratelimit.GateConfig{
			Rate:      float64(opts.RateLimit),
			Burst:     opts.RateBurst,
			QueueSize: int64(opts.QueueSize),
			MaxWait:   opts.QueueWait,
		})
	})
}
