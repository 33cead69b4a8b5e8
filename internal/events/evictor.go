package events

import (
	"context"
	"fmt"

	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// Evicter removes a cached mapping.
type Evicter interface {
	Evict(ctx context.Context, code shortener.Code) error
}

// Evictor drops cache entries for deleted mappings so redirects stop serving
// them before their TTL runs out.
type Evictor struct {
	cache  Evicter
	logger *zap.Logger
}

func NewEvictor(cache Evicter, logger *zap.Logger) *Evictor {
	return &Evictor{cache: cache, logger: logger}
}

func (e *Evictor) MappingDeleted(ctx context.Context, event *MappingDeleted) error {
	if event.Code == "" {
		return fmt.Errorf("%w: deleted event without code", messaging.ErrPermanent)
	}

	if err := e.cache.Evict(ctx, event.Code); err != nil {
		return fmt.Errorf("evict %s: %w", event.Code, err)
	}

	e.logger.Debug("evicted cached mapping", zap.String("code", string(event.Code)))

	return nil
}
