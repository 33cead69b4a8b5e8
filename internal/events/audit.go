package events

import (
	"context"

	"go.uber.org/zap"
)

// Audit writes every lifecycle event to the log.
type Audit struct {
	logger *zap.Logger
}

func NewAudit(logger *zap.Logger) *Audit {
	return &Audit{logger: logger}
}

func (a *Audit) MappingCreated(_ context.Context, event *MappingCreated) error {
	a.logger.Info("mapping created",
		zap.String("code", string(event.Code)),
		zap.String("long_url", event.LongURL),
		zap.Time("created_at", event.CreatedAt),
		zap.String("request_id", event.RequestID),
	)

	return nil
}

func (a *Audit) MappingDeleted(_ context.Context, event *MappingDeleted) error {
	a.logger.Info("mapping deleted",
		zap.String("code", string(event.Code)),
		zap.Time("deleted_at", event.DeletedAt),
		zap.String("request_id", event.RequestID),
	)

	return nil
}
