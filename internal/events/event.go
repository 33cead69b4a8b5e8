// Package events defines the mapping lifecycle events and the handlers that
// consume them.
package events

import (
	"time"

	"github.com/serroba/shortlink/internal/shortener"
)

const (
	TopicMappingCreated = "mapping.created"
	TopicMappingDeleted = "mapping.deleted"
)

// MappingCreated is emitted only when a create request inserts a new mapping.
// CreatedAt is the API clock at insert time; the store keeps its own timestamp.
type MappingCreated struct {
	Code      shortener.Code `json:"code"`
	LongURL   string         `json:"longUrl"`
	CreatedAt time.Time      `json:"createdAt"`
	RequestID string         `json:"requestId,omitempty"`
}

// MappingDeleted is emitted after a mapping is removed from the store.
type MappingDeleted struct {
	Code      shortener.Code `json:"code"`
	DeletedAt time.Time      `json:"deletedAt"`
	RequestID string         `json:"requestId,omitempty"`
}
