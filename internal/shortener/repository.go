package shortener

import (
	"context"
	"time"
)

// MappingStore is the authoritative, durable mapping table.
type MappingStore interface {
	// Create inserts the mapping if its code is absent and is a no-op otherwise.
	// created reports whether a new row was written.
	Create(ctx context.Context, code Code, longURL string) (created bool, err error)

	// Find returns the mapping for code or ErrNotFound.
	Find(ctx context.Context, code Code) (*ShortURL, error)

	// Delete removes the mapping for code or returns ErrNotFound.
	Delete(ctx context.Context, code Code) error

	// List returns every mapping, newest first.
	List(ctx context.Context) ([]ShortURL, error)
}

// FastCache is an ephemeral code -> long URL cache. It is never authoritative.
type FastCache interface {
	// Get returns the cached long URL or ErrCacheMiss.
	Get(ctx context.Context, code Code) (string, error)

	// SetWithTTL stores the long URL for code with a bounded lifetime.
	SetWithTTL(ctx context.Context, code Code, longURL string, ttl time.Duration) error
}
