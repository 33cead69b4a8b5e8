package shortener

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for a malformed long URL or short code.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a well-formed code has no mapping.
	ErrNotFound = errors.New("url not found")
	// ErrStoreUnavailable is returned when the authoritative store fails or times out.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrCacheUnavailable is returned by cache lookups that fail for a reason other than a miss.
	ErrCacheUnavailable = errors.New("cache unavailable")
	// ErrCacheMiss is returned by FastCache implementations when the key is absent.
	ErrCacheMiss = errors.New("cache miss")
	// ErrInvalidTTL is returned by FastCache writes whose ttl would never expire.
	ErrInvalidTTL = errors.New("cache ttl must be positive")
)

// storeError translates an adapter error into the service taxonomy.
// Driver errors are flattened into the message so callers can only match sentinels.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s timed out", ErrStoreUnavailable, op)
	default:
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
	}
}

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
