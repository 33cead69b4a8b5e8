package shortener

import "time"

// Code represents a short URL code.
type Code string

// ShortURL is the durable mapping from a short code to its long URL.
// A mapping is only ever created or deleted, never updated.
type ShortURL struct {
	Code      Code
	LongURL   string
	CreatedAt time.Time // assigned by the store at insert time
}
