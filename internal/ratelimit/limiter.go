package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var (
	// ErrQueueFull is returned when the pending-request queue is at capacity.
	ErrQueueFull = errors.New("admission queue full")
	// ErrWaitExceeded is returned when no token can be obtained within the max wait.
	ErrWaitExceeded = errors.New("admission wait exceeded")
)

// Admitter decides whether a request may proceed.
type Admitter interface {
	// Acquire blocks until the request is admitted or returns an error
	// explaining why it was rejected.
	Acquire(ctx context.Context) error
}

// GateConfig configures a Gate.
type GateConfig struct {
	// Rate is the token refill rate per second.
	Rate float64
	// Burst is the bucket capacity.
	Burst int
	// QueueSize bounds the number of requests waiting for a token at once.
	QueueSize int64
	// MaxWait bounds how long a queued request may wait for a token.
	MaxWait time.Duration
}

// Gate is a token bucket with a bounded queue in front of it. Requests that
// find the queue full are rejected at once; queued requests are served in
// reservation order and rejected if their token would arrive after MaxWait.
type Gate struct {
	bucket  *rate.Limiter
	queue   *semaphore.Weighted
	maxWait time.Duration
}

// NewGate creates a new admission gate.
func NewGate(cfg GateConfig) (*Gate, error) {
	if cfg.Rate <= 0 || cfg.Burst <= 0 || cfg.QueueSize <= 0 || cfg.MaxWait <= 0 {
		return nil, fmt.Errorf("invalid gate config: %+v", cfg)
	}

	return &Gate{
		bucket:  rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		queue:   semaphore.NewWeighted(cfg.QueueSize),
		maxWait: cfg.MaxWait,
	}, nil
}

func (g *Gate) Acquire(ctx context.Context) error {
	if !g.queue.TryAcquire(1) {
		return ErrQueueFull
	}
	defer g.queue.Release(1)

	ctx, cancel := context.WithTimeout(ctx, g.maxWait)
	defer cancel()

	// Wait fails fast when the reservation would land past the deadline.
	if err := g.bucket.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrWaitExceeded, err)
	}

	return nil
}

// Compile-time check.
var _ Admitter = (*Gate)(nil)
