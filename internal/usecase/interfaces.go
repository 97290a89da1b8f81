package usecase

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by ResultCache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// ResultCache stores encoded simplification results.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet claims key if it is free. When the key is already taken it
	// returns true with the stored response, or a nil response while the
	// first request is still in flight.
	CheckAndSet(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error)
	// Update stores the final response for a claimed key.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release frees a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder receives engine measurements.
type MetricsRecorder interface {
	RecordSplit(participants int)
	RecordBalances(participants int)
	RecordSimplification(originalCount, optimizedCount int, savingsPercent float64, duration time.Duration)
	RecordCacheLookup(hit bool)
}
