package usecase

import "time"

const (
	// DefaultCacheTTL is how long simplification results stay cached
	DefaultCacheTTL = 10 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// cacheKeyPrefix namespaces result cache keys by engine revision
	cacheKeyPrefix = "v1:"
)
