package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const (
	pingInitialInterval = 100 * time.Millisecond
	pingMaxInterval     = 2 * time.Second
)

// NewClient creates a new Redis client, retrying the initial ping with
// exponential backoff until connectTimeout elapses.
func NewClient(ctx context.Context, redisURL string, connectTimeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = pingInitialInterval
	b.MaxInterval = pingMaxInterval
	b.MaxElapsedTime = connectTimeout

	err = backoff.Retry(func() error {
		return client.Ping(ctx).Err()
	}, backoff.WithContext(b, ctx))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// Checker adapts a client to the health handler's Ping(ctx) error contract.
type Checker struct {
	client *redis.Client
}

// NewChecker creates a new Checker.
func NewChecker(client *redis.Client) *Checker {
	return &Checker{client: client}
}

// Ping pings the server.
func (c *Checker) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
