package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", s.Addr()), time.Second)
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url", time.Second)
	if err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close() // close before attempting to connect

	start := time.Now()
	_, err := NewClient(context.Background(), url, 300*time.Millisecond)
	if err == nil {
		t.Fatalf("expected ping error when server is down")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("expected retries to stop near the connect timeout, took %v", elapsed)
	}
}

func TestNewClientCancelledContext(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(ctx, url, time.Minute)
	if err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestCheckerPing(t *testing.T) {
	s := miniredis.RunT(t)

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", s.Addr()), time.Second)
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	checker := NewChecker(client)
	if err := checker.Ping(ctx); err != nil {
		t.Fatalf("expected healthy ping, got %v", err)
	}

	s.Close()
	if err := checker.Ping(ctx); err == nil {
		t.Fatalf("expected ping error after server shutdown")
	}
}
