package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/iho/settleup/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("HTTP_PORT", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisEnabled() {
		t.Fatalf("expected redis to be disabled by default")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.CacheTTL != 10*time.Minute {
		t.Fatalf("expected default cache TTL 10m, got %s", cfg.CacheTTL)
	}

	if cfg.RateLimitRPS != 50 || cfg.RateLimitBurst != 100 {
		t.Fatalf("unexpected rate limit defaults: rps=%v burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CACHE_TTL", "45s")
	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if !cfg.RedisEnabled() || cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.CacheTTL != 45*time.Second {
		t.Fatalf("expected cache TTL override, got %s", cfg.CacheTTL)
	}

	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected rate limiting disabled, got %v", cfg.RateLimitRPS)
	}

	if cfg.LogFormat != "console" {
		t.Fatalf("expected console log format, got %s", cfg.LogFormat)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
