package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/serenewealth/ledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if !cfg.BalanceTolerance.Equal(decimal.RequireFromString("0.01")) {
		t.Fatalf("expected default tolerance 0.01, got %s", cfg.BalanceTolerance)
	}

	if cfg.LockTimeout != 5*time.Second || cfg.RedisPoolSize != 10 || !cfg.IdempotencyEnabled {
		t.Fatalf("unexpected defaults: lock_timeout=%s redis_pool=%d idempotency=%v",
			cfg.LockTimeout, cfg.RedisPoolSize, cfg.IdempotencyEnabled)
	}

	if cfg.MigrationsPath != "migrations" {
		t.Fatalf("expected default migrations path, got %s", cfg.MigrationsPath)
	}

	if !cfg.OutboxEnabled || cfg.OutboxBatchSize != 100 || cfg.OutboxInterval != time.Second {
		t.Fatalf("unexpected outbox defaults: enabled=%v batch=%d interval=%s",
			cfg.OutboxEnabled, cfg.OutboxBatchSize, cfg.OutboxInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("BALANCE_TOLERANCE", "0.5")
	t.Setenv("OUTBOX_ENABLED", "false")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if !cfg.BalanceTolerance.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("expected tolerance override, got %s", cfg.BalanceTolerance)
	}

	if cfg.OutboxEnabled {
		t.Fatalf("expected outbox to be disabled")
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

func TestLoadInvalidTolerance(t *testing.T) {
	t.Setenv("BALANCE_TOLERANCE", "a lot")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid tolerance")
	}
}
