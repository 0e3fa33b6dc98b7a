package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/serenewealth/ledger/internal/infrastructure/config"
)

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{
		HTTPPort:         "9090",
		HTTPReadTimeout:  5 * time.Second,
		HTTPWriteTimeout: 6 * time.Second,
		HTTPIdleTimeout:  7 * time.Second,
	}
	h := http.NotFoundHandler()

	srv := newHTTPServer(cfg, h)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 6*time.Second, srv.WriteTimeout)
	assert.Equal(t, 7*time.Second, srv.IdleTimeout)
	assert.NotNil(t, srv.Handler)
}

func TestRedisEnabled(t *testing.T) {
	assert.True(t, redisEnabled(&config.Config{IdempotencyEnabled: true, RedisURL: "redis://localhost:6379"}))
	assert.False(t, redisEnabled(&config.Config{IdempotencyEnabled: false, RedisURL: "redis://localhost:6379"}))
	assert.False(t, redisEnabled(&config.Config{IdempotencyEnabled: true}))
}
