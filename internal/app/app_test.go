package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bansalKrishna311/tryo/internal/config"
	"github.com/bansalKrishna311/tryo/pkg/logger"
	"github.com/bansalKrishna311/tryo/pkg/tracing"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		Environment:           "test",
		HTTPHost:              "127.0.0.1",
		HTTPPort:              0,
		ShutdownTimeoutSecs:   1,
		StoreBackend:          backend,
		RedisKeyPrefix:        "tryo:",
		CartMaxQuantity:       99,
		TryHistoryCapacity:    5,
		StoreRetryBackoffMS:   1,
		StoreOpTimeoutMS:      500,
		BreakerTimeoutSecs:    1,
		BreakerFailureRatio:   0.5,
		BreakerMinRequests:    5,
		BreakerHalfOpenProbes: 1,
		OTelSampleRate:        1,
	}
}

func TestNewApp_MemoryBackend(t *testing.T) {
	a, err := NewApp(testConfig(config.BackendMemory), logger.Nop())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":"1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"outcome":"applied"`)

	rec = httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, a.Shutdown())
}

func TestNewApp_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(config.BackendRedis)
	cfg.RedisAddr = mr.Addr()

	a, err := NewApp(cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wishlist/toggle", strings.NewReader(`{"product_id":"2"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	raw, err := mr.Get("tryo:wishlist")
	require.NoError(t, err)
	assert.Contains(t, raw, `"id":"2"`)
}

func TestNewApp_RedisUnavailable(t *testing.T) {
	cfg := testConfig(config.BackendRedis)
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := NewApp(cfg, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}

func TestNewApp_FailureShutsDownTracer(t *testing.T) {
	var shutdowns atomic.Int32
	prev := initTracer
	initTracer = func(ctx context.Context, cfg tracing.Config) (func(context.Context) error, error) {
		return func(context.Context) error {
			shutdowns.Add(1)
			return nil
		}, nil
	}
	t.Cleanup(func() { initTracer = prev })

	cfg := testConfig(config.BackendRedis)
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := NewApp(cfg, logger.Nop())
	require.Error(t, err)
	assert.Equal(t, int32(1), shutdowns.Load())
}

func TestShutdown_StopsTracerOnce(t *testing.T) {
	var shutdowns atomic.Int32
	prev := initTracer
	initTracer = func(ctx context.Context, cfg tracing.Config) (func(context.Context) error, error) {
		return func(context.Context) error {
			shutdowns.Add(1)
			return nil
		}, nil
	}
	t.Cleanup(func() { initTracer = prev })

	a, err := NewApp(testConfig(config.BackendMemory), logger.Nop())
	require.NoError(t, err)
	assert.Zero(t, shutdowns.Load())

	require.NoError(t, a.Shutdown())
	require.NoError(t, a.Shutdown())
	assert.Equal(t, int32(1), shutdowns.Load())
}

func TestRun_StopsOnCancel(t *testing.T) {
	a, err := NewApp(testConfig(config.BackendMemory), logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
