package breaker

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      50 * time.Millisecond, // Short for tests.
		FailureRatio: 0.5,
		MinRequests:  3,
	}
}

var errBackend = errors.New("backend down")

func TestBreaker_ClosedState_Success(t *testing.T) {
	b := New(testConfig("test-closed"), testLogger())

	calls := 0
	err := b.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_PassesThroughBackendError(t *testing.T) {
	b := New(testConfig("test-passthrough"), testLogger())

	err := b.Do(context.Background(), func(ctx context.Context) error { return errBackend })

	assert.ErrorIs(t, err, errBackend)
}

func TestBreaker_TripsOnFailures(t *testing.T) {
	b := New(testConfig("test-trip"), testLogger())

	for i := 0; i < 3; i++ {
		_ = b.Do(context.Background(), func(ctx context.Context) error { return errBackend })
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	calls := 0
	err := b.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.Equal(t, 0, calls, "open breaker must not reach the backend")
}

func TestBreaker_HalfOpenRecovers(t *testing.T) {
	b := New(testConfig("test-recover"), testLogger())

	for i := 0; i < 3; i++ {
		_ = b.Do(context.Background(), func(ctx context.Context) error { return errBackend })
	}
	require.Equal(t, gobreaker.StateOpen, b.State())

	time.Sleep(80 * time.Millisecond)

	err := b.Do(context.Background(), func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_ContextCancellationIsNotAFailure(t *testing.T) {
	b := New(testConfig("test-cancel"), testLogger())

	for i := 0; i < 5; i++ {
		_ = b.Do(context.Background(), func(ctx context.Context) error { return context.Canceled })
	}

	assert.Equal(t, gobreaker.StateClosed, b.State())
}
