package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bansalKrishna311/tryo/pkg/breaker"
	apperrors "github.com/bansalKrishna311/tryo/pkg/errors"
	"github.com/bansalKrishna311/tryo/pkg/logger"
)

// Operation names used in metrics, logs and StorageFailure messages.
const (
	OpGet    = "get"
	OpSet    = "set"
	OpRemove = "remove"
)

// ResilientConfig tunes the resilience layer.
type ResilientConfig struct {
	// Backend labels metrics and logs, e.g. "redis".
	Backend string
	// RetryBackoff is the pause before the single retry.
	RetryBackoff time.Duration
	// OpTimeout bounds each attempt. Zero means no per-attempt deadline.
	OpTimeout time.Duration
}

// DefaultResilientConfig returns the defaults the server starts from before
// applying STORE_RETRY_BACKOFF_MS and STORE_OP_TIMEOUT_MS.
func DefaultResilientConfig(backend string) ResilientConfig {
	return ResilientConfig{
		Backend:      backend,
		RetryBackoff: 50 * time.Millisecond,
		OpTimeout:    2 * time.Second,
	}
}

// Resilient wraps a Store with a circuit breaker and at most one retry per
// operation. Every error it returns is a StorageFailure.
type Resilient struct {
	next    Store
	breaker *breaker.Breaker
	cfg     ResilientConfig
	logger  *slog.Logger
}

var _ Store = (*Resilient)(nil)

// NewResilient wraps next. A nil breaker disables circuit breaking.
func NewResilient(next Store, b *breaker.Breaker, cfg ResilientConfig, log *slog.Logger) *Resilient {
	if log == nil {
		log = slog.Default()
	}
	return &Resilient{next: next, breaker: b, cfg: cfg, logger: log}
}

func (r *Resilient) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := r.do(ctx, OpGet, key, func(ctx context.Context) error {
		var err error
		value, ok, err = r.next.Get(ctx, key)
		return err
	})
	if err != nil {
		return "", false, err
	}
	return value, ok, nil
}

func (r *Resilient) Set(ctx context.Context, key, value string) error {
	return r.do(ctx, OpSet, key, func(ctx context.Context) error {
		return r.next.Set(ctx, key, value)
	})
}

func (r *Resilient) Remove(ctx context.Context, key string) error {
	return r.do(ctx, OpRemove, key, func(ctx context.Context) error {
		return r.next.Remove(ctx, key)
	})
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (r *Resilient) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

func (r *Resilient) do(ctx context.Context, op, key string, fn func(ctx context.Context) error) error {
	start := time.Now()
	defer func() {
		operationDuration.WithLabelValues(r.cfg.Backend, op).Observe(time.Since(start).Seconds())
	}()

	err := r.attempt(ctx, fn)
	if err != nil && r.retryable(ctx, err) {
		retriesTotal.WithLabelValues(r.cfg.Backend, op).Inc()
		logger.WithContext(ctx, r.logger).Warn("store operation failed, retrying",
			slog.String("backend", r.cfg.Backend),
			slog.String("op", op),
			slog.String("key", key),
			slog.Duration("backoff", r.cfg.RetryBackoff),
			slog.String("error", err.Error()),
		)
		if serr := sleep(ctx, r.cfg.RetryBackoff); serr == nil {
			err = r.attempt(ctx, fn)
		}
	}

	if err != nil {
		operationsTotal.WithLabelValues(r.cfg.Backend, op, "error").Inc()
		logger.WithContext(ctx, r.logger).Error("store operation failed",
			slog.String("backend", r.cfg.Backend),
			slog.String("op", op),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return apperrors.StorageFailure(op, key, err)
	}
	operationsTotal.WithLabelValues(r.cfg.Backend, op, "ok").Inc()
	return nil
}

func (r *Resilient) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	run := func(ctx context.Context) error {
		if r.cfg.OpTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.cfg.OpTimeout)
			defer cancel()
		}
		return fn(ctx)
	}
	if r.breaker == nil {
		return run(ctx)
	}
	return r.breaker.Do(ctx, run)
}

// retryable is false once the caller has gone away or the breaker is
// rejecting calls.
func (r *Resilient) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, breaker.ErrOpen)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
