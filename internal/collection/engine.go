// Package collection owns the in-memory snapshots of persisted collections
// and serializes every read-modify-persist cycle per key.
package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bansalKrishna311/tryo/internal/codec"
	"github.com/bansalKrishna311/tryo/internal/domain"
	"github.com/bansalKrishna311/tryo/internal/store"
	apperrors "github.com/bansalKrishna311/tryo/pkg/errors"
	"github.com/bansalKrishna311/tryo/pkg/logger"
	"github.com/bansalKrishna311/tryo/pkg/tracing"
)

const tracerName = "tryo/collection"

// Persisted keys written by the app.
const (
	CartKey     = "cart"
	WishlistKey = "wishlist"
	HistoryKey  = "tryHistory"
)

// slot is the state of one key. lock is a one-token semaphore so waiting
// honours context cancellation. queued counts loads waiting for the lock.
type slot[T domain.Item] struct {
	lock   chan struct{}
	queued atomic.Int32
	loaded bool
	snap   domain.Collection[T]
}

func newSlot[T domain.Item]() *slot[T] {
	return &slot[T]{
		lock: make(chan struct{}, 1),
		snap: domain.NewCollection[T](),
	}
}

func (s *slot[T]) acquire(ctx context.Context) error {
	select {
	case s.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *slot[T]) release() { <-s.lock }

// Mutation is one change applied under the key's lock. Apply edits c in place
// and returns an error wrapping apperrors.ErrInvalidOperation to leave the
// snapshot untouched.
type Mutation[T domain.Item] struct {
	Op        string
	ProductID string
	Apply     func(c *domain.Collection[T]) error
	// Attrs adds fields to the mutation log line. Optional.
	Attrs func(c domain.Collection[T]) []any
}

// Engine holds one authoritative snapshot per key, loaded lazily from the
// store on first access.
type Engine[T domain.Item] struct {
	name      string
	store     store.Store
	codec     codec.Codec[T]
	publisher Publisher
	logger    *slog.Logger

	mu    sync.Mutex
	slots map[string]*slot[T]
}

// NewEngine creates an engine. name labels logs, metrics and events. A nil
// publisher disables change events.
func NewEngine[T domain.Item](name string, s store.Store, c codec.Codec[T], publisher Publisher, log *slog.Logger) *Engine[T] {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine[T]{
		name:      name,
		store:     s,
		codec:     c,
		publisher: publisher,
		logger:    log,
		slots:     make(map[string]*slot[T]),
	}
}

// Name returns the collection name.
func (e *Engine[T]) Name() string { return e.name }

func (e *Engine[T]) slot(key string) *slot[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.slots[key]
	if !ok {
		s = newSlot[T]()
		e.slots[key] = s
	}
	return s
}

// Load re-reads key from the store and installs the result. A load that finds
// another Load of the same key queued behind it discards what it read and
// returns OutcomeSuperseded with apperrors.ErrSuperseded; the queued load
// installs the fresher read. A queued load that gives up waiting does not
// supersede anything. On a storage failure the previous snapshot is kept and
// returned with the error.
func (e *Engine[T]) Load(ctx context.Context, key string) (Result[T], error) {
	ctx, span := e.startSpan(ctx, "load", key)
	res, err := e.load(ctx, key)
	endSpan(span, res.Outcome, err)
	return res, err
}

func (e *Engine[T]) load(ctx context.Context, key string) (Result[T], error) {
	s := e.slot(key)

	s.queued.Add(1)
	err := s.acquire(ctx)
	s.queued.Add(-1)
	if err != nil {
		return Result[T]{Snapshot: domain.NewCollection[T](), Outcome: OutcomeFailed, Reason: err.Error()}, err
	}
	defer s.release()

	if s.queued.Load() > 0 {
		return e.superseded(ctx, key, s), apperrors.Superseded(key)
	}

	c, err := e.read(ctx, key)
	if err != nil {
		loadsTotal.WithLabelValues(e.name, string(OutcomeFailed)).Inc()
		return Result[T]{Snapshot: s.snap.Clone(), Outcome: OutcomeFailed, Reason: err.Error()}, err
	}
	if s.queued.Load() > 0 {
		return e.superseded(ctx, key, s), apperrors.Superseded(key)
	}

	s.snap = c
	s.loaded = true
	loadsTotal.WithLabelValues(e.name, string(OutcomeApplied)).Inc()
	return Result[T]{Snapshot: c.Clone(), Outcome: OutcomeApplied}, nil
}

func (e *Engine[T]) superseded(ctx context.Context, key string, s *slot[T]) Result[T] {
	loadsTotal.WithLabelValues(e.name, string(OutcomeSuperseded)).Inc()
	logger.WithContext(ctx, e.logger).Debug("load superseded by a newer load",
		slog.String("collection", e.name),
		slog.String("key", key),
	)
	return Result[T]{Snapshot: s.snap.Clone(), Outcome: OutcomeSuperseded, Reason: "superseded by a newer load"}
}

// Current returns the snapshot for key, loading it first if this is the first
// access.
func (e *Engine[T]) Current(ctx context.Context, key string) (domain.Collection[T], error) {
	s := e.slot(key)
	if err := s.acquire(ctx); err != nil {
		return domain.NewCollection[T](), err
	}
	defer s.release()

	if err := e.ensureLoaded(ctx, key, s); err != nil {
		return s.snap.Clone(), err
	}
	return s.snap.Clone(), nil
}

// Mutate runs m against a copy of the snapshot and persists the copy before
// installing it. If persisting fails the snapshot is unchanged. The change
// event is published after the key's lock is released.
func (e *Engine[T]) Mutate(ctx context.Context, key string, m Mutation[T]) (Result[T], error) {
	ctx, span := e.startSpan(ctx, m.Op, key)
	res, ev, err := e.mutate(ctx, key, m)
	endSpan(span, res.Outcome, err)
	if ev != nil {
		e.publish(ctx, *ev)
	}
	return res, err
}

func (e *Engine[T]) mutate(ctx context.Context, key string, m Mutation[T]) (Result[T], *ChangeEvent, error) {
	s := e.slot(key)
	if err := s.acquire(ctx); err != nil {
		return Result[T]{Snapshot: domain.NewCollection[T](), Outcome: OutcomeFailed, Reason: err.Error()}, nil, err
	}
	defer s.release()

	log := logger.WithContext(ctx, e.logger).With(
		slog.String("collection", e.name),
		slog.String("key", key),
		slog.String("op", m.Op),
	)
	if m.ProductID != "" {
		log = log.With(slog.String("product_id", m.ProductID))
	}

	if err := e.ensureLoaded(ctx, key, s); err != nil {
		return e.failed(m.Op, s, err), nil, err
	}

	next := s.snap.Clone()
	if err := m.Apply(&next); err != nil {
		if errors.Is(err, apperrors.ErrInvalidOperation) {
			mutationsTotal.WithLabelValues(e.name, m.Op, string(OutcomeNoop)).Inc()
			log.Debug("mutation left collection unchanged", slog.String("reason", err.Error()))
			return Result[T]{Snapshot: s.snap.Clone(), Outcome: OutcomeNoop, Reason: err.Error()}, nil, nil
		}
		return e.failed(m.Op, s, err), nil, err
	}

	if err := e.persist(ctx, key, m.Op, next); err != nil {
		log.Error("mutation not persisted", slog.String("error", err.Error()))
		return e.failed(m.Op, s, err), nil, err
	}
	s.snap = next

	mutationsTotal.WithLabelValues(e.name, m.Op, string(OutcomeApplied)).Inc()
	attrs := []any{slog.Int("size", next.Len())}
	if m.Attrs != nil {
		attrs = append(attrs, m.Attrs(next)...)
	}
	log.Info("collection mutated", attrs...)

	ev := &ChangeEvent{Collection: e.name, Key: key, Op: m.Op, ProductID: m.ProductID, Size: next.Len()}
	return Result[T]{Snapshot: next.Clone(), Outcome: OutcomeApplied}, ev, nil
}

// Remove deletes productID from key. Removing an absent id is a no-op.
func (e *Engine[T]) Remove(ctx context.Context, key, productID string) (Result[T], error) {
	return e.Mutate(ctx, key, Mutation[T]{
		Op:        "remove",
		ProductID: productID,
		Apply: func(c *domain.Collection[T]) error {
			i := c.Index(productID)
			if i < 0 {
				return noop("product %s is not in the %s", productID, e.name)
			}
			c.RemoveAt(i)
			return nil
		},
	})
}

// Clear empties key and removes its stored value. It always reaches the
// store, even when the snapshot is already empty.
func (e *Engine[T]) Clear(ctx context.Context, key string) (Result[T], error) {
	res, err := e.clear(ctx, key)
	if err == nil {
		e.publish(ctx, ChangeEvent{Collection: e.name, Key: key, Op: "clear"})
	}
	return res, err
}

func (e *Engine[T]) clear(ctx context.Context, key string) (Result[T], error) {
	const op = "clear"
	s := e.slot(key)
	if err := s.acquire(ctx); err != nil {
		return Result[T]{Snapshot: domain.NewCollection[T](), Outcome: OutcomeFailed, Reason: err.Error()}, err
	}
	defer s.release()

	if err := e.store.Remove(ctx, key); err != nil {
		err = asStorageFailure(store.OpRemove, key, err)
		logger.WithContext(ctx, e.logger).Error("clear not persisted",
			slog.String("collection", e.name),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return e.failed(op, s, err), err
	}

	s.snap = domain.NewCollection[T]()
	s.loaded = true

	mutationsTotal.WithLabelValues(e.name, op, string(OutcomeApplied)).Inc()
	logger.WithContext(ctx, e.logger).Info("collection cleared",
		slog.String("collection", e.name),
		slog.String("key", key),
	)
	return Result[T]{Snapshot: domain.NewCollection[T](), Outcome: OutcomeApplied}, nil
}

func (e *Engine[T]) failed(op string, s *slot[T], err error) Result[T] {
	mutationsTotal.WithLabelValues(e.name, op, string(OutcomeFailed)).Inc()
	return Result[T]{Snapshot: s.snap.Clone(), Outcome: OutcomeFailed, Reason: err.Error()}
}

// ensureLoaded must be called with the slot lock held.
func (e *Engine[T]) ensureLoaded(ctx context.Context, key string, s *slot[T]) error {
	if s.loaded {
		return nil
	}
	c, err := e.read(ctx, key)
	if err != nil {
		return err
	}
	s.snap = c
	s.loaded = true
	return nil
}

// read fetches and decodes key. A missing key is an empty collection and
// corrupt data is recovered, so the only error is a storage failure.
func (e *Engine[T]) read(ctx context.Context, key string) (domain.Collection[T], error) {
	raw, ok, err := e.store.Get(ctx, key)
	if err != nil {
		return domain.Collection[T]{}, asStorageFailure(store.OpGet, key, err)
	}
	if !ok {
		return domain.NewCollection[T](), nil
	}

	c, rep := e.codec.Decode(raw)
	if rep.Corrupt() {
		corruptRecoveries.WithLabelValues(e.name).Inc()
		logger.WithContext(ctx, e.logger).Warn("recovered corrupt collection",
			slog.String("collection", e.name),
			slog.String("key", key),
			slog.Bool("reset", rep.Reset),
			slog.Int("dropped", rep.Dropped),
			slog.Any("reasons", rep.Reasons),
		)
	}
	if rep.Legacy {
		logger.WithContext(ctx, e.logger).Debug("decoded legacy collection value",
			slog.String("collection", e.name),
			slog.String("key", key),
		)
	}
	return c, nil
}

func (e *Engine[T]) persist(ctx context.Context, key, op string, c domain.Collection[T]) error {
	raw, err := e.codec.Encode(c)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("%s %s: %w", op, key, err))
	}
	if err := e.store.Set(ctx, key, raw); err != nil {
		return asStorageFailure(store.OpSet, key, err)
	}
	return nil
}

func (e *Engine[T]) startSpan(ctx context.Context, op, key string) (context.Context, trace.Span) {
	return tracing.Tracer(tracerName).Start(ctx, "collection."+op,
		trace.WithAttributes(
			attribute.String("tryo.collection", e.name),
			attribute.String("tryo.key", key),
		),
	)
}

func endSpan(span trace.Span, outcome Outcome, err error) {
	span.SetAttributes(attribute.String("tryo.outcome", string(outcome)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (e *Engine[T]) publish(ctx context.Context, ev ChangeEvent) {
	if err := e.publisher.PublishCollectionChanged(ctx, ev); err != nil {
		logger.WithContext(ctx, e.logger).Warn("failed to publish collection change",
			slog.String("collection", ev.Collection),
			slog.String("op", ev.Op),
			slog.String("error", err.Error()),
		)
	}
}

// asStorageFailure keeps errors already classified by store.Resilient and
// wraps anything else from a bare backend.
func asStorageFailure(op, key string, err error) error {
	if errors.Is(err, apperrors.ErrStorageFailure) {
		return err
	}
	return apperrors.StorageFailure(op, key, err)
}
