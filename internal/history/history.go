// Package history keeps the bounded try-on log: most recent first, oldest
// evicted once capacity is reached, duplicates allowed.
package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/bansalKrishna311/tryo/internal/codec"
	"github.com/bansalKrishna311/tryo/internal/collection"
	"github.com/bansalKrishna311/tryo/internal/domain"
	"github.com/bansalKrishna311/tryo/internal/store"
	"github.com/bansalKrishna311/tryo/pkg/logger"
)

// Recorded is published after an entry is added.
type Recorded struct {
	Key        string    `json:"key"`
	ProductID  string    `json:"product_id"`
	RecordedAt time.Time `json:"recorded_at"`
	Size       int       `json:"size"`
}

// Publisher receives recorded try-ons.
type Publisher interface {
	PublishTryOnRecorded(ctx context.Context, r Recorded) error
}

// Log is the try-on history. It shares the collection engine, so operations
// on one key are serialized the same way cart mutations are.
type Log struct {
	engine    *collection.Engine[domain.HistoryEntry]
	capacity  int
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewLog creates a history log. A capacity below 1 uses
// domain.DefaultHistoryCapacity. publisher may be nil.
func NewLog(s store.Store, capacity int, publisher Publisher, log *slog.Logger) *Log {
	if capacity < 1 {
		capacity = domain.DefaultHistoryCapacity
	}
	if log == nil {
		log = slog.Default()
	}
	return &Log{
		engine:    collection.NewEngine("history", s, codec.History(capacity), nil, log),
		capacity:  capacity,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// Capacity returns the maximum number of entries kept.
func (l *Log) Capacity() int { return l.capacity }

// Record prepends p and evicts whatever falls past capacity.
func (l *Log) Record(ctx context.Context, key string, p domain.Product) (collection.Result[domain.HistoryEntry], error) {
	entry := domain.HistoryEntry{Product: p, RecordedAt: l.now().UTC()}

	res, err := l.engine.Mutate(ctx, key, collection.Mutation[domain.HistoryEntry]{
		Op:        "record",
		ProductID: p.ID,
		Apply: func(c *domain.History) error {
			items := make([]domain.HistoryEntry, 0, l.capacity)
			items = append(items, entry)
			for _, e := range c.Items {
				if len(items) == l.capacity {
					break
				}
				items = append(items, e)
			}
			c.Items = items
			return nil
		},
	})
	if err != nil || res.Outcome != collection.OutcomeApplied {
		return res, err
	}

	if l.publisher != nil {
		ev := Recorded{Key: key, ProductID: p.ID, RecordedAt: entry.RecordedAt, Size: res.Snapshot.Len()}
		if perr := l.publisher.PublishTryOnRecorded(ctx, ev); perr != nil {
			logger.WithContext(ctx, l.logger).Warn("failed to publish try-on",
				slog.String("product_id", p.ID),
				slog.String("error", perr.Error()),
			)
		}
	}
	return res, nil
}

// List returns the entries most recent first.
func (l *Log) List(ctx context.Context, key string) (domain.History, error) {
	return l.engine.Current(ctx, key)
}

// Load re-reads the log from the store.
func (l *Log) Load(ctx context.Context, key string) (collection.Result[domain.HistoryEntry], error) {
	return l.engine.Load(ctx, key)
}

// Clear empties the log.
func (l *Log) Clear(ctx context.Context, key string) (collection.Result[domain.HistoryEntry], error) {
	return l.engine.Clear(ctx, key)
}
