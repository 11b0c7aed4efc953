// Package onboarding remembers whether the intro screens were shown.
package onboarding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bansalKrishna311/tryo/internal/store"
	"github.com/bansalKrishna311/tryo/pkg/logger"
)

// Key is the store key the flag lives under.
const Key = "@viewedOnboarding"

const seenValue = "true"

// Flag reads and writes the onboarding flag.
type Flag struct {
	store  store.Store
	logger *slog.Logger
}

func New(s store.Store, log *slog.Logger) *Flag {
	if log == nil {
		log = slog.Default()
	}
	return &Flag{store: s, logger: log}
}

// Seen reports whether onboarding was completed. Any stored value counts. A
// read failure reports false so onboarding is shown again.
func (f *Flag) Seen(ctx context.Context) bool {
	_, ok, err := f.store.Get(ctx, Key)
	if err != nil {
		logger.WithContext(ctx, f.logger).Warn("could not read onboarding flag, showing onboarding",
			slog.String("error", err.Error()),
		)
		return false
	}
	return ok
}

// MarkSeen records that onboarding was completed.
func (f *Flag) MarkSeen(ctx context.Context) error {
	if err := f.store.Set(ctx, Key, seenValue); err != nil {
		return fmt.Errorf("mark onboarding seen: %w", err)
	}
	logger.WithContext(ctx, f.logger).Info("onboarding completed")
	return nil
}
