package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bansalKrishna311/tryo/internal/store/memory"
	"github.com/bansalKrishna311/tryo/pkg/logger"
)

type brokenStore struct{ *memory.Store }

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}

func (brokenStore) Set(context.Context, string, string) error {
	return errors.New("storage unavailable")
}

func TestFlag_MarkSeen(t *testing.T) {
	s := memory.New()
	f := New(s, logger.Nop())
	ctx := context.Background()

	assert.False(t, f.Seen(ctx))
	require.NoError(t, f.MarkSeen(ctx))
	assert.True(t, f.Seen(ctx))

	v, _, _ := s.Get(ctx, Key)
	assert.Equal(t, "true", v)
}

func TestFlag_AnyStoredValueCountsAsSeen(t *testing.T) {
	f := New(memory.NewWithData(map[string]string{Key: "1"}), logger.Nop())
	assert.True(t, f.Seen(context.Background()))
}

func TestFlag_ReadFailureShowsOnboarding(t *testing.T) {
	f := New(brokenStore{memory.New()}, logger.Nop())
	assert.False(t, f.Seen(context.Background()))
	assert.Error(t, f.MarkSeen(context.Background()))
}
