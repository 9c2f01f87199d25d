package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/stepwise-bot/internal/storage"
)

func newProgressService(t *testing.T, backend storage.Backend) *ProgressService {
	t.Helper()
	s, err := NewProgressService(context.Background(), newTestDocuments(backend), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestProgressService_MarkComplete(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	s := newProgressService(t, backend)

	assert.False(t, s.IsComplete("1-1"))

	require.NoError(t, s.MarkComplete(ctx, "1-1"))
	assert.True(t, s.IsComplete("1-1"))
	assert.False(t, s.IsComplete("1-2"))

	reloaded := newProgressService(t, backend)
	assert.True(t, reloaded.IsComplete("1-1"))
}

func TestProgressService_MarkCompleteRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	s := newProgressService(t, storage.NewMemoryBackend())

	now := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return now }
	require.NoError(t, s.MarkComplete(ctx, "1-1"))

	now = now.Add(time.Hour)
	require.NoError(t, s.MarkComplete(ctx, "1-1"))

	r, ok := s.Record("1-1")
	require.True(t, ok)
	assert.True(t, r.Completed)
	assert.True(t, r.Timestamp.Equal(now))
	assert.Len(t, s.progress, 1)
}

func TestProgressService_StoredTimestampIsMillis(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	s := newProgressService(t, backend)
	s.now = func() time.Time { return time.UnixMilli(1_700_000_000_123) }

	require.NoError(t, s.MarkComplete(ctx, "1-1"))

	raw, err := backend.Get(ctx, storage.KeyProgress)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1-1":{"completed":true,"timestamp":1700000000123}}`, string(raw))
}

func TestProgressService_FailedSaveRollsBack(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{MemoryBackend: storage.NewMemoryBackend()}
	s := newProgressService(t, backend)

	backend.fail = true
	err := s.MarkComplete(ctx, "1-1")

	assert.ErrorIs(t, err, errBackendDown)
	assert.False(t, s.IsComplete("1-1"))
	_, ok := s.Record("1-1")
	assert.False(t, ok)
}

func TestProgressService_CorruptDocumentFallsBack(t *testing.T) {
	for _, payload := range []string{`[1,2,3]`, `{"1-1":`, `null`} {
		ctx := context.Background()
		backend := storage.NewMemoryBackend()
		require.NoError(t, backend.Put(ctx, storage.KeyProgress, []byte(payload)))

		s := newProgressService(t, backend)

		assert.False(t, s.IsComplete("1-1"), payload)
		require.NoError(t, s.MarkComplete(ctx, "1-2"), payload)
	}
}

func TestProgressService_SummaryAndFirstIncomplete(t *testing.T) {
	ctx := context.Background()
	refs := newTestContent(t).Sections()
	s := newProgressService(t, storage.NewMemoryBackend())

	next, ok := s.FirstIncomplete(refs)
	require.True(t, ok)
	assert.Equal(t, "1-1", next.Section.ID)

	require.NoError(t, s.MarkComplete(ctx, "1-1"))

	summary := s.Summary(refs)
	assert.Equal(t, ProgressSummary{Completed: 1, Total: 2, Percentage: 50}, summary)

	next, ok = s.FirstIncomplete(refs)
	require.True(t, ok)
	assert.Equal(t, "1-2", next.Section.ID)

	require.NoError(t, s.MarkComplete(ctx, "1-2"))
	_, ok = s.FirstIncomplete(refs)
	assert.False(t, ok)
}
