package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/stepwise-bot/internal/storage"
)

func newTestRepository(t *testing.T) *DocumentsRepository {
	t.Helper()

	db, err := Connect(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewDocumentsRepository(db)
}

func TestDocumentsRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), storage.KeySettings)

	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
}

func TestDocumentsRepository_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Put(ctx, "k", []byte(`{"v":1}`)))
	require.NoError(t, repo.Put(ctx, "k", []byte(`{"v":2}`)))

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(got))
}

func TestDocumentsRepository_PutAll(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	require.NoError(t, repo.Put(ctx, storage.KeyProgress, []byte(`{"a":{"completed":true,"timestamp":1}}`)))

	require.NoError(t, repo.PutAll(ctx, map[string][]byte{
		storage.KeySettings: []byte(`{"audioSpeed":1}`),
		storage.KeyProgress: []byte(`{}`),
	}))

	got, err := repo.Get(ctx, storage.KeyProgress)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))

	got, err = repo.Get(ctx, storage.KeySettings)
	require.NoError(t, err)
	assert.Equal(t, `{"audioSpeed":1}`, string(got))
}

func TestDocumentsRepository_BacksDocuments(t *testing.T) {
	ctx := context.Background()
	docs := storage.NewDocuments(newTestRepository(t), zap.NewNop())

	require.NoError(t, docs.Save(ctx, "k", map[string]int{"n": 7}))

	got, err := storage.Load(ctx, docs, "k", func() map[string]int { return nil })
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"n": 7}, got)
}
