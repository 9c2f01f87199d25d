package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func defaultRecord() record {
	return record{Name: "default"}
}

type brokenBackend struct{}

var errBroken = errors.New("disk on fire")

func (brokenBackend) Get(context.Context, string) ([]byte, error)    { return nil, errBroken }
func (brokenBackend) Put(context.Context, string, []byte) error       { return errBroken }
func (brokenBackend) PutAll(context.Context, map[string][]byte) error { return errBroken }

func TestLoad_MissingReturnsDefault(t *testing.T) {
	docs := NewDocuments(NewMemoryBackend(), zap.NewNop())

	got, err := Load(context.Background(), docs, "missing", defaultRecord)

	require.NoError(t, err)
	assert.Equal(t, defaultRecord(), got)
}

func TestLoad_CorruptReturnsDefaultAndWarns(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, "k", []byte(`{"name": 42`)))
	docs := NewDocuments(backend, zap.New(core))

	got, err := Load(ctx, docs, "k", defaultRecord)

	require.NoError(t, err)
	assert.Equal(t, defaultRecord(), got)
	assert.Equal(t, 1, logs.FilterMessage("corrupt document, falling back to default").Len())
}

func TestLoad_WrongTypeReturnsDefault(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, "k", []byte(`{"name": 42, "count": 3}`)))
	docs := NewDocuments(backend, zap.NewNop())

	got, err := Load(ctx, docs, "k", defaultRecord)

	require.NoError(t, err)
	assert.Equal(t, defaultRecord(), got)
}

func TestLoad_BackendErrorIsReturned(t *testing.T) {
	docs := NewDocuments(brokenBackend{}, zap.NewNop())

	_, err := Load(context.Background(), docs, "k", defaultRecord)

	assert.ErrorIs(t, err, errBroken)
}

func TestSave_Overwrites(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	docs := NewDocuments(backend, zap.NewNop())

	require.NoError(t, docs.Save(ctx, "k", record{Name: "first", Count: 1}))
	require.NoError(t, docs.Save(ctx, "k", record{Name: "second"}))

	raw, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"second","count":0}`, string(raw))

	got, err := Load(ctx, docs, "k", defaultRecord)
	require.NoError(t, err)
	assert.Equal(t, record{Name: "second"}, got)
}

func TestSaveAll(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	docs := NewDocuments(backend, zap.NewNop())

	require.NoError(t, docs.SaveAll(ctx, map[string]any{
		KeySettings: record{Name: "s"},
		KeyProgress: record{Name: "p"},
	}))

	s, err := Load(ctx, docs, KeySettings, defaultRecord)
	require.NoError(t, err)
	p, err := Load(ctx, docs, KeyProgress, defaultRecord)
	require.NoError(t, err)
	assert.Equal(t, "s", s.Name)
	assert.Equal(t, "p", p.Name)

	assert.ErrorIs(t, NewDocuments(brokenBackend{}, zap.NewNop()).SaveAll(ctx, map[string]any{"k": 1}), errBroken)
}

func TestMemoryBackend_CopiesPayloads(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	payload := []byte(`{"a":1}`)

	require.NoError(t, b.Put(ctx, "k", payload))
	payload[0] = 'X'

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	_, err = b.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
