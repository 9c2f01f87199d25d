package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend keeps documents in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		docs: make(map[string][]byte),
	}
}

// Get returns a copy of the payload stored under key.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	payload, ok := b.docs[key]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return slices.Clone(payload), nil
}

// Put replaces the payload stored under key.
func (b *MemoryBackend) Put(_ context.Context, key string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.docs[key] = slices.Clone(payload)
	return nil
}

// PutAll replaces several payloads under one lock.
func (b *MemoryBackend) PutAll(_ context.Context, payloads map[string][]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key, payload := range payloads {
		b.docs[key] = slices.Clone(payload)
	}
	return nil
}
