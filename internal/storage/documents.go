package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Fixed keys of the two persisted documents.
const (
	KeySettings = "app-settings"
	KeyProgress = "app-progress"
)

var ErrDocumentNotFound = errors.New("document not found")

// Backend is a durable key-value store of raw document payloads.
type Backend interface {
	// Get returns ErrDocumentNotFound when key has never been saved.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put overwrites the payload stored under key.
	Put(ctx context.Context, key string, payload []byte) error
	// PutAll overwrites several keys atomically.
	PutAll(ctx context.Context, payloads map[string][]byte) error
}

// Documents serializes records to JSON on top of a Backend.
type Documents struct {
	backend Backend
	logger  *zap.Logger
}

// NewDocuments creates a documents store on the given backend.
func NewDocuments(backend Backend, logger *zap.Logger) *Documents {
	return &Documents{backend: backend, logger: logger}
}

// Load reads the document stored under key on top of def().
// A missing or unparseable payload yields def() and no error; only backend
// failures are returned.
func Load[T any](ctx context.Context, d *Documents, key string, def func() T) (T, error) {
	raw, err := d.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return def(), nil
		}
		var zero T
		return zero, fmt.Errorf("load %s: %w", key, err)
	}

	v := def()
	if err := json.Unmarshal(raw, &v); err != nil {
		d.logger.Warn("corrupt document, falling back to default",
			zap.String("key", key),
			zap.Error(err),
		)
		return def(), nil
	}

	return v, nil
}

// Save fully overwrites the document stored under key.
func (d *Documents) Save(ctx context.Context, key string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := d.backend.Put(ctx, key, payload); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	return nil
}

// SaveAll overwrites every given document in one atomic write.
func (d *Documents) SaveAll(ctx context.Context, records map[string]any) error {
	payloads := make(map[string][]byte, len(records))
	for key, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		payloads[key] = payload
	}

	if err := d.backend.PutAll(ctx, payloads); err != nil {
		return fmt.Errorf("save documents: %w", err)
	}

	return nil
}
