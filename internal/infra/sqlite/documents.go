package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aliskhannn/stepwise-bot/internal/storage"
)

const upsertDocument = `
	INSERT INTO documents (key, payload, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
`

// DocumentsRepository stores raw documents in a SQLite database.
type DocumentsRepository struct {
	db *sqlx.DB
}

// NewDocumentsRepository creates a new DocumentsRepository.
func NewDocumentsRepository(db *sqlx.DB) *DocumentsRepository {
	return &DocumentsRepository{db: db}
}

// Get retrieves the payload stored under key.
func (r *DocumentsRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM documents WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	return []byte(payload), nil
}

// Put overwrites the payload stored under key.
func (r *DocumentsRepository) Put(ctx context.Context, key string, payload []byte) error {
	if _, err := r.db.ExecContext(ctx, upsertDocument, key, string(payload)); err != nil {
		return fmt.Errorf("put document %s: %w", key, err)
	}
	return nil
}

// PutAll overwrites every payload within one transaction.
func (r *DocumentsRepository) PutAll(ctx context.Context, payloads map[string][]byte) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for key, payload := range payloads {
		if _, err := tx.ExecContext(ctx, upsertDocument, key, string(payload)); err != nil {
			return fmt.Errorf("put document %s: %w", key, err)
		}
	}

	return tx.Commit()
}
