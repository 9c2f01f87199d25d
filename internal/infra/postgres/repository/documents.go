package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/stepwise-bot/internal/infra/postgres"
	"github.com/aliskhannn/stepwise-bot/internal/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		key        TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// DocumentsRepository stores raw documents in the documents table.
type DocumentsRepository struct {
	db postgres.DBTX
	tr *postgres.Transactor
}

// NewDocumentsRepository creates a repository. tr is used by PutAll; it may be
// nil when db is already a transaction.
func NewDocumentsRepository(db postgres.DBTX, tr *postgres.Transactor) *DocumentsRepository {
	return &DocumentsRepository{db: db, tr: tr}
}

// Migrate creates the documents table if it does not exist.
func (r *DocumentsRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Get retrieves the payload stored under key.
// Returns storage.ErrDocumentNotFound if it doesn't exist.
func (r *DocumentsRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT payload FROM documents WHERE key = $1`

	var payload string
	err := r.db.QueryRow(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return []byte(payload), nil
}

// Put overwrites the payload stored under key.
func (r *DocumentsRepository) Put(ctx context.Context, key string, payload []byte) error {
	return put(ctx, r.db, key, payload)
}

// PutAll overwrites every payload within one transaction.
func (r *DocumentsRepository) PutAll(ctx context.Context, payloads map[string][]byte) error {
	if r.tr == nil {
		for key, payload := range payloads {
			if err := put(ctx, r.db, key, payload); err != nil {
				return err
			}
		}
		return nil
	}

	return r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for key, payload := range payloads {
			if err := put(ctx, tx, key, payload); err != nil {
				return err
			}
		}
		return nil
	})
}

func put(ctx context.Context, db postgres.DBTX, key string, payload []byte) error {
	query := `
		INSERT INTO documents (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	if _, err := db.Exec(ctx, query, key, string(payload)); err != nil {
		return fmt.Errorf("put document %s: %w", key, err)
	}

	return nil
}
