package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	insertDocumentSQL = `INSERT INTO document (id, content, created_at) VALUES ($1, $2, $3)`
	selectDocumentSQL = `SELECT id, content, created_at FROM document WHERE id = $1`
)

// PgStore is a Store backed by a pgx connection pool.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore over an open pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// Create inserts doc. The content must be a valid JSON document.
func (s *PgStore) Create(ctx context.Context, doc Document) error {
	if _, err := s.pool.Exec(ctx, insertDocumentSQL, doc.ID, []byte(doc.Content), doc.CreatedAt); err != nil {
		return fmt.Errorf("insert document %s: %w", doc.ID, err)
	}
	return nil
}

// Get returns the document with the given id, or ErrNotFound.
func (s *PgStore) Get(ctx context.Context, id uuid.UUID) (Document, error) {
	var (
		doc     Document
		content []byte
	)
	err := s.pool.QueryRow(ctx, selectDocumentSQL, id).Scan(&doc.ID, &content, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("select document %s: %w", id, err)
	}
	doc.Content = content
	return doc, nil
}

// Ping verifies the database is reachable.
func (s *PgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
