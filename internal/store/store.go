// Package store persists converted documents.
//
// PgStore is the Postgres implementation. BreakerStore and CachedStore wrap
// any Store to add a circuit breaker and a Redis read-through cache.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable is returned while the store's circuit breaker is open.
	ErrUnavailable = errors.New("document store unavailable")
)

// Document is a persisted row collection.
type Document struct {
	ID        uuid.UUID       `json:"id"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store reads and writes documents.
type Store interface {
	Create(ctx context.Context, doc Document) error
	Get(ctx context.Context, id uuid.UUID) (Document, error)
	Ping(ctx context.Context) error
}
