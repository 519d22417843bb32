package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "csv2json:document:"

// CachedStore is a read-through Redis cache in front of a Store.
// Redis failures are logged and the request falls through to the next store.
type CachedStore struct {
	next   Store
	client redis.UniversalClient
	ttl    time.Duration
	log    *slog.Logger
}

// NewCachedStore wraps next with a cache whose entries live for ttl.
func NewCachedStore(next Store, client redis.UniversalClient, ttl time.Duration, log *slog.Logger) *CachedStore {
	return &CachedStore{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func cacheKey(id uuid.UUID) string {
	return cacheKeyPrefix + id.String()
}

// Create writes through to the next store and then primes the cache.
func (s *CachedStore) Create(ctx context.Context, doc Document) error {
	if err := s.next.Create(ctx, doc); err != nil {
		return err
	}
	s.put(ctx, doc)
	return nil
}

// Get serves from Redis when possible.
func (s *CachedStore) Get(ctx context.Context, id uuid.UUID) (Document, error) {
	raw, err := s.client.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil:
		var doc Document
		jsonErr := json.Unmarshal(raw, &doc)
		if jsonErr == nil {
			return doc, nil
		}
		s.log.WarnContext(ctx, "discarding corrupt cache entry", "id", id, "error", jsonErr)
	case errors.Is(err, redis.Nil):
	default:
		s.log.WarnContext(ctx, "cache read failed", "id", id, "error", err)
	}

	doc, err := s.next.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	s.put(ctx, doc)
	return doc, nil
}

// Ping checks the next store only; the cache is optional.
func (s *CachedStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.log.WarnContext(ctx, "cache ping failed", "error", err)
	}
	return s.next.Ping(ctx)
}

func (s *CachedStore) put(ctx context.Context, doc Document) {
	raw, err := json.Marshal(doc)
	if err != nil {
		s.log.WarnContext(ctx, "cache encode failed", "id", doc.ID, "error", err)
		return
	}
	if err := s.client.Set(ctx, cacheKey(doc.ID), raw, s.ttl).Err(); err != nil {
		s.log.WarnContext(ctx, "cache write failed", "id", doc.ID, "error", err)
	}
}

// ConnectRedis parses url and pings the server.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}
	return client, nil
}

var (
	ErrFailedToParseRedisURL = errors.New("failed to parse redis connection string")
	ErrRedisNotReady         = errors.New("redis is not ready")
)
