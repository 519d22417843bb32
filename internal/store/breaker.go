package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// BreakerSettings configures BreakerStore.
type BreakerSettings struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration

	// OnStateChange is called after every transition, in addition to logging.
	OnStateChange func(from, to gobreaker.State)
}

// BreakerStore guards a Store with a circuit breaker. Missing documents and
// cancelled requests do not count as failures.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[Document]
}

// NewBreakerStore wraps next.
func NewBreakerStore(next Store, settings BreakerSettings, log *slog.Logger) *BreakerStore {
	cb := gobreaker.NewCircuitBreaker[Document](gobreaker.Settings{
		Name:        "document-store",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			if settings.OnStateChange != nil {
				settings.OnStateChange(from, to)
			}
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
	})

	return &BreakerStore{next: next, cb: cb}
}

// Create implements Store.
func (s *BreakerStore) Create(ctx context.Context, doc Document) error {
	_, err := s.cb.Execute(func() (Document, error) {
		return Document{}, s.next.Create(ctx, doc)
	})
	return breakerError(err)
}

// Get implements Store.
func (s *BreakerStore) Get(ctx context.Context, id uuid.UUID) (Document, error) {
	doc, err := s.cb.Execute(func() (Document, error) {
		return s.next.Get(ctx, id)
	})
	return doc, breakerError(err)
}

// Ping implements Store.
func (s *BreakerStore) Ping(ctx context.Context) error {
	_, err := s.cb.Execute(func() (Document, error) {
		return Document{}, s.next.Ping(ctx)
	})
	return breakerError(err)
}

// State returns the current breaker state.
func (s *BreakerStore) State() gobreaker.State {
	return s.cb.State()
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Join(ErrUnavailable, err)
	}
	return err
}
