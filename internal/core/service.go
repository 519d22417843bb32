package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/csv2json/internal/logging"
	"github.com/JonMunkholm/csv2json/internal/store"
	"github.com/google/uuid"
)

// resultOK labels a successful extraction for the Recorder.
const resultOK = "ok"

// Upload is one CSV body offered for conversion.
type Upload struct {
	ContentType    string
	DeclaredLength int64 // NoDeclaredLength if unknown
	Body           io.Reader
}

// Recorder receives extraction outcomes. *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveExtraction(result string, rows int, bytes int64)
}

type nopRecorder struct{}

func (nopRecorder) ObserveExtraction(string, int, int64) {}

// ServiceConfig tunes extraction.
type ServiceConfig struct {
	Limit     int64 // DefaultLimit if <= 0
	ChunkSize int   // DefaultChunkSize if <= 0
}

// Service converts CSV uploads into stored JSON documents.
type Service struct {
	store     store.Store
	limiter   *UploadLimiter
	recorder  Recorder
	limit     int64
	chunkSize int
}

// NewService creates a Service. recorder may be nil.
func NewService(st store.Store, limiter *UploadLimiter, recorder Recorder, cfg ServiceConfig) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return &Service{
		store:     st,
		limiter:   limiter,
		recorder:  recorder,
		limit:     cfg.Limit,
		chunkSize: cfg.ChunkSize,
	}
}

// Limit returns the byte ceiling applied to each upload.
func (s *Service) Limit() int64 { return s.limit }

// Limiter returns the upload limiter, for shutdown draining and status.
func (s *Service) Limiter() *UploadLimiter { return s.limiter }

// Convert extracts up into rows without persisting anything. It holds an
// upload slot for the duration of the extraction.
func (s *Service) Convert(ctx context.Context, up Upload) (Result[[]string], error) {
	// Reject on headers alone before taking a slot.
	if err := Admit(up.ContentType, up.DeclaredLength, s.limit); err != nil {
		s.recordFailure(err)
		return Result[[]string]{}, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return Result[[]string]{}, err
	}
	defer s.limiter.Release()

	req := Request{
		ContentType:    up.ContentType,
		DeclaredLength: up.DeclaredLength,
		Limit:          s.limit,
	}
	res, err := Extract(ctx, req, NewReaderSource(up.Body, s.chunkSize), NewStringRecords())
	if err != nil {
		s.recordFailure(err)
		return Result[[]string]{}, err
	}

	s.recorder.ObserveExtraction(resultOK, len(res.Rows), res.BytesRead)
	return res, nil
}

// CreateDocument converts up and stores the rows as a new document.
func (s *Service) CreateDocument(ctx context.Context, up Upload) (store.Document, error) {
	log := logging.WithFields(ctx,
		"content_type", up.ContentType,
		"declared_length", up.DeclaredLength,
	)

	start := time.Now()
	res, err := s.Convert(ctx, up)
	if err != nil {
		log.Info("upload rejected", "error", err, "code", MapError(err).Code)
		return store.Document{}, err
	}

	content, err := json.Marshal(res.Rows)
	if err != nil {
		return store.Document{}, fmt.Errorf("encode rows: %w", err)
	}

	doc := store.Document{
		ID:        uuid.New(),
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, doc); err != nil {
		return store.Document{}, fmt.Errorf("store document: %w", err)
	}

	log.Info("document created",
		"id", doc.ID,
		"rows", len(res.Rows),
		"lines", res.Lines,
		"bytes", res.BytesRead,
		"duration", time.Since(start),
	)
	return doc, nil
}

// GetDocument fetches a document by its textual id. Ids that are not UUIDs
// are reported as store.ErrNotFound.
func (s *Service) GetDocument(ctx context.Context, id string) (store.Document, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return store.Document{}, store.ErrNotFound
	}
	return s.store.Get(ctx, parsed)
}

// Ping checks the document store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) recordFailure(err error) {
	if ee, ok := AsExtractError(err); ok {
		s.recorder.ObserveExtraction(ee.Kind.String(), 0, 0)
	}
}
