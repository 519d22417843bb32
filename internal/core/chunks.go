package core

import (
	"context"
	"errors"
	"io"
)

// DefaultChunkSize is how many bytes ReaderSource asks for per pull.
const DefaultChunkSize = 8192

// ChunkSource yields a body as an ordered sequence of byte chunks.
//
// Next blocks until the next chunk is available. It returns io.EOF once the
// stream is exhausted; any other error is a transport failure. The returned
// slice is only valid until the following call to Next.
type ChunkSource interface {
	Next(ctx context.Context) ([]byte, error)
}

// ReaderSource adapts an io.Reader (typically an HTTP request body) into a
// ChunkSource. The read buffer is reused between pulls.
type ReaderSource struct {
	reader io.Reader
	buf    []byte
	err    error
}

// NewReaderSource creates a ChunkSource reading at most chunkSize bytes per pull.
func NewReaderSource(r io.Reader, chunkSize int) *ReaderSource {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ReaderSource{
		reader: r,
		buf:    make([]byte, chunkSize),
	}
}

// Next implements ChunkSource.
func (s *ReaderSource) Next(ctx context.Context) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := s.reader.Read(s.buf)
		if err != nil {
			// Hand out the final bytes first, report the error on the next pull.
			s.err = err
			if errors.Is(err, io.EOF) {
				s.err = io.EOF
			}
			if n > 0 {
				return s.buf[:n], nil
			}
			return nil, s.err
		}
		if n > 0 {
			return s.buf[:n], nil
		}
	}
}
