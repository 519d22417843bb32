package core

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, src ChunkSource) (string, error) {
	t.Helper()
	var sb strings.Builder
	for {
		chunk, err := src.Next(context.Background())
		if err != nil {
			return sb.String(), err
		}
		sb.Write(chunk)
	}
}

func TestReaderSource_Chunks(t *testing.T) {
	src := NewReaderSource(strings.NewReader("abcdefg"), 3)

	var chunks []string
	for {
		chunk, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, string(chunk))
	}

	assert.Equal(t, []string{"abc", "def", "g"}, chunks)

	// EOF is sticky.
	_, err := src.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderSource_DataWithEOF(t *testing.T) {
	src := NewReaderSource(iotest.DataErrReader(strings.NewReader("hello")), 16)

	got, err := drain(t, src)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "hello", got)
}

func TestReaderSource_ErrorAfterData(t *testing.T) {
	cause := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(cause))

	got, err := drain(t, NewReaderSource(r, 2))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "abc", got)
}

func TestReaderSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReaderSource(strings.NewReader("abc"), 2).Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReaderSource_DefaultChunkSize(t *testing.T) {
	src := NewReaderSource(strings.NewReader(""), 0)
	assert.Len(t, src.buf, DefaultChunkSize)
}
