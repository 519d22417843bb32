package core

// extract.go drives one CSV body extraction.
//
// The driver is a small state machine:
//
//	Rejected      admission failed, nothing was read
//	Accumulating  pulling chunks: budget check, line assembly, row decoding
//	Failed        budget, decode, transport or cancellation error
//	Complete      end of stream reached, trailing line flushed
//
// It runs on the caller's goroutine and suspends only inside ChunkSource.Next.
// On any failure the carry-over buffer and the partial rows are dropped; no
// partial result is ever returned.

import (
	"context"
	"errors"
	"io"
)

// Request describes the body about to be extracted.
type Request struct {
	ContentType    string
	DeclaredLength int64 // NoDeclaredLength if absent
	Limit          int64 // DefaultLimit if <= 0
}

// Result is the outcome of a successful extraction.
type Result[T any] struct {
	Rows      []T
	BytesRead int64
	Lines     int
}

type extractState int

const (
	stateAccumulating extractState = iota
	stateFailed
	stateComplete
)

type extraction[T any] struct {
	state     extractState
	budget    *budget
	assembler *lineAssembler
	decoder   RowDecoder[T]
	rows      []T
	lines     int
	err       error
}

// Extract admits the request, then pulls src until end of stream and decodes
// every line with dec. Rows are returned in line order.
func Extract[T any](ctx context.Context, req Request, src ChunkSource, dec RowDecoder[T]) (Result[T], error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	if err := Admit(req.ContentType, req.DeclaredLength, limit); err != nil {
		return Result[T]{}, err
	}

	x := &extraction[T]{
		state:     stateAccumulating,
		budget:    newBudget(limit, req.DeclaredLength),
		assembler: newLineAssembler(limit),
		decoder:   dec,
		rows:      make([]T, 0),
	}
	defer x.assembler.release()

	for x.state == stateAccumulating {
		x.step(ctx, src)
	}

	if x.state == stateFailed {
		x.rows = nil
		return Result[T]{}, x.err
	}

	return Result[T]{
		Rows:      x.rows,
		BytesRead: x.budget.consumed,
		Lines:     x.lines,
	}, nil
}

// step performs one pull from the source and processes what it returned.
func (x *extraction[T]) step(ctx context.Context, src ChunkSource) {
	if err := ctx.Err(); err != nil {
		x.fail(payloadError(err))
		return
	}

	chunk, err := src.Next(ctx)
	if errors.Is(err, io.EOF) {
		if err := x.assembler.flush(x.decodeLine); err != nil {
			x.fail(err)
			return
		}
		x.state = stateComplete
		return
	}
	if err != nil {
		x.fail(payloadError(err))
		return
	}

	if err := x.budget.reserve(len(chunk)); err != nil {
		x.fail(err)
		return
	}

	if err := x.assembler.feed(chunk, x.decodeLine); err != nil {
		x.fail(err)
	}
}

func (x *extraction[T]) decodeLine(line []byte) error {
	x.lines++

	row, ok, err := x.decoder.DecodeRow(line)
	if err != nil {
		return deserializeError(x.lines, err)
	}
	if ok {
		x.rows = append(x.rows, row)
	}
	return nil
}

func (x *extraction[T]) fail(err error) {
	if _, ok := AsExtractError(err); !ok {
		err = payloadError(err)
	}
	x.state = stateFailed
	x.err = err
}
