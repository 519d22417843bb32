package core

import (
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned by StringRecords for lines that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("line is not valid UTF-8")

// RowDecoder turns one line span into at most one row.
//
// ok is false when the line yields no row (a blank line). The span must not
// be retained after DecodeRow returns.
type RowDecoder[T any] interface {
	DecodeRow(line []byte) (row T, ok bool, err error)
}

// RowDecoderFunc adapts a function to RowDecoder.
type RowDecoderFunc[T any] func(line []byte) (T, bool, error)

// DecodeRow implements RowDecoder.
func (f RowDecoderFunc[T]) DecodeRow(line []byte) (T, bool, error) {
	return f(line)
}

// StringRecords decodes comma-separated, optionally double-quoted, headerless
// lines into []string rows. It keeps one csv.Reader for the whole extraction
// and feeds it a line at a time, so it must not be shared between extractions.
type StringRecords struct {
	src    lineReader
	reader *csv.Reader
}

// NewStringRecords creates a decoder for a single extraction.
func NewStringRecords() *StringRecords {
	d := &StringRecords{}
	d.reader = csv.NewReader(&d.src)
	d.reader.FieldsPerRecord = -1
	return d
}

// DecodeRow implements RowDecoder.
func (d *StringRecords) DecodeRow(line []byte) ([]string, bool, error) {
	if len(line) == 0 {
		return nil, false, nil
	}
	if !utf8.Valid(line) {
		return nil, false, ErrInvalidUTF8
	}

	d.src.line = line
	record, err := d.reader.Read()
	d.src.line = nil
	if errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// lineReader hands the current line to csv.Reader and then reports io.EOF,
// which ends the record without a terminator.
type lineReader struct {
	line []byte
}

func (r *lineReader) Read(p []byte) (int, error) {
	n := copy(p, r.line)
	r.line = r.line[n:]
	if len(r.line) == 0 {
		return n, io.EOF
	}
	return n, nil
}
