package core

import (
	"bytes"
	"fmt"
)

// boundedBuffer is the carry-over buffer for a line that has not been
// terminated yet. Its length never exceeds max.
type boundedBuffer struct {
	buf []byte
	max int64
}

func newBoundedBuffer(max int64) *boundedBuffer {
	initial := max
	if initial > DefaultChunkSize {
		initial = DefaultChunkSize
	}
	if initial < 0 {
		initial = 0
	}
	return &boundedBuffer{
		buf: make([]byte, 0, initial),
		max: max,
	}
}

func (b *boundedBuffer) append(p []byte) error {
	if int64(len(b.buf))+int64(len(p)) > b.max {
		return fmt.Errorf("carry-over buffer would exceed %d bytes", b.max)
	}
	b.buf = append(b.buf, p...)
	return nil
}

func (b *boundedBuffer) len() int      { return len(b.buf) }
func (b *boundedBuffer) bytes() []byte { return b.buf }
func (b *boundedBuffer) reset()        { b.buf = b.buf[:0] }
func (b *boundedBuffer) release()      { b.buf = nil }

// lineAssembler splits chunks into line spans. A line ends at "\n", "\r\n"
// or a lone "\r"; the terminator is not part of the span.
type lineAssembler struct {
	carry *boundedBuffer

	// danglingCR is set when the previous chunk ended in '\r'. The line was
	// already closed; a leading '\n' in the next chunk completes the CRLF.
	danglingCR bool
}

func newLineAssembler(limit int64) *lineAssembler {
	return &lineAssembler{carry: newBoundedBuffer(limit)}
}

// feed scans chunk and calls emit once per completed line, in order.
// The span passed to emit is only valid for the duration of the call.
func (a *lineAssembler) feed(chunk []byte, emit func(line []byte) error) error {
	if a.danglingCR && len(chunk) > 0 {
		a.danglingCR = false
		if chunk[0] == '\n' {
			chunk = chunk[1:]
		}
	}

	for len(chunk) > 0 {
		pos := bytes.IndexAny(chunk, "\r\n")
		if pos < 0 {
			return a.carry.append(chunk)
		}

		width := 1
		if chunk[pos] == '\r' {
			switch {
			case pos+1 < len(chunk) && chunk[pos+1] == '\n':
				width = 2
			case pos+1 == len(chunk):
				a.danglingCR = true
			}
		}

		line := chunk[:pos]
		if a.carry.len() > 0 {
			if err := a.carry.append(line); err != nil {
				return err
			}
			line = a.carry.bytes()
		}

		if err := emit(line); err != nil {
			return err
		}

		a.carry.reset()
		chunk = chunk[pos+width:]
	}

	return nil
}

// flush emits the unterminated remainder, if any, as the final line.
func (a *lineAssembler) flush(emit func(line []byte) error) error {
	if a.carry.len() == 0 {
		return nil
	}
	if err := emit(a.carry.bytes()); err != nil {
		return err
	}
	a.carry.reset()
	return nil
}

func (a *lineAssembler) release() {
	a.carry.release()
}
