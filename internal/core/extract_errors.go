package core

// extract_errors.go defines the terminal errors of a CSV body extraction.
//
// Every failure is reported as a single *ExtractError whose Kind classifies
// it. The error unwraps to both the kind sentinel (ErrOverflow, ...) and the
// underlying cause, so callers can use errors.Is against either.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an extraction failure.
type Kind int

const (
	KindContentType Kind = iota + 1
	KindTooLong
	KindOverflow
	KindOverflowKnownLength
	KindDeserialize
	KindPayload
)

// String returns the kind name used in logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindContentType:
		return "content_type"
	case KindTooLong:
		return "too_long"
	case KindOverflow:
		return "overflow"
	case KindOverflowKnownLength:
		return "overflow_known_length"
	case KindDeserialize:
		return "deserialize"
	case KindPayload:
		return "payload"
	default:
		return "unknown"
	}
}

var (
	ErrContentType         = errors.New("content type error")
	ErrTooLong             = errors.New("payload content length exceeds limit")
	ErrOverflow            = errors.New("payload size exceeded limit")
	ErrOverflowKnownLength = errors.New("payload is larger than content length")
	ErrDeserialize         = errors.New("csv deserialize error")
	ErrPayload             = errors.New("failed to read payload")
)

var kindSentinels = map[Kind]error{
	KindContentType:         ErrContentType,
	KindTooLong:             ErrTooLong,
	KindOverflow:            ErrOverflow,
	KindOverflowKnownLength: ErrOverflowKnownLength,
	KindDeserialize:         ErrDeserialize,
	KindPayload:             ErrPayload,
}

// ExtractError is the single terminal error of an extraction.
type ExtractError struct {
	Kind Kind

	// Length is the declared body length for TooLong and OverflowKnownLength.
	Length int64

	// Limit is the byte ceiling for TooLong and Overflow.
	Limit int64

	// Line is the 1-based line number for Deserialize.
	Line int

	// Err is the underlying cause (parse diagnostic, transport error), if any.
	Err error
}

func (e *ExtractError) Error() string {
	switch e.Kind {
	case KindContentType:
		return "Content type error."
	case KindTooLong:
		return fmt.Sprintf("Payload content length (%d bytes) exceeds limit (%d bytes).", e.Length, e.Limit)
	case KindOverflowKnownLength:
		return fmt.Sprintf("Payload is larger than content length (%d bytes).", e.Length)
	case KindOverflow:
		return fmt.Sprintf("Payload size exceeded limit (%d bytes).", e.Limit)
	case KindDeserialize:
		return fmt.Sprintf("CSV deserialize error on line %d: %v", e.Line, e.Err)
	case KindPayload:
		return fmt.Sprintf("Failed to read payload: %v", e.Err)
	default:
		return "extract error"
	}
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ExtractError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// StatusCode returns the HTTP status the web layer should answer with.
func (e *ExtractError) StatusCode() int {
	switch e.Kind {
	case KindTooLong, KindOverflow, KindOverflowKnownLength:
		return http.StatusRequestEntityTooLarge
	case KindPayload:
		if errors.Is(e.Err, context.DeadlineExceeded) {
			return http.StatusRequestTimeout
		}
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

func contentTypeError(cause error) *ExtractError {
	return &ExtractError{Kind: KindContentType, Err: cause}
}

func tooLongError(length, limit int64) *ExtractError {
	return &ExtractError{Kind: KindTooLong, Length: length, Limit: limit}
}

func overflowError(limit int64) *ExtractError {
	return &ExtractError{Kind: KindOverflow, Limit: limit}
}

func overflowKnownLengthError(length int64) *ExtractError {
	return &ExtractError{Kind: KindOverflowKnownLength, Length: length}
}

func deserializeError(line int, cause error) *ExtractError {
	return &ExtractError{Kind: KindDeserialize, Line: line, Err: cause}
}

func payloadError(cause error) *ExtractError {
	return &ExtractError{Kind: KindPayload, Err: cause}
}

// AsExtractError reports whether err is (or wraps) an *ExtractError.
func AsExtractError(err error) (*ExtractError, bool) {
	var ee *ExtractError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}
