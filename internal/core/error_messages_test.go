package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/JonMunkholm/csv2json/internal/store"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "content type",
			err:         contentTypeError(errors.New("missing charset parameter")),
			wantCode:    "REQ001",
			wantMessage: "Request body is not declared as CSV",
		},
		{
			name:        "too long",
			err:         tooLongError(10, 5),
			wantCode:    "REQ002",
			wantMessage: "Declared body length exceeds the upload limit",
		},
		{
			name:        "overflow",
			err:         overflowError(5),
			wantCode:    "REQ003",
			wantMessage: "Body exceeded the upload limit",
		},
		{
			name:        "overflow known length",
			err:         overflowKnownLengthError(5),
			wantCode:    "REQ004",
			wantMessage: "Body is larger than its declared length",
		},
		{
			name:        "payload",
			err:         payloadError(errors.New("unexpected EOF")),
			wantCode:    "REQ005",
			wantMessage: "The request body could not be read",
		},
		{
			name:        "deserialize",
			err:         deserializeError(3, errors.New(`extraneous or missing " in quoted-field`)),
			wantCode:    "CSV001",
			wantMessage: "A CSV line could not be parsed",
		},
		{
			name:        "invalid utf-8",
			err:         deserializeError(1, ErrInvalidUTF8),
			wantCode:    "CSV002",
			wantMessage: "A CSV line is not valid UTF-8",
		},
		{
			name:        "wrapped extract error",
			err:         fmt.Errorf("create document: %w", overflowError(5)),
			wantCode:    "REQ003",
			wantMessage: "Body exceeded the upload limit",
		},
		{
			name:        "document not found",
			err:         store.ErrNotFound,
			wantCode:    "DOC001",
			wantMessage: "Document not found",
		},
		{
			name:        "store unavailable",
			err:         errors.Join(store.ErrUnavailable, errors.New("circuit breaker is open")),
			wantCode:    "DOC002",
			wantMessage: "Document storage is temporarily unavailable",
		},
		{
			name:        "duplicate key maps correctly",
			err:         errors.New(`ERROR: duplicate key value violates unique constraint "document_pkey"`),
			wantCode:    "DB001",
			wantMessage: "A document with this ID already exists",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "timeout maps correctly",
			err:         errors.New("i/o timeout"),
			wantCode:    "DB006",
			wantMessage: "Operation timed out",
		},
		{
			name:        "too many uploads",
			err:         ErrTooManyUploads,
			wantCode:    "UPL002",
			wantMessage: "Too many uploads in progress",
		},
		{
			name:        "context canceled",
			err:         context.Canceled,
			wantCode:    "UPL004",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("something completely unexpected"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"content type", contentTypeError(nil), http.StatusBadRequest},
		{"too long", tooLongError(10, 5), http.StatusRequestEntityTooLarge},
		{"overflow", overflowError(5), http.StatusRequestEntityTooLarge},
		{"overflow known length", overflowKnownLengthError(5), http.StatusRequestEntityTooLarge},
		{"deserialize", deserializeError(1, errors.New("bad")), http.StatusBadRequest},
		{"payload", payloadError(errors.New("reset")), http.StatusBadRequest},
		{"payload deadline", payloadError(context.DeadlineExceeded), http.StatusRequestTimeout},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"unavailable", store.ErrUnavailable, http.StatusServiceUnavailable},
		{"too many uploads", ErrTooManyUploads, http.StatusTooManyRequests},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(store.ErrNotFound)
	want := "Document not found (Code: DOC001). Verify the document ID"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"extract error", overflowError(1), true},
		{"pattern match", errors.New("connection refused"), true},
		{"unknown", errors.New("segfault in the flux capacitor"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindMessagesCoverEveryKind(t *testing.T) {
	for k := KindContentType; k <= KindPayload; k++ {
		if _, ok := kindMessages[k]; !ok {
			t.Errorf("kind %s has no user message", k)
		}
		if strings.Contains(k.String(), "unknown") {
			t.Errorf("kind %d has no name", k)
		}
	}
}
