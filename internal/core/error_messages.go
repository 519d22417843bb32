package core

// error_messages.go defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Extraction failures are classified by kind (see extract_errors.go) and map
// to fixed codes; everything else is matched by pattern.
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Content type: Request body is not declared as CSV
//	         Action: Send the body with Content-Type: text/csv; charset=utf-8
//
//	REQ002 - Too long: Declared body length exceeds the upload limit
//	         Action: Split the file into smaller uploads
//
//	REQ003 - Overflow: Body exceeded the upload limit while streaming
//	         Action: Split the file into smaller uploads
//
//	REQ004 - Length mismatch: Body is larger than its declared length
//	         Action: Check the client sets Content-Length correctly
//
//	REQ005 - Read failure: The request body could not be read
//	         Action: Please try again
//
// # CSV Errors (CSV001-CSV099)
//
//	CSV001 - Malformed row: A CSV line could not be parsed
//	         Action: Check quoting on the reported line
//
//	CSV002 - Encoding: A CSV line is not valid UTF-8
//	         Action: Save the file as UTF-8
//
// # Document Errors (DOC001-DOC099)
//
//	DOC001 - Not found: Document does not exist
//	         Action: Verify the document ID
//
//	DOC002 - Unavailable: Document storage is temporarily unavailable
//	         Action: Please try again in a few moments
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A document with this ID already exists
//	        Patterns: "duplicate key"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many uploads in progress
//	         Patterns: "too many concurrent uploads"
//
//	UPL004 - Request cancelled: Request was cancelled
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout: Request timed out
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check application logs for the
// original technical error.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/csv2json/internal/store"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var kindMessages = map[Kind]UserMessage{
	KindContentType: {
		Message: "Request body is not declared as CSV",
		Action:  "Send the body with Content-Type: " + AcceptedContentType,
		Code:    "REQ001",
	},
	KindTooLong: {
		Message: "Declared body length exceeds the upload limit",
		Action:  "Split the file into smaller uploads",
		Code:    "REQ002",
	},
	KindOverflow: {
		Message: "Body exceeded the upload limit",
		Action:  "Split the file into smaller uploads",
		Code:    "REQ003",
	},
	KindOverflowKnownLength: {
		Message: "Body is larger than its declared length",
		Action:  "Check the client sets Content-Length correctly",
		Code:    "REQ004",
	},
	KindPayload: {
		Message: "The request body could not be read",
		Action:  "Please try again",
		Code:    "REQ005",
	},
	KindDeserialize: {
		Message: "A CSV line could not be parsed",
		Action:  "Check quoting on the reported line",
		Code:    "CSV001",
	},
}

var (
	encodingMessage = UserMessage{
		Message: "A CSV line is not valid UTF-8",
		Action:  "Save the file as UTF-8",
		Code:    "CSV002",
	}
	notFoundMessage = UserMessage{
		Message: "Document not found",
		Action:  "Verify the document ID",
		Code:    "DOC001",
	}
	unavailableMessage = UserMessage{
		Message: "Document storage is temporarily unavailable",
		Action:  "Please try again in a few moments",
		Code:    "DOC002",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Errors (DB001-DB006)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A document with this ID already exists",
			Action:  "Please try the upload again",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try uploading a smaller file or try again later",
			Code:    "DB006",
		},
	},

	// =========================================================================
	// Upload Errors (UPL002-UPL005)
	// =========================================================================
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "Too many uploads in progress",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL005",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Extraction errors map by kind, store errors by sentinel, and anything else
// by the first matching pattern. Unmatched errors get ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if ee, ok := AsExtractError(err); ok {
		if ee.Kind == KindDeserialize && errors.Is(ee.Err, ErrInvalidUTF8) {
			return encodingMessage
		}
		if msg, ok := kindMessages[ee.Kind]; ok {
			return msg
		}
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return notFoundMessage
	case errors.Is(err, store.ErrUnavailable):
		return unavailableMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// StatusCode returns the HTTP status for err.
func StatusCode(err error) int {
	if ee, ok := AsExtractError(err); ok {
		return ee.StatusCode()
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrTooManyUploads):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
