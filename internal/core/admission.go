package core

import (
	"fmt"
	"mime"
	"strings"
)

// AcceptedContentType is the only content type an upload may declare.
const AcceptedContentType = "text/csv; charset=utf-8"

// DefaultLimit is the default byte ceiling for one upload body (2 MiB).
const DefaultLimit int64 = 2_097_152

// NoDeclaredLength marks a body whose length was not announced up front.
const NoDeclaredLength int64 = -1

// Admit decides, before any body byte is read, whether an upload may proceed.
//
// contentType is the raw Content-Type header value. declaredLength is the
// announced body length or NoDeclaredLength.
func Admit(contentType string, declaredLength, limit int64) error {
	if err := checkContentType(contentType); err != nil {
		return err
	}
	if declaredLength >= 0 && declaredLength > limit {
		return tooLongError(declaredLength, limit)
	}
	return nil
}

// checkContentType accepts text/csv with a single utf-8 charset parameter.
func checkContentType(contentType string) error {
	if strings.TrimSpace(contentType) == "" {
		return contentTypeError(fmt.Errorf("missing content type"))
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentTypeError(err)
	}
	if mediaType != "text/csv" {
		return contentTypeError(fmt.Errorf("unsupported media type %q", mediaType))
	}
	if len(params) != 1 {
		return contentTypeError(fmt.Errorf("expected only a charset parameter, got %d parameters", len(params)))
	}

	charset, ok := params["charset"]
	if !ok {
		return contentTypeError(fmt.Errorf("missing charset parameter"))
	}
	switch strings.ToLower(charset) {
	case "utf-8", "utf8":
		return nil
	default:
		return contentTypeError(fmt.Errorf("unsupported charset %q", charset))
	}
}
