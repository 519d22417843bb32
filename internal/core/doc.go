// Package core provides the business logic for CSV to JSON document conversion.
//
// This package holds all domain logic independent of the transport layer. It
// is used by the HTTP handlers, the convert command, and tests alike.
//
// # Extraction
//
// [Extract] turns a CSV body, delivered as a sequence of chunks by a
// [ChunkSource], into a collection of rows. It never buffers the whole body:
//
//  1. [Admit] checks the declared content type and length before any byte is read
//  2. Each chunk is charged against the byte budget (the limit, or the
//     declared length when one was announced)
//  3. The line assembler splits chunks on "\n", "\r\n" or a lone "\r",
//     carrying an unterminated tail into a bounded buffer
//  4. Each completed line is decoded by a [RowDecoder]; blank lines yield no row
//
// Any failure is terminal and reported as a single [*ExtractError]; no partial
// rows are returned.
//
//	res, err := core.Extract(ctx, core.Request{
//	    ContentType:    r.Header.Get("Content-Type"),
//	    DeclaredLength: r.ContentLength,
//	}, core.NewReaderSource(r.Body, core.DefaultChunkSize), core.NewStringRecords())
//
// # Dialect
//
// [StringRecords] decodes comma-separated, optionally double-quoted fields
// with no header row. Quotes must be balanced within a line: a quoted field
// cannot contain a line terminator.
//
// # Service
//
// [Service] wraps extraction with an [UploadLimiter], stores the result as a
// JSON document, and fetches documents back by id.
//
// # Errors
//
// [MapError] and [StatusCode] translate any error from this package or the
// store into a user-facing message and an HTTP status.
package core
