package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
)

// ============================================================================
// Extraction Benchmarks
// ============================================================================

func benchmarkExtract(b *testing.B, data []byte, chunkSize int) {
	req := Request{ContentType: AcceptedContentType, DeclaredLength: int64(len(data)), Limit: 64 << 20}

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		src := NewReaderSource(bytes.NewReader(data), chunkSize)
		if _, err := Extract(context.Background(), req, src, NewStringRecords()); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkExtract measures end-to-end extraction at the default chunk size.
func BenchmarkExtract(b *testing.B) {
	benchmarkExtract(b, generateTestCSV(100), DefaultChunkSize)
}

// BenchmarkExtract_Large measures a body close to the default limit.
func BenchmarkExtract_Large(b *testing.B) {
	benchmarkExtract(b, generateTestCSV(30000), DefaultChunkSize)
}

// BenchmarkExtract_ChunkSizes shows the cost of small reads and carry-over.
func BenchmarkExtract_ChunkSizes(b *testing.B) {
	data := generateTestCSV(1000)
	for _, size := range []int{16, 256, 4096, DefaultChunkSize, 64 << 10} {
		b.Run(fmt.Sprintf("chunk=%d", size), func(b *testing.B) {
			benchmarkExtract(b, data, size)
		})
	}
}

// BenchmarkExtract_VsReadAll compares the line-fed decoder with a plain
// csv.Reader over the whole buffered body.
func BenchmarkExtract_VsReadAll(b *testing.B) {
	data := generateTestCSV(1000)

	b.Run("ReadAll", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			r := csv.NewReader(bytes.NewReader(data))
			r.FieldsPerRecord = -1
			if _, err := r.ReadAll(); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Extract", func(b *testing.B) {
		benchmarkExtract(b, data, DefaultChunkSize)
	})
}

// BenchmarkLineAssembler isolates terminator scanning.
func BenchmarkLineAssembler(b *testing.B) {
	data := generateTestCSV(1000)
	emit := func([]byte) error { return nil }

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a := newLineAssembler(int64(len(data)))
		for off := 0; off < len(data); off += DefaultChunkSize {
			end := min(off+DefaultChunkSize, len(data))
			if err := a.feed(data[off:end], emit); err != nil {
				b.Fatal(err)
			}
		}
		if err := a.flush(emit); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkStringRecords isolates per-line dialect decoding.
func BenchmarkStringRecords(b *testing.B) {
	line := []byte(`1001,"Doe, John",john@example.com,2024-01-15,"$1,234.56",active`)
	dec := NewStringRecords()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := dec.DecodeRow(line); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkContentHash measures ETag computation for a stored document.
func BenchmarkContentHash(b *testing.B) {
	data := generateTestCSV(1000)
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		ContentHash(data)
	}
}

// BenchmarkExtractParallel runs concurrent extractions, as under server load.
func BenchmarkExtractParallel(b *testing.B) {
	data := generateTestCSV(100)
	req := Request{ContentType: AcceptedContentType, DeclaredLength: int64(len(data))}

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			src := NewReaderSource(bytes.NewReader(data), DefaultChunkSize)
			if _, err := Extract(context.Background(), req, src, NewStringRecords()); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateTestCSV generates CSV data with the specified number of rows.
func generateTestCSV(rows int) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	w.Write([]string{"ID", "Name", "Email", "Date", "Amount", "Status"})
	for i := 0; i < rows; i++ {
		w.Write([]string{
			fmt.Sprint(1000 + i),
			"Doe, John",
			"john@example.com",
			"2024-01-15",
			"$1,234.56",
			"active",
		})
	}
	w.Flush()

	return buf.Bytes()
}
