package core

// budget enforces the byte ceiling and the exact-length contract across the
// whole stream. reserve runs once per chunk, before any scanning, so memory
// never grows past the ceiling even transiently.
type budget struct {
	limit       int64
	declared    int64
	hasDeclared bool
	consumed    int64
}

func newBudget(limit, declaredLength int64) *budget {
	return &budget{
		limit:       limit,
		declared:    declaredLength,
		hasDeclared: declaredLength >= 0,
	}
}

// reserve accounts for n more bytes. A mismatch against the announced length
// is reported before the plain limit.
func (b *budget) reserve(n int) error {
	projected := b.consumed + int64(n)

	if b.hasDeclared && projected > b.declared {
		return overflowKnownLengthError(b.declared)
	}
	if projected > b.limit {
		return overflowError(b.limit)
	}

	b.consumed = projected
	return nil
}
