package core

import (
	"encoding/hex"

	"github.com/zeebo/xxh3"
)

// ContentHash returns the hex XXH3-128 digest of a document's content.
func ContentHash(content []byte) string {
	sum := xxh3.Hash128(content).Bytes()
	return hex.EncodeToString(sum[:])
}

// ETag returns content's strong entity tag, quotes included.
func ETag(content []byte) string {
	return `"` + ContentHash(content) + `"`
}
