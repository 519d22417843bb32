package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte(`[["a","b"]]`))
	b := ContentHash([]byte(`[["a","b"]]`))
	c := ContentHash([]byte(`[["a","c"]]`))

	assert.Len(t, a, 32)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestETag(t *testing.T) {
	tag := ETag([]byte("[]"))

	assert.True(t, strings.HasPrefix(tag, `"`))
	assert.True(t, strings.HasSuffix(tag, `"`))
	assert.Equal(t, `"`+ContentHash([]byte("[]"))+`"`, tag)
}
