package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmit(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		declared    int64
		limit       int64
		wantKind    Kind
	}{
		{"accepted", AcceptedContentType, NoDeclaredLength, 100, 0},
		{"declared within limit", AcceptedContentType, 100, 100, 0},
		{"declared zero", AcceptedContentType, 0, 100, 0},
		{"declared over limit", AcceptedContentType, 101, 100, KindTooLong},
		{"content type checked first", "application/json", 101, 100, KindContentType},
		{"missing content type", "", NoDeclaredLength, 100, KindContentType},
		{"missing charset", "text/csv", NoDeclaredLength, 100, KindContentType},
		{"wrong charset", "text/csv; charset=utf-16", NoDeclaredLength, 100, KindContentType},
		{"extra parameter", "text/csv; charset=utf-8; q=1", NoDeclaredLength, 100, KindContentType},
		{"other parameter only", "text/csv; header=absent", NoDeclaredLength, 100, KindContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Admit(tt.contentType, tt.declared, tt.limit)
			if tt.wantKind == 0 {
				assert.NoError(t, err)
				return
			}
			ee, ok := AsExtractError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, ee.Kind)
		})
	}
}

func TestBudget(t *testing.T) {
	t.Run("without declared length", func(t *testing.T) {
		b := newBudget(10, NoDeclaredLength)
		require.NoError(t, b.reserve(6))
		require.NoError(t, b.reserve(4))

		ee, ok := AsExtractError(b.reserve(1))
		require.True(t, ok)
		assert.Equal(t, KindOverflow, ee.Kind)
		assert.Equal(t, int64(10), b.consumed, "failed reservation is not counted")
	})

	t.Run("declared length below limit", func(t *testing.T) {
		b := newBudget(100, 5)
		require.NoError(t, b.reserve(5))

		ee, ok := AsExtractError(b.reserve(1))
		require.True(t, ok)
		assert.Equal(t, KindOverflowKnownLength, ee.Kind)
		assert.Equal(t, int64(5), ee.Length)
	})

	t.Run("declared zero", func(t *testing.T) {
		b := newBudget(100, 0)
		require.NoError(t, b.reserve(0))

		ee, ok := AsExtractError(b.reserve(1))
		require.True(t, ok)
		assert.Equal(t, KindOverflowKnownLength, ee.Kind)
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "content_type", KindContentType.String())
	assert.Equal(t, "overflow_known_length", KindOverflowKnownLength.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
