package core

import (
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRecords_DecodeRow(t *testing.T) {
	tests := []struct {
		line   string
		want   []string
		wantOK bool
	}{
		{"", nil, false},
		{"a", []string{"a"}, true},
		{"a,b,c", []string{"a", "b", "c"}, true},
		{",", []string{"", ""}, true},
		{`"a,b",c`, []string{"a,b", "c"}, true},
		{`"she said ""hi"""`, []string{`she said "hi"`}, true},
		{`""`, []string{""}, true},
		{" padded ", []string{" padded "}, true},
	}

	dec := NewStringRecords()
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok, err := dec.DecodeRow([]byte(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringRecords_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"unterminated quote", `"abc`, csv.ErrQuote},
		{"bare quote", `ab"c`, csv.ErrBareQuote},
		{"text after closing quote", `"ab"c`, csv.ErrQuote},
		{"invalid utf-8", "a,\xc3\x28", ErrInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := NewStringRecords().DecodeRow([]byte(tt.line))
			assert.False(t, ok)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStringRecords_ReusableAfterError(t *testing.T) {
	dec := NewStringRecords()

	_, _, err := dec.DecodeRow([]byte(`"open`))
	require.Error(t, err)

	got, ok, err := dec.DecodeRow([]byte("x,y"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, got)
}

func TestStringRecords_DoesNotRetainSpan(t *testing.T) {
	dec := NewStringRecords()
	line := []byte("abc,def")

	got, _, err := dec.DecodeRow(line)
	require.NoError(t, err)

	copy(line, "zzzzzzz")
	assert.Equal(t, []string{"abc", "def"}, got)
}
