package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitURLList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"single", "https://img.example/a.jpg", []string{"https://img.example/a.jpg"}},
		{"trims entries", " a.jpg , b.jpg ,c.jpg", []string{"a.jpg", "b.jpg", "c.jpg"}},
		{"drops empties", "a.jpg,,  ,b.jpg,", []string{"a.jpg", "b.jpg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitURLList(tt.raw))
		})
	}
}

func TestEncodeDecodeImages(t *testing.T) {
	urls := []string{"a.jpg", "b.jpg"}
	assert.Equal(t, urls, DecodeImages(EncodeImages(urls)))
	assert.Equal(t, "[]", EncodeImages(nil))
	assert.Equal(t, "[]", EncodeImages([]string{}))
}

func TestDecodeImagesMalformed(t *testing.T) {
	// Malformed stored values must fall back to an empty list, never error.
	for _, stored := range []string{"", "not json", "{\"a\":1}", "[1,2,3]", "null"} {
		assert.Equal(t, []string{}, DecodeImages(stored), "stored=%q", stored)
	}
}
