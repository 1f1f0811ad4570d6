// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package extract_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/techbuddy-dev/techbuddy/internal/extract"
)

func TestText_Plain(t *testing.T) {
	t.Run("short text passes through", func(t *testing.T) {
		got := extract.Text([]byte("hello world"), "txt", "notes.txt")
		assert.Equal(t, "hello world", got)
	})

	t.Run("long text is clipped to the preview bound", func(t *testing.T) {
		long := strings.Repeat("a", extract.MaxPreview+500)
		got := extract.Text([]byte(long), "txt", "notes.txt")
		assert.Len(t, got, extract.MaxPreview)
	})

	t.Run("clipping never splits a multi-byte rune", func(t *testing.T) {
		// Devanagari runes are 3 bytes each; the byte bound falls
		// mid-rune.
		long := strings.Repeat("क", 700)
		got := extract.Text([]byte(long), "txt", "notes.txt")

		assert.LessOrEqual(t, len(got), extract.MaxPreview)
		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasPrefix(long, got))
	})

	t.Run("binary garbage degrades to placeholder", func(t *testing.T) {
		got := extract.Text([]byte{0xff, 0xfe, 0x00, 0x80}, "txt", "notes.txt")
		assert.Equal(t, "Could not read file content", got)
	})

	t.Run("kind is case-insensitive", func(t *testing.T) {
		got := extract.Text([]byte("hi"), "TXT", "notes.TXT")
		assert.Equal(t, "hi", got)
	})
}

func TestText_PDF(t *testing.T) {
	t.Run("malformed pdf degrades to placeholder", func(t *testing.T) {
		got := extract.Text([]byte("definitely not a pdf"), "pdf", "doc.pdf")
		assert.Equal(t, "Could not extract text from PDF", got)
	})

	t.Run("empty input degrades to placeholder", func(t *testing.T) {
		got := extract.Text(nil, "pdf", "doc.pdf")
		assert.Equal(t, "Could not extract text from PDF", got)
	})
}

func TestText_OtherKinds(t *testing.T) {
	got := extract.Text([]byte{0x89, 0x50, 0x4e, 0x47}, "png", "photo.png")
	assert.Equal(t, "File uploaded: photo.png", got)
}
