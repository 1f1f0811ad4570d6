// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

// Package extract pulls a bounded text preview out of uploaded
// documents. Extraction failures degrade to a placeholder string rather
// than failing the request.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// MaxPreview bounds the extracted text to the first 2000 characters.
const MaxPreview = 2000

const (
	pdfPlaceholder = "Could not extract text from PDF"
	txtPlaceholder = "Could not read file content"
)

// Text returns a preview of the file's textual content for the given
// kind (lowercase file extension without the dot). Unknown kinds yield a
// short marker naming the file instead of content.
func Text(data []byte, kind, filename string) string {
	switch strings.ToLower(kind) {
	case "txt":
		return textPreview(data)
	case "pdf":
		return pdfPreview(data)
	default:
		return fmt.Sprintf("File uploaded: %s", filename)
	}
}

func textPreview(data []byte) string {
	if !utf8.Valid(data) {
		return txtPlaceholder
	}
	return clip(string(data))
}

func pdfPreview(data []byte) (preview string) {
	// The pdf reader panics on some malformed inputs; contain it so a
	// bad upload degrades to the placeholder instead of killing the
	// request.
	defer func() {
		if recover() != nil {
			preview = pdfPlaceholder
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return pdfPlaceholder
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return pdfPlaceholder
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return pdfPlaceholder
	}
	if strings.TrimSpace(b.String()) == "" {
		return pdfPlaceholder
	}
	return clip(b.String())
}

func clip(s string) string {
	if len(s) <= MaxPreview {
		return s
	}
	// Back off to a rune boundary so multi-byte text is never cut
	// mid-character.
	end := MaxPreview
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}
