// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package provider

import (
	"context"
)

// Client is the interface to a generative model backend.
type Client interface {
	Name() string
	Available(ctx context.Context) bool
	// Generate sends the payload to the model and returns the text response.
	Generate(ctx context.Context, payload Payload) (string, error)
	Close() error
}

// Payload is what a Client accepts: either a single text block or an
// ordered sequence of mixed text/binary parts.
type Payload interface {
	isPayload()
}

// TextPayload is a plain text payload.
type TextPayload string

func (TextPayload) isPayload() {}

// MultipartPayload is an ordered sequence of parts. Part order is
// significant and preserved on the wire.
type MultipartPayload []Part

func (MultipartPayload) isPayload() {}

// Part is one element of a multipart payload. Exactly one of Text or
// Blob is set.
type Part struct {
	Text string
	Blob *Blob
}

// Blob is binary content with a declared media type.
type Blob struct {
	MIMEType string
	Data     []byte
}

// TextPart wraps text as a payload part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// BlobPart wraps a blob as a payload part.
func BlobPart(blob *Blob) Part {
	return Part{Blob: blob}
}
