// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

// Package prompt assembles the payload handed to the model client from
// a session's recent history plus the current request.
package prompt

import (
	"fmt"
	"strings"

	"github.com/techbuddy-dev/techbuddy/internal/provider"
)

// hindiDirective is appended when the client asked for Hindi output.
const hindiDirective = "Please respond in Hindi (Devanagari script) when appropriate, but you can use English for technical terms if needed."

// Turn is one role-tagged line of the rendered history transcript.
type Turn struct {
	Role    string
	Content string
}

// Request carries everything the assembler needs for one model call.
// History must already be bounded by the caller; the assembler performs
// no truncation of its own.
type Request struct {
	Preamble    string
	History     []Turn
	Language    string
	FileContext string
	Attachment  *provider.Blob
	Message     string
}

// Assemble renders the composite payload in fixed order: preamble,
// history transcript, file context, language directive, current message,
// then the optional attachment as a trailing binary part. Empty optional
// inputs leave no artifact in the output. The result is a TextPayload
// unless an attachment is present, in which case it is a two-part
// MultipartPayload of [text, blob].
func Assemble(req Request) provider.Payload {
	var b strings.Builder
	b.WriteString(req.Preamble)

	b.WriteString("\n\nConversation History:\n")
	for _, turn := range req.History {
		fmt.Fprintf(&b, "%s: %s\n", capitalize(turn.Role), turn.Content)
	}

	if req.FileContext != "" {
		fmt.Fprintf(&b, "\nFile Context: %s\n", req.FileContext)
	}

	if req.Language == "hi" {
		b.WriteString("\n" + hindiDirective + "\n")
	}

	fmt.Fprintf(&b, "\nCurrent User Message: %s\n", req.Message)

	if req.Attachment == nil {
		return provider.TextPayload(b.String())
	}

	return provider.MultipartPayload{
		provider.TextPart(b.String()),
		provider.BlobPart(req.Attachment),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
