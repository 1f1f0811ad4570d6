// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

// Package speech converts recorded audio into text by delegating to the
// generative model client.
package speech

import (
	"context"
	"strings"

	"github.com/techbuddy-dev/techbuddy/internal/provider"
	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

// Transcriber converts audio bytes into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType, language string) (string, error)
}

// unintelligibleMarker is what the model is instructed to emit when the
// speech cannot be made out. Matched case-insensitively on the trimmed
// response.
const unintelligibleMarker = "[unintelligible]"

// ModelTranscriber implements Transcriber on a multimodal model client:
// the audio travels as an inline blob alongside a transcription
// instruction.
type ModelTranscriber struct {
	client provider.Client
}

// NewModelTranscriber returns a ModelTranscriber over the given client.
func NewModelTranscriber(client provider.Client) *ModelTranscriber {
	return &ModelTranscriber{client: client}
}

// Transcribe returns the verbatim transcript of the recording. It fails
// with speech.transcribe.unintelligible when the model cannot make out
// the speech and speech.service.unavailable when the model call fails.
func (t *ModelTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType, language string) (string, error) {
	if len(audio) == 0 {
		return "", tberr.New(tberr.CodeSpeechRequestInvalid, "empty audio input")
	}
	if mimeType == "" {
		mimeType = "audio/wav"
	}

	payload := provider.MultipartPayload{
		provider.TextPart(instruction(language)),
		provider.BlobPart(&provider.Blob{MIMEType: mimeType, Data: audio}),
	}

	reply, err := t.client.Generate(ctx, payload)
	if err != nil {
		return "", tberr.Wrap(err, tberr.CodeSpeechServiceUnavailable, "transcribing audio")
	}

	text := strings.TrimSpace(reply)
	if text == "" || strings.EqualFold(text, unintelligibleMarker) {
		return "", tberr.New(tberr.CodeSpeechUnintelligible,
			"could not understand the audio")
	}

	return text, nil
}

func instruction(language string) string {
	var b strings.Builder
	b.WriteString("Transcribe the following audio recording verbatim. ")
	b.WriteString("Return only the spoken words, with no commentary. ")
	if language == "hi" {
		b.WriteString("The speech is in Hindi; transcribe it in Devanagari script. ")
	} else {
		b.WriteString("The speech is in English. ")
	}
	b.WriteString("If the speech cannot be made out, respond with exactly " + unintelligibleMarker + ".")
	return b.String()
}
