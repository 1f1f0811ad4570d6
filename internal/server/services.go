// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package server

import (
	"context"

	"github.com/techbuddy-dev/techbuddy/internal/feedback"
	"github.com/techbuddy-dev/techbuddy/internal/provider"
	"github.com/techbuddy-dev/techbuddy/internal/session"
	"github.com/techbuddy-dev/techbuddy/internal/tutorial"
	"github.com/techbuddy-dev/techbuddy/internal/upload"
	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

// Services holds dependencies injected into route handlers.
// Each field is an interface so subsystems can be mocked in tests.
// Use NewServices to ensure all required services are provided.
type Services struct {
	chat      ChatService
	voice     VoiceService
	uploads   UploadService
	feedback  FeedbackService
	tutorials TutorialService
	model     ModelHealth // optional; nil = health omits model availability
}

// NewServices creates a Services instance with validation.
// Returns an error if any required service is nil. The optional model
// variadic parameter sets the model health reporter.
func NewServices(chat ChatService, voice VoiceService, uploads UploadService, fb FeedbackService, tutorials TutorialService, model ...ModelHealth) (*Services, error) {
	if chat == nil {
		return nil, tberr.New(tberr.CodeServerConfigInvalid, "chat service is required")
	}
	if voice == nil {
		return nil, tberr.New(tberr.CodeServerConfigInvalid, "voice service is required")
	}
	if uploads == nil {
		return nil, tberr.New(tberr.CodeServerConfigInvalid, "upload service is required")
	}
	if fb == nil {
		return nil, tberr.New(tberr.CodeServerConfigInvalid, "feedback service is required")
	}
	if tutorials == nil {
		return nil, tberr.New(tberr.CodeServerConfigInvalid, "tutorial service is required")
	}
	if len(model) > 1 {
		return nil, tberr.New(tberr.CodeServerConfigInvalid, "at most one model health reporter may be supplied")
	}

	s := &Services{
		chat:      chat,
		voice:     voice,
		uploads:   uploads,
		feedback:  fb,
		tutorials: tutorials,
	}
	if len(model) > 0 && model[0] != nil {
		s.model = model[0]
	}
	return s, nil
}

// Chat returns the chat service.
func (s *Services) Chat() ChatService { return s.chat }

// Voice returns the voice service.
func (s *Services) Voice() VoiceService { return s.voice }

// Uploads returns the upload service.
func (s *Services) Uploads() UploadService { return s.uploads }

// Feedback returns the feedback service.
func (s *Services) Feedback() FeedbackService { return s.feedback }

// Tutorials returns the tutorial service.
func (s *Services) Tutorials() TutorialService { return s.tutorials }

// Model returns the optional model health reporter; nil when unset.
func (s *Services) Model() ModelHealth { return s.model }

// ChatService drives conversation turns for REST handlers.
type ChatService interface {
	HandleMessage(ctx context.Context, req session.MessageRequest) (string, error)
	HandleClear(sessionID string)
}

// VoiceService converts uploaded audio to text.
type VoiceService interface {
	Transcribe(ctx context.Context, audio []byte, mimeType, language string) (string, error)
}

// UploadService stores files and encodes image attachments.
type UploadService interface {
	Save(name string, data []byte) (upload.Entry, error)
	Get(id string) (upload.Entry, error)
	Attachment(id string) (*provider.Blob, error)
}

// FeedbackService records and lists feedback submissions.
type FeedbackService interface {
	Submit(e feedback.Entry) (feedback.Entry, error)
	List() []feedback.Entry
}

// TutorialService serves the static tutorial catalog.
type TutorialService interface {
	List() []tutorial.Tutorial
	Get(id string) (tutorial.Tutorial, error)
}

// ModelHealth reports whether the model client is currently usable.
type ModelHealth interface {
	Available(ctx context.Context) bool
}

// NewServicesForTest creates a Services instance for testing. It
// delegates to NewServices to enforce the same validation invariants as
// production code and panics if a required service is missing.
func NewServicesForTest(chat ChatService, voice VoiceService, uploads UploadService, fb FeedbackService, tutorials TutorialService, model ...ModelHealth) *Services {
	svc, err := NewServices(chat, voice, uploads, fb, tutorials, model...)
	if err != nil {
		panic(err)
	}
	return svc
}
