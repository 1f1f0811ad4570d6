// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/techbuddy-dev/techbuddy/internal/feedback"
	"github.com/techbuddy-dev/techbuddy/internal/session"
	"github.com/techbuddy-dev/techbuddy/internal/tutorial"
	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

// genericChatFailure is the only failure detail chat callers see; the
// underlying error codes stay in the logs.
const genericChatFailure = "Failed to process chat message. Please try again."

func (s *Server) registerRoutes() {
	// Chat endpoints
	huma.Register(s.api, huma.Operation{
		OperationID: "chat",
		Method:      http.MethodPost,
		Path:        "/api/v1/chat",
		Summary:     "Send a chat message",
		Tags:        []string{"chat"},
	}, s.handleChat)

	huma.Register(s.api, huma.Operation{
		OperationID: "chat-with-image",
		Method:      http.MethodPost,
		Path:        "/api/v1/chat/image",
		Summary:     "Send a chat message with an uploaded image attached",
		Tags:        []string{"chat"},
	}, s.handleChatWithImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "clear-chat",
		Method:      http.MethodPost,
		Path:        "/api/v1/chat/clear",
		Summary:     "Clear a session's conversation history",
		Tags:        []string{"chat"},
	}, s.handleClearChat)

	// Feedback endpoints
	huma.Register(s.api, huma.Operation{
		OperationID: "submit-feedback",
		Method:      http.MethodPost,
		Path:        "/api/v1/feedback",
		Summary:     "Submit feedback",
		Tags:        []string{"feedback"},
	}, s.handleSubmitFeedback)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-feedback",
		Method:      http.MethodGet,
		Path:        "/api/v1/feedback",
		Summary:     "List all feedback",
		Tags:        []string{"feedback"},
	}, s.handleListFeedback)

	// Tutorial endpoints
	huma.Register(s.api, huma.Operation{
		OperationID: "list-tutorials",
		Method:      http.MethodGet,
		Path:        "/api/v1/tutorials",
		Summary:     "List available tutorials",
		Tags:        []string{"tutorials"},
	}, s.handleListTutorials)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-tutorial",
		Method:      http.MethodGet,
		Path:        "/api/v1/tutorials/{id}",
		Summary:     "Get tutorial details",
		Tags:        []string{"tutorials"},
	}, s.handleGetTutorial)
}

// --- Request/Response types for huma ---

type chatInput struct {
	Body struct {
		Message     string `json:"message" minLength:"1" doc:"User message"`
		SessionID   string `json:"session_id,omitempty" doc:"Session key; defaults to a shared session"`
		Language    string `json:"language,omitempty" doc:"Preferred reply language (en, hi)"`
		FileContext string `json:"file_context,omitempty" doc:"Extracted document text to include as context"`
	}
}

type chatOutput struct {
	Body struct {
		Response  string    `json:"response" doc:"Assistant reply"`
		SessionID string    `json:"session_id" doc:"Session used"`
		Timestamp time.Time `json:"timestamp" doc:"Server time of the reply"`
	}
}

type chatWithImageInput struct {
	Body struct {
		Message   string `json:"message" minLength:"1" doc:"User message"`
		SessionID string `json:"session_id,omitempty" doc:"Session key; defaults to a shared session"`
		Language  string `json:"language,omitempty" doc:"Preferred reply language (en, hi)"`
		UploadID  string `json:"upload_id,omitempty" doc:"ID of a previously uploaded image"`
	}
}

type clearChatInput struct {
	Body struct {
		SessionID string `json:"session_id,omitempty" doc:"Session key; defaults to a shared session"`
	}
}

type clearChatOutput struct {
	Body struct {
		Message   string    `json:"message" doc:"Acknowledgement"`
		SessionID string    `json:"session_id" doc:"Session cleared"`
		Timestamp time.Time `json:"timestamp"`
	}
}

type submitFeedbackInput struct {
	Body struct {
		Name     string `json:"name" minLength:"1" doc:"Submitter name"`
		Email    string `json:"email" minLength:"1" doc:"Submitter email"`
		Category string `json:"category" minLength:"1" doc:"Feedback category"`
		Rating   int    `json:"rating,omitempty" minimum:"0" maximum:"5" doc:"Optional rating"`
		Message  string `json:"message" minLength:"1" doc:"Feedback text"`
	}
}

type submitFeedbackOutput struct {
	Body struct {
		Message    string    `json:"message" doc:"Acknowledgement"`
		FeedbackID int       `json:"feedback_id" doc:"Assigned feedback ID"`
		Timestamp  time.Time `json:"timestamp"`
	}
}

type listFeedbackOutput struct {
	Body struct {
		Feedback   []feedback.Entry `json:"feedback"`
		TotalCount int              `json:"total_count"`
	}
}

type listTutorialsOutput struct {
	Body struct {
		Tutorials  []tutorial.Tutorial `json:"tutorials"`
		TotalCount int                 `json:"total_count"`
	}
}

type getTutorialInput struct {
	ID string `path:"id"`
}

type getTutorialOutput struct {
	Body tutorial.Tutorial
}

// --- Handlers ---

func (s *Server) handleChat(ctx context.Context, input *chatInput) (*chatOutput, error) {
	return s.runChat(ctx, session.MessageRequest{
		SessionID:   input.Body.SessionID,
		Message:     input.Body.Message,
		Language:    input.Body.Language,
		FileContext: input.Body.FileContext,
	})
}

func (s *Server) handleChatWithImage(ctx context.Context, input *chatWithImageInput) (*chatOutput, error) {
	req := session.MessageRequest{
		SessionID: input.Body.SessionID,
		Message:   input.Body.Message,
		Language:  input.Body.Language,
	}

	if input.Body.UploadID != "" {
		blob, err := s.services.Uploads().Attachment(input.Body.UploadID)
		if err != nil {
			// Attachment failures degrade to a text-only turn.
			slog.Warn("attachment unavailable, proceeding text-only",
				"upload_id", input.Body.UploadID,
				"code", tberr.CodeOf(err),
				"error", err,
			)
		} else {
			req.Attachment = blob
		}
	}

	return s.runChat(ctx, req)
}

func (s *Server) runChat(ctx context.Context, req session.MessageRequest) (*chatOutput, error) {
	reply, err := s.services.Chat().HandleMessage(ctx, req)
	if err != nil {
		return nil, huma.Error500InternalServerError(genericChatFailure)
	}

	out := &chatOutput{}
	out.Body.Response = reply
	out.Body.SessionID = sessionOrDefault(req.SessionID)
	out.Body.Timestamp = time.Now().UTC()
	return out, nil
}

func (s *Server) handleClearChat(_ context.Context, input *clearChatInput) (*clearChatOutput, error) {
	s.services.Chat().HandleClear(input.Body.SessionID)

	out := &clearChatOutput{}
	out.Body.Message = "Chat history cleared"
	out.Body.SessionID = sessionOrDefault(input.Body.SessionID)
	out.Body.Timestamp = time.Now().UTC()
	return out, nil
}

func (s *Server) handleSubmitFeedback(_ context.Context, input *submitFeedbackInput) (*submitFeedbackOutput, error) {
	entry, err := s.services.Feedback().Submit(feedback.Entry{
		Name:     input.Body.Name,
		Email:    input.Body.Email,
		Category: input.Body.Category,
		Rating:   input.Body.Rating,
		Message:  input.Body.Message,
	})
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	out := &submitFeedbackOutput{}
	out.Body.Message = "Feedback submitted successfully! Thank you for helping us improve."
	out.Body.FeedbackID = entry.ID
	out.Body.Timestamp = entry.ReceivedAt
	return out, nil
}

func (s *Server) handleListFeedback(_ context.Context, _ *struct{}) (*listFeedbackOutput, error) {
	entries := s.services.Feedback().List()

	out := &listFeedbackOutput{}
	out.Body.Feedback = entries
	out.Body.TotalCount = len(entries)
	return out, nil
}

func (s *Server) handleListTutorials(_ context.Context, _ *struct{}) (*listTutorialsOutput, error) {
	tutorials := s.services.Tutorials().List()

	out := &listTutorialsOutput{}
	out.Body.Tutorials = tutorials
	out.Body.TotalCount = len(tutorials)
	return out, nil
}

func (s *Server) handleGetTutorial(_ context.Context, input *getTutorialInput) (*getTutorialOutput, error) {
	t, err := s.services.Tutorials().Get(input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("tutorial not found")
	}
	return &getTutorialOutput{Body: t}, nil
}

func sessionOrDefault(id string) string {
	if id == "" {
		return session.DefaultID
	}
	return id
}
