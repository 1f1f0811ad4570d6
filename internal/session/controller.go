// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package session

import (
	"context"
	"log/slog"

	"github.com/techbuddy-dev/techbuddy/internal/prompt"
	"github.com/techbuddy-dev/techbuddy/internal/provider"
	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

// DefaultPromptWindow is the number of recent turns surfaced to the
// model per call. It is deliberately tighter than the storage capacity:
// the store retains more history than a single call ever sees.
const DefaultPromptWindow = 10

// ControllerConfig tunes a Controller.
type ControllerConfig struct {
	// Preamble is the standing instruction block prefixed to every
	// assembled payload. Empty selects prompt.DefaultPreamble.
	Preamble string
	// PromptWindow caps how many recent turns are included per call.
	// Non-positive selects DefaultPromptWindow.
	PromptWindow int
}

// MessageRequest is one inbound chat turn.
type MessageRequest struct {
	SessionID   string
	Message     string
	Language    string
	FileContext string
	Attachment  *provider.Blob
}

// Controller drives a chat turn: it records the user message, assembles
// the model payload from the session's recent history, invokes the model
// client, and records the reply on success.
type Controller struct {
	store    *Store
	client   provider.Client
	preamble string
	window   int
}

// NewController returns a Controller over the given store and model client.
func NewController(store *Store, client provider.Client, cfg ControllerConfig) *Controller {
	if cfg.Preamble == "" {
		cfg.Preamble = prompt.DefaultPreamble
	}
	if cfg.PromptWindow <= 0 {
		cfg.PromptWindow = DefaultPromptWindow
	}
	return &Controller{
		store:    store,
		client:   client,
		preamble: cfg.Preamble,
		window:   cfg.PromptWindow,
	}
}

// HandleMessage processes one chat turn and returns the assistant reply.
//
// The user turn is recorded before the model is invoked, so a failed
// model call still leaves the question in the log; the assistant turn is
// appended only on success. The history handed to the assembler is a
// copied snapshot of the pre-append window, taken under the session lock
// in the same critical section as the user append, so a concurrent call
// on the same session cannot interleave the read-modify-write. The model
// call itself runs without the lock.
func (c *Controller) HandleMessage(ctx context.Context, req MessageRequest) (string, error) {
	if req.SessionID == "" {
		req.SessionID = DefaultID
	}

	e := c.store.getOrCreate(req.SessionID)

	now := c.store.now()
	e.mu.Lock()
	recent := lastTurns(e.turns, c.window)
	e.turns = appendCapped(e.turns, Turn{Role: RoleUser, Content: req.Message}, c.store.capacity)
	e.lastUsed = now
	e.mu.Unlock()

	payload := prompt.Assemble(prompt.Request{
		Preamble:    c.preamble,
		History:     promptHistory(recent),
		Language:    req.Language,
		FileContext: req.FileContext,
		Attachment:  req.Attachment,
		Message:     req.Message,
	})

	reply, err := c.client.Generate(ctx, payload)
	if err != nil {
		slog.Error("model invocation failed",
			"session_id", req.SessionID,
			"code", tberr.CodeOf(err),
			"error", err,
		)
		return "", tberr.Wrap(err, tberr.CodeChatProcessingFailure,
			"processing chat message", tberr.FieldSessionID(req.SessionID))
	}

	now = c.store.now()
	e.mu.Lock()
	e.turns = appendCapped(e.turns, Turn{Role: RoleAssistant, Content: reply}, c.store.capacity)
	e.lastUsed = now
	e.mu.Unlock()

	return reply, nil
}

// promptHistory converts stored turns into the assembler's transcript
// representation.
func promptHistory(turns []Turn) []prompt.Turn {
	out := make([]prompt.Turn, len(turns))
	for i, t := range turns {
		out[i] = prompt.Turn{Role: string(t.Role), Content: t.Content}
	}
	return out
}

// HandleClear discards the session's history. Clearing an absent session
// is a no-op.
func (c *Controller) HandleClear(sessionID string) {
	if sessionID == "" {
		sessionID = DefaultID
	}
	c.store.Clear(sessionID)
}
