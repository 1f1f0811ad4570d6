// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/techbuddy-dev/techbuddy/internal/config"
	"github.com/techbuddy-dev/techbuddy/internal/feedback"
	googleprov "github.com/techbuddy-dev/techbuddy/internal/provider/google"
	"github.com/techbuddy-dev/techbuddy/internal/server"
	"github.com/techbuddy-dev/techbuddy/internal/session"
	"github.com/techbuddy-dev/techbuddy/internal/speech"
	"github.com/techbuddy-dev/techbuddy/internal/tutorial"
	"github.com/techbuddy-dev/techbuddy/internal/upload"
	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

// purgeInterval is how often the session janitor scans for idle
// sessions when a TTL is configured.
const purgeInterval = time.Minute

// Gateway holds all wired subsystems.
type Gateway struct {
	Server     *server.Server
	Sessions   *session.Store
	Controller *session.Controller
	cfg        *config.Config
}

// WireGateway creates all subsystems and wires them together.
func WireGateway(cfg *config.Config) (*Gateway, error) {
	// 1. Gemini model client.
	model, err := googleprov.New(googleprov.Config{
		APIKey: cfg.Model.APIKey,
		Model:  cfg.Model.Name,
	})
	if err != nil {
		return nil, tberr.Wrapf(err, tberr.CodeCLISetupFailure, "creating model client")
	}

	// 2. Session store and controller.
	sessions := session.NewStore(cfg.Sessions.StoredWindow)
	controller := session.NewController(sessions, model, session.ControllerConfig{
		PromptWindow: cfg.Sessions.PromptWindow,
	})

	// 3. Collaborators.
	transcriber := speech.NewModelTranscriber(model)

	uploads, err := upload.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		return nil, tberr.Wrapf(err, tberr.CodeCLISetupFailure, "creating upload store")
	}

	inbox := feedback.NewInbox()

	catalog, err := tutorial.LoadCatalog()
	if err != nil {
		return nil, tberr.Wrapf(err, tberr.CodeCLISetupFailure, "loading tutorial catalog")
	}

	// 4. HTTP server.
	srv, err := server.New(server.Config{
		ListenAddr:     cfg.Server.Listen,
		CORSOrigins:    cfg.Server.CORSOrigins,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
	})
	if err != nil {
		return nil, tberr.Wrapf(err, tberr.CodeCLISetupFailure, "creating server")
	}

	svc, err := server.NewServices(controller, transcriber, uploads, inbox, catalog, model)
	if err != nil {
		return nil, tberr.Wrapf(err, tberr.CodeCLISetupFailure, "wiring services")
	}
	srv.RegisterServices(svc)

	return &Gateway{
		Server:     srv,
		Sessions:   sessions,
		Controller: controller,
		cfg:        cfg,
	}, nil
}

// Run starts the janitor (when a session TTL is configured) and the
// HTTP server, blocking until the context is cancelled.
func (g *Gateway) Run(ctx context.Context) error {
	if ttl := g.cfg.Sessions.TTL; ttl > 0 {
		go g.janitor(ctx, ttl)
	}
	return g.Server.Start(ctx)
}

func (g *Gateway) janitor(ctx context.Context, ttl time.Duration) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if purged := g.Sessions.PurgeIdle(ttl); purged > 0 {
				slog.Info("purged idle sessions", "count", purged, "ttl", ttl)
			}
		}
	}
}
