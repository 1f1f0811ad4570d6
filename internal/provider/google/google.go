// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package google

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/techbuddy-dev/techbuddy/internal/provider"
	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Config holds Google client configuration.
type Config struct {
	APIKey string
	Model  string
}

// Client implements provider.Client using the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
	health *provider.HealthTracker
}

// New creates a new Google client. Returns an error if the API key is missing.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, tberr.New(tberr.CodeModelRequestInvalid, "google: missing api_key in config", tberr.FieldModel(cfg.Model))
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, tberr.Wrapf(err, tberr.CodeModelUpstreamFailure, "google: creating client")
	}

	health, err := provider.NewHealthTracker(provider.DefaultHealthCooldown)
	if err != nil {
		return nil, tberr.Wrapf(err, tberr.CodeModelRequestInvalid, "google: creating health tracker")
	}

	return &Client{
		client: client,
		model:  cfg.Model,
		health: health,
	}, nil
}

func (c *Client) Name() string { return "google" }

func (c *Client) Available(_ context.Context) bool {
	return c.health.IsHealthy()
}

func (c *Client) Close() error { return nil }

// Generate sends the payload to the Gemini API and returns the text of
// the first candidate.
func (c *Client) Generate(ctx context.Context, payload Payload) (string, error) {
	contents, err := convertPayload(payload)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		c.health.RecordFailure()
		return "", tberr.Wrapf(err, tberr.CodeModelUpstreamFailure, "google: generating content with %s", c.model)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		c.health.RecordFailure()
		return "", tberr.New(tberr.CodeModelResponseInvalid, "google: empty response", tberr.FieldModel(c.model))
	}

	c.health.RecordSuccess()
	return text, nil
}

// Payload is re-exported so callers constructing requests against this
// package directly do not need a second import.
type Payload = provider.Payload

// convertPayload transforms a provider.Payload into genai.Content slices.
// Both payload shapes become a single user Content; multipart parts keep
// their order, with blobs carried as inline data.
func convertPayload(payload provider.Payload) ([]*genai.Content, error) {
	switch p := payload.(type) {
	case provider.TextPayload:
		return []*genai.Content{
			{
				Role:  "user",
				Parts: []*genai.Part{{Text: string(p)}},
			},
		}, nil
	case provider.MultipartPayload:
		parts := make([]*genai.Part, 0, len(p))
		for _, part := range p {
			if part.Blob != nil {
				parts = append(parts, &genai.Part{
					InlineData: &genai.Blob{
						MIMEType: part.Blob.MIMEType,
						Data:     part.Blob.Data,
					},
				})
				continue
			}
			parts = append(parts, &genai.Part{Text: part.Text})
		}
		return []*genai.Content{{Role: "user", Parts: parts}}, nil
	default:
		return nil, tberr.Errorf(tberr.CodeModelRequestInvalid, "google: unsupported payload type %T", payload)
	}
}
