// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/techbuddy-dev/techbuddy/internal/upload"
	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

// registerMultipartRoutes wires the voice and upload endpoints as raw
// chi routes. They need direct multipart access, so they cannot use
// Huma's standard handler signature; the chi routes handle requests and
// the manual OpenAPI entries below document them.
func (s *Server) registerMultipartRoutes() {
	s.router.Post("/api/v1/voice", s.handleVoice)
	s.router.Post("/api/v1/uploads", s.handleUpload)

	s.api.OpenAPI().AddOperation(&huma.Operation{
		OperationID: "voice-to-text",
		Method:      http.MethodPost,
		Path:        "/api/v1/voice",
		Summary:     "Convert an uploaded voice recording to text",
		Description: "Multipart form with an `audio` file part and an optional `language` field (en, hi).",
		Tags:        []string{"voice"},
	})
	s.api.OpenAPI().AddOperation(&huma.Operation{
		OperationID: "upload-file",
		Method:      http.MethodPost,
		Path:        "/api/v1/uploads",
		Summary:     "Upload a file for chat context",
		Description: "Multipart form with a `file` part. Text and PDF uploads get a content preview; images can be attached to chat turns.",
		Tags:        []string{"uploads"},
	})
}

type voiceResponse struct {
	Text      string    `json:"text"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

type uploadResponse struct {
	Message   string       `json:"message"`
	FileInfo  upload.Entry `json:"file_info"`
	SessionID string       `json:"session_id,omitempty"`
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r, "audio")
	if err != nil {
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		writeError(w, tberr.Wrap(err, tberr.CodeServerRequestInvalid, "reading audio part"))
		return
	}
	if int64(len(audio)) > s.cfg.MaxUploadBytes {
		writeError(w, tberr.Errorf(tberr.CodeUploadTooLarge,
			"audio exceeds limit of %d bytes", s.cfg.MaxUploadBytes))
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = "en"
	}

	mimeType := upload.MediaType(upload.Kind(header.Filename))
	if mimeType == "" {
		mimeType = header.Header.Get("Content-Type")
	}

	text, err := s.services.Voice().Transcribe(r.Context(), audio, mimeType, language)
	if err != nil {
		slog.Error("voice transcription failed", "code", tberr.CodeOf(err), "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, voiceResponse{
		Text:      text,
		Language:  language,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r, "file")
	if err != nil {
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		writeError(w, tberr.Wrap(err, tberr.CodeServerRequestInvalid, "reading file part"))
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		writeError(w, tberr.Errorf(tberr.CodeUploadTooLarge,
			"upload exceeds limit of %d bytes", s.cfg.MaxUploadBytes))
		return
	}

	entry, err := s.services.Uploads().Save(header.Filename, data)
	if err != nil {
		slog.Error("upload failed", "filename", header.Filename, "code", tberr.CodeOf(err), "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Message:   "File uploaded successfully",
		FileInfo:  entry,
		SessionID: r.FormValue("session_id"),
	})
}

// formFile parses the multipart form and returns the named file part,
// writing the error response itself on failure.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, tberr.Wrapf(err, tberr.CodeServerRequestInvalid, "parsing multipart form"))
		return nil, nil, err
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		writeError(w, tberr.Errorf(tberr.CodeServerRequestInvalid, "no %s file provided", field))
		return nil, nil, err
	}
	if header.Filename == "" {
		file.Close()
		err := tberr.New(tberr.CodeServerRequestInvalid, "no file selected")
		writeError(w, err)
		return nil, nil, err
	}

	return file, header, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, tberr.HTTPStatus(err), errorResponse{Error: publicMessage(err)})
}

// publicMessage strips internal wrapping from caller-visible errors.
func publicMessage(err error) string {
	switch {
	case tberr.HasCode(err, tberr.CodeSpeechUnintelligible):
		return "Could not understand the audio. Please speak clearly and try again."
	case tberr.HasCode(err, tberr.CodeSpeechServiceUnavailable):
		return "Speech recognition service is currently unavailable."
	default:
		return err.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encoding response", "error", err)
	}
}
