// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

// Package upload stores uploaded files on disk and encodes image
// uploads as binary attachments for the model client.
package upload

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/techbuddy-dev/techbuddy/internal/extract"
	"github.com/techbuddy-dev/techbuddy/internal/provider"
	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

// DefaultMaxBytes caps uploads at 16 MiB.
const DefaultMaxBytes = 16 << 20

// allowedKinds is the upload extension allow-list.
var allowedKinds = map[string]bool{
	"txt": true, "pdf": true,
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"doc": true, "docx": true,
	"mp3": true, "wav": true, "ogg": true, "m4a": true, "webm": true,
}

var imageKinds = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
}

var mediaTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"m4a":  "audio/mp4",
	"webm": "audio/webm",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
}

// Entry describes one stored upload.
type Entry struct {
	ID         string    `json:"id"`
	Name       string    `json:"filename"`
	Kind       string    `json:"type"`
	Size       int64     `json:"size"`
	Preview    string    `json:"content_preview"`
	IsImage    bool      `json:"is_image"`
	UploadedAt time.Time `json:"uploaded_at"`

	storedPath string
}

// Store keeps uploads on disk under a single directory and an in-memory
// index from upload ID to entry. The index is process-local like the
// rest of the service's state.
type Store struct {
	dir      string
	maxBytes int64

	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStore creates the upload directory if needed and returns a Store.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, tberr.Wrapf(err, tberr.CodeUploadWriteFailure, "creating upload directory %s", dir)
	}
	return &Store{
		dir:      dir,
		maxBytes: maxBytes,
		entries:  make(map[string]Entry),
	}, nil
}

// Kind returns the lowercase extension of name, without the dot.
func Kind(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return strings.ToLower(ext)
}

// MediaType maps an upload kind to its media type; empty when unknown.
func MediaType(kind string) string {
	return mediaTypes[strings.ToLower(kind)]
}

// Save validates and stores an upload, returning its entry. Text and
// PDF uploads get a content preview; image uploads are marked so the
// chat layer can attach them to model calls.
func (s *Store) Save(name string, data []byte) (Entry, error) {
	kind := Kind(name)
	if !allowedKinds[kind] {
		return Entry{}, tberr.Errorf(tberr.CodeUploadTypeDenied,
			"file type %q is not allowed", kind)
	}
	if int64(len(data)) > s.maxBytes {
		return Entry{}, tberr.Errorf(tberr.CodeUploadTooLarge,
			"upload of %d bytes exceeds limit of %d", len(data), s.maxBytes)
	}

	id := uuid.New().String()
	storedName := time.Now().UTC().Format("20060102_150405") + "_" + id + "." + kind
	storedPath := filepath.Join(s.dir, storedName)

	if err := os.WriteFile(storedPath, data, 0o644); err != nil {
		return Entry{}, tberr.Wrapf(err, tberr.CodeUploadWriteFailure, "writing upload %s", name)
	}

	entry := Entry{
		ID:         id,
		Name:       filepath.Base(name),
		Kind:       kind,
		Size:       int64(len(data)),
		IsImage:    imageKinds[kind],
		UploadedAt: time.Now().UTC(),
		storedPath: storedPath,
	}

	if entry.IsImage {
		entry.Preview = "Image file uploaded: " + entry.Name
	} else {
		entry.Preview = extract.Text(data, kind, entry.Name)
	}

	s.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()

	return entry, nil
}

// Get looks up a stored upload by ID.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, tberr.New(tberr.CodeUploadNotFound, "upload not found", tberr.FieldUploadID(id))
	}
	return entry, nil
}

// Attachment reads the stored upload back and encodes it as a binary
// attachment for the model client.
func (s *Store) Attachment(id string) (*provider.Blob, error) {
	entry, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	mediaType := MediaType(entry.Kind)
	if mediaType == "" {
		return nil, tberr.Errorf(tberr.CodeAttachmentEncodeFailure,
			"no media type for upload kind %q", entry.Kind)
	}

	data, err := os.ReadFile(entry.storedPath)
	if err != nil {
		return nil, tberr.Wrapf(err, tberr.CodeAttachmentReadFailure, "reading upload %s", entry.ID)
	}

	return &provider.Blob{MIMEType: mediaType, Data: data}, nil
}
