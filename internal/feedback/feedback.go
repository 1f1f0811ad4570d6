// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

// Package feedback is the in-memory feedback inbox. Entries live for
// the life of the process only.
package feedback

import (
	"strings"
	"sync"
	"time"

	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

// StatusReceived is the only status an entry carries today.
const StatusReceived = "received"

// Entry is one feedback submission.
type Entry struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Category   string    `json:"category"`
	Rating     int       `json:"rating"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"timestamp"`
}

// Inbox collects feedback entries with sequential IDs.
type Inbox struct {
	mu      sync.Mutex
	entries []Entry
	nextID  int
}

// NewInbox returns an empty Inbox.
func NewInbox() *Inbox {
	return &Inbox{nextID: 1}
}

// Submit validates and records a submission, returning the stored entry.
// Name, email, category, and message are required and whitespace-trimmed;
// rating is optional.
func (i *Inbox) Submit(e Entry) (Entry, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	e.Category = strings.TrimSpace(e.Category)
	e.Message = strings.TrimSpace(e.Message)

	for field, value := range map[string]string{
		"name":     e.Name,
		"email":    e.Email,
		"category": e.Category,
		"message":  e.Message,
	} {
		if value == "" {
			return Entry{}, tberr.Errorf(tberr.CodeFeedbackFieldMissing,
				"missing or empty required field: %s", field)
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	e.ID = i.nextID
	i.nextID++
	e.Status = StatusReceived
	e.ReceivedAt = time.Now().UTC()
	i.entries = append(i.entries, e)

	return e, nil
}

// List returns a copy of all entries in submission order.
func (i *Inbox) List() []Entry {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]Entry, len(i.entries))
	copy(out, i.entries)
	return out
}

// Count returns the number of stored entries.
func (i *Inbox) Count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.entries)
}
