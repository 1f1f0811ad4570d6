// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

// Package session holds per-session conversation state: the bounded
// in-memory turn log and the controller that drives a chat turn against
// the model client.
package session

import (
	"sync"
	"time"
)

// DefaultID is the session key used when a client does not supply one.
const DefaultID = "default"

// DefaultCapacity is the number of turns retained per session.
const DefaultCapacity = 20

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message in a session's history. Turns are
// immutable once appended; ordering is strictly append-order.
type Turn struct {
	Role    Role
	Content string
}

// Store is an in-memory registry of per-session turn logs. Sessions are
// created lazily on first reference and removed only by Clear (or by
// PurgeIdle when an idle TTL is configured). The registry map is guarded
// by an RWMutex; each session carries its own mutex so traffic on one
// session does not serialize traffic on another.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	capacity int
	nowFunc  func() time.Time // for testing
}

type entry struct {
	mu       sync.Mutex
	turns    []Turn
	lastUsed time.Time
}

// NewStore creates a Store retaining at most capacity turns per session.
// A non-positive capacity falls back to DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		sessions: make(map[string]*entry),
		capacity: capacity,
		nowFunc:  time.Now,
	}
}

// Capacity returns the per-session turn retention limit.
func (s *Store) Capacity() int { return s.capacity }

// getOrCreate returns the session entry, registering it if absent.
func (s *Store) getOrCreate(id string) *entry {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		return e
	}
	e = &entry{lastUsed: s.nowFunc()}
	s.sessions[id] = e
	return e
}

// GetOrCreate returns a copy of the session's turn log, creating and
// registering an empty session if absent.
func (s *Store) GetOrCreate(id string) []Turn {
	e := s.getOrCreate(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyTurns(e.turns)
}

// Append adds a turn to the session's log, creating the session if
// absent. When the log exceeds the store capacity the oldest turns are
// dropped so only the most recent capacity turns remain, in order.
func (s *Store) Append(id string, turn Turn) {
	e := s.getOrCreate(id)
	now := s.now()
	e.mu.Lock()
	e.turns = appendCapped(e.turns, turn, s.capacity)
	e.lastUsed = now
	e.mu.Unlock()
}

// Recent returns a copy of the most recent ≤n turns. An absent session
// yields an empty window without registering the session.
func (s *Store) Recent(id string, n int) []Turn {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || n <= 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return lastTurns(e.turns, n)
}

// Len returns the session's current log length; absent sessions count
// as zero.
func (s *Store) Len(id string) int {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.turns)
}

// Clear removes the session entirely. Clearing an absent session is a
// no-op, not an error.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// PurgeIdle removes sessions that have not been touched for at least
// maxIdle and reports how many were removed.
func (s *Store) PurgeIdle(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := s.nowFunc().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := e.lastUsed.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}

func (s *Store) now() time.Time {
	s.mu.RLock()
	fn := s.nowFunc
	s.mu.RUnlock()
	return fn()
}

// SetNowFunc overrides the time source (for testing).
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	s.nowFunc = fn
	s.mu.Unlock()
}

func appendCapped(turns []Turn, turn Turn, capacity int) []Turn {
	turns = append(turns, turn)
	if len(turns) > capacity {
		keep := turns[len(turns)-capacity:]
		// Reallocate so the dropped prefix does not pin the old backing array.
		trimmed := make([]Turn, capacity)
		copy(trimmed, keep)
		return trimmed
	}
	return turns
}

func lastTurns(turns []Turn, n int) []Turn {
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return copyTurns(turns)
}

func copyTurns(turns []Turn) []Turn {
	if len(turns) == 0 {
		return nil
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
