// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package session_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techbuddy-dev/techbuddy/internal/session"
)

func userTurn(content string) session.Turn {
	return session.Turn{Role: session.RoleUser, Content: content}
}

func TestStore_GetOrCreate(t *testing.T) {
	s := session.NewStore(20)

	t.Run("absent session yields empty log", func(t *testing.T) {
		log := s.GetOrCreate("fresh")
		assert.Empty(t, log)
	})

	t.Run("registers the session", func(t *testing.T) {
		s.GetOrCreate("registered")
		s.Append("registered", userTurn("hello"))
		assert.Equal(t, 1, s.Len("registered"))
	})

	t.Run("returned log is a copy", func(t *testing.T) {
		s.Append("copied", userTurn("original"))
		log := s.GetOrCreate("copied")
		require.Len(t, log, 1)

		log[0].Content = "mutated"
		assert.Equal(t, "original", s.GetOrCreate("copied")[0].Content)
	})
}

func TestStore_AppendCapsAtCapacity(t *testing.T) {
	s := session.NewStore(20)

	for i := 1; i <= 25; i++ {
		s.Append("s", userTurn(fmt.Sprintf("turn-%d", i)))
	}

	log := s.GetOrCreate("s")
	require.Len(t, log, 20)

	// Turns 6..25 survive, in original append order.
	for i, turn := range log {
		assert.Equal(t, fmt.Sprintf("turn-%d", i+6), turn.Content)
	}
}

func TestStore_AppendBelowCapacity(t *testing.T) {
	s := session.NewStore(20)

	for i := 1; i <= 5; i++ {
		s.Append("s", userTurn(fmt.Sprintf("turn-%d", i)))
	}

	assert.Equal(t, 5, s.Len("s"))
}

func TestStore_Recent(t *testing.T) {
	s := session.NewStore(20)

	for i := 1; i <= 20; i++ {
		s.Append("s", userTurn(fmt.Sprintf("turn-%d", i)))
	}

	t.Run("window is tighter than storage", func(t *testing.T) {
		recent := s.Recent("s", 10)
		require.Len(t, recent, 10)
		assert.Equal(t, "turn-11", recent[0].Content)
		assert.Equal(t, "turn-20", recent[9].Content)
	})

	t.Run("short log returns everything", func(t *testing.T) {
		s.Append("short", userTurn("only"))
		recent := s.Recent("short", 10)
		require.Len(t, recent, 1)
		assert.Equal(t, "only", recent[0].Content)
	})

	t.Run("absent session yields empty window without registering", func(t *testing.T) {
		assert.Empty(t, s.Recent("never-seen", 10))
		assert.Equal(t, 0, s.Len("never-seen"))
	})
}

func TestStore_Clear(t *testing.T) {
	s := session.NewStore(20)

	s.Append("s", userTurn("hello"))
	require.Equal(t, 1, s.Len("s"))

	s.Clear("s")
	assert.Equal(t, 0, s.Len("s"))

	t.Run("clearing twice is a no-op", func(t *testing.T) {
		s.Clear("s")
		assert.Equal(t, 0, s.Len("s"))
	})

	t.Run("clearing a never-created session is a no-op", func(t *testing.T) {
		s.Clear("never-created")
		assert.Equal(t, 0, s.Len("never-created"))
	})
}

func TestStore_ConcurrentAppends(t *testing.T) {
	s := session.NewStore(20)

	const (
		goroutines = 8
		perWorker  = 50
	)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				// Half the workers share one session, the rest get their own.
				id := "shared"
				if g%2 == 1 {
					id = fmt.Sprintf("own-%d", g)
				}
				s.Append(id, userTurn(fmt.Sprintf("w%d-%d", g, i)))
			}
		}(g)
	}
	wg.Wait()

	// The shared session saw 4*50 appends; the cap must hold exactly.
	assert.Equal(t, 20, s.Len("shared"))
	for g := 1; g < goroutines; g += 2 {
		assert.Equal(t, 20, s.Len(fmt.Sprintf("own-%d", g)))
	}
}

func TestStore_PurgeIdle(t *testing.T) {
	s := session.NewStore(20)

	now := time.Now()
	s.SetNowFunc(func() time.Time { return now })

	s.Append("old", userTurn("hello"))

	now = now.Add(time.Hour)
	s.Append("fresh", userTurn("hello"))

	purged := s.PurgeIdle(30 * time.Minute)
	assert.Equal(t, 1, purged)
	assert.Equal(t, 0, s.Len("old"))
	assert.Equal(t, 1, s.Len("fresh"))

	t.Run("zero ttl purges nothing", func(t *testing.T) {
		assert.Equal(t, 0, s.PurgeIdle(0))
	})
}
