// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package provider_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techbuddy-dev/techbuddy/internal/provider"
)

func TestNewHealthTracker(t *testing.T) {
	t.Run("starts healthy", func(t *testing.T) {
		h, err := provider.NewHealthTracker(provider.DefaultHealthCooldown)
		require.NoError(t, err)
		assert.True(t, h.IsHealthy())
		assert.Zero(t, h.FailureCount())
	})

	t.Run("rejects non-positive cooldown", func(t *testing.T) {
		_, err := provider.NewHealthTracker(0)
		assert.Error(t, err)

		_, err = provider.NewHealthTracker(-time.Second)
		assert.Error(t, err)
	})
}

func TestHealthTracker_FailureAndRecovery(t *testing.T) {
	h, err := provider.NewHealthTracker(30 * time.Second)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.SetNowFunc(func() time.Time { return now })

	h.RecordFailure()
	assert.False(t, h.IsHealthy())
	assert.Equal(t, int64(1), h.FailureCount())

	// Still inside the cooldown window.
	now = now.Add(29 * time.Second)
	assert.False(t, h.IsHealthy())

	// Cooldown elapsed: eligible for retry even without a success.
	now = now.Add(time.Second)
	assert.True(t, h.IsHealthy())
}

func TestHealthTracker_RecordSuccessResets(t *testing.T) {
	h, err := provider.NewHealthTracker(time.Minute)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.SetNowFunc(func() time.Time { return now })

	h.RecordFailure()
	h.RecordFailure()
	assert.False(t, h.IsHealthy())
	assert.Equal(t, int64(2), h.FailureCount())

	h.RecordSuccess()
	assert.True(t, h.IsHealthy())
	// The cumulative count is not reset by a success.
	assert.Equal(t, int64(2), h.FailureCount())
}
