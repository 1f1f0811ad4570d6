// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package tutorial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techbuddy-dev/techbuddy/internal/tutorial"
	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := tutorial.LoadCatalog()
	require.NoError(t, err)
	require.NotNil(t, catalog)

	assert.Equal(t, 6, catalog.Len())

	t.Run("every tutorial is complete", func(t *testing.T) {
		for _, tut := range catalog.List() {
			assert.NotEmpty(t, tut.ID)
			assert.NotEmpty(t, tut.Title, "tutorial %s", tut.ID)
			assert.NotEmpty(t, tut.Description, "tutorial %s", tut.ID)
			assert.NotEmpty(t, tut.Difficulty, "tutorial %s", tut.ID)
			assert.NotEmpty(t, tut.Duration, "tutorial %s", tut.ID)
			assert.NotEmpty(t, tut.Steps, "tutorial %s", tut.ID)
			assert.NotEmpty(t, tut.Tips, "tutorial %s", tut.ID)
		}
	})

	t.Run("list order is stable", func(t *testing.T) {
		first := catalog.List()
		second := catalog.List()
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}
	})
}

func TestCatalog_Get(t *testing.T) {
	catalog, err := tutorial.LoadCatalog()
	require.NoError(t, err)

	t.Run("known id", func(t *testing.T) {
		tut, err := catalog.Get("whatsapp")
		require.NoError(t, err)
		assert.Equal(t, "whatsapp", tut.ID)
		assert.Equal(t, "WhatsApp Basics", tut.Title)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := catalog.Get("quantum-computing")
		require.Error(t, err)
		assert.Equal(t, tberr.CodeTutorialNotFound, tberr.CodeOf(err))
	})
}
