package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreWellFormed(t *testing.T) {
	entries, err := fs.ReadDir(migrations, migrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for _, e := range entries {
		body, err := fs.ReadFile(migrations, migrationsDir+"/"+e.Name())
		require.NoError(t, err)
		text := string(body)
		assert.Contains(t, text, "-- +goose Up", e.Name())
		assert.Contains(t, text, "-- +goose Down", e.Name())
	}

	turns, err := fs.ReadFile(migrations, migrationsDir+"/00002_create_encounter_turns.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(turns), "UNIQUE INDEX IF NOT EXISTS idx_encounter_turns_sequence"))
}
