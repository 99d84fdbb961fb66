package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DEBUG", "SHUTDOWN_TIMEOUT", "MAX_SESSIONS", "MAX_CELLS_PER_ADD", "RANDOM_SEED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.ServerPort)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 1000, cfg.MaxSessions)
	assert.Equal(t, 20, cfg.MaxCellsPerAdd)
	assert.Equal(t, int64(0), cfg.RandomSeed)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DEBUG", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")
	t.Setenv("MAX_SESSIONS", "3")
	t.Setenv("MAX_CELLS_PER_ADD", "5")
	t.Setenv("RANDOM_SEED", "99")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 3, cfg.MaxSessions)
	assert.Equal(t, 5, cfg.MaxCellsPerAdd)
	assert.Equal(t, int64(99), cfg.RandomSeed)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DEBUG", "maybe")
	t.Setenv("MAX_SESSIONS", "lots")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, 1000, cfg.MaxSessions)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}
