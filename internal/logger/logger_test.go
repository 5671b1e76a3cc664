package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesToFile(t *testing.T) {
	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "logs", "screener.log")

	err := Init(Options{Level: "debug", File: logFile})
	require.NoError(t, err)

	log.Info().Str("candidate", "alice").Msg("scored candidate")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scored candidate")
	assert.Contains(t, string(data), "alice")
}

func TestInit_InvalidLevelDefaultsToInfo(t *testing.T) {
	err := Init(Options{Level: "shouty"})
	require.NoError(t, err)

	assert.Equal(t, zerolog.InfoLevel, Get().GetLevel())
}

func TestInit_LevelParsed(t *testing.T) {
	err := Init(Options{Level: "warn"})
	require.NoError(t, err)

	assert.Equal(t, zerolog.WarnLevel, Get().GetLevel())
}
