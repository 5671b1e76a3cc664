package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_ListsSubcommands(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "--help").CombinedOutput()
	require.NoError(t, err)

	assert.Contains(t, string(output), "screen")
	assert.Contains(t, string(output), "serve")
	assert.Contains(t, string(output), "web")
	assert.Contains(t, string(output), "--config")
}

func TestRootCommand_BadConfigPath(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "screen", "x.pdf", "--config", "/does/not/exist.yaml").CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to read config")
}

func TestServeCommand_Flags(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "serve", "--help").CombinedOutput()
	require.NoError(t, err)

	assert.Contains(t, string(output), "--port")
	assert.Contains(t, string(output), "--mock")
}

func TestWebCommand_Flags(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "web", "--help").CombinedOutput()
	require.NoError(t, err)

	assert.Contains(t, string(output), "--port")
	assert.Contains(t, string(output), "--backend")
}
