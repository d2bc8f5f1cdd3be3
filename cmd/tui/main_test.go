package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupKeepsConfigWarnings(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "tui.log")
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "server:\n  port: 70000\nlog:\n  level: loud\n  output: " + logPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", cfgPath)

	cfg, closeLog, err := setup()
	require.NoError(t, err)
	require.NoError(t, closeLog())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Invalid port 70000")
	assert.Contains(t, out, `Invalid log level \"loud\"`)
	assert.Contains(t, out, "Search backend:")
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}
