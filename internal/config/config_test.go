package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/errors"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Agents.Model)
	assert.Equal(t, 3, cfg.Loop.MaxIterations)
	assert.Equal(t, 60, cfg.Loop.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Console)
}

func TestLoad_ConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := []byte("agents:\n  model: gpt-4o\nloop:\n  max_iterations: 5\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.Agents.Model)
	assert.Equal(t, 5, cfg.Loop.MaxIterations)
	// Untouched keys keep their defaults.
	assert.Equal(t, 60, cfg.Loop.TimeoutSeconds)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FINSIGHT_AGENTS_MODEL", "gpt-4-turbo")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "gpt-4-turbo", cfg.Agents.Model)
}

func TestLoad_CredentialsFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-123")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sk-test-123", cfg.Credentials.OpenAIAPIKey)
}

func TestLoad_RejectsInvalidIterations(t *testing.T) {
	dir := t.TempDir()
	content := []byte("loop:\n  max_iterations: 0\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigInvalid))
}
