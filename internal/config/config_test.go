package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SCENEVALIDATOR_CONFIG", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout())
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFile(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
llm:
  api_key: file-key
  model: gemini-2.5-pro
  timeout: 90s
rules:
  path: /etc/scenevalidator/rules.json
history:
  enabled: true
logging:
  debug_mode: true
  level: debug
  categories:
    continuity: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, 90*time.Second, cfg.LLMTimeout())
	assert.Equal(t, "/etc/scenevalidator/rules.json", cfg.Rules.Path)
	assert.True(t, cfg.History.Enabled)
	assert.True(t, cfg.Logging.DebugMode)
	assert.False(t, cfg.Logging.Categories["continuity"])

	// Keys absent from the file keep their defaults.
	assert.Equal(t, filepath.Join(".scenevalidator", "history.db"), cfg.History.Path)
}

func TestEnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GEMINI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  api_key: file-key\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.LLM.APIKey, "environment must win over the file")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
}

func TestLoadMalformedFile(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLLMTimeoutFallback(t *testing.T) {
	cfg := Default()
	cfg.LLM.Timeout = "not-a-duration"
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout())

	cfg.LLM.Timeout = "-5s"
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout())
}
