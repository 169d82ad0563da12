package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches the working directory for the duration of the test.
// Equivalent to t.Chdir, which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Assistant.BaseURL)
	assert.Equal(t, "/assistant/process", cfg.Assistant.CommandPath)
	assert.Equal(t, "/assistant/process/upload", cfg.Assistant.UploadPath)
	assert.Equal(t, 5*time.Second, cfg.Capture.MaxDuration)
	assert.Equal(t, 16000, cfg.Capture.SampleRate)
	assert.Equal(t, "pt-BR", cfg.UI.Language)
	assert.Equal(t, "converso.history", cfg.Storage.Namespace)
	assert.NotEmpty(t, cfg.Storage.Path)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "converso.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
assistant:
  base_url: https://assistant.example.com
capture:
  max_duration: 8s
ui:
  language: ar-SA
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://assistant.example.com", cfg.Assistant.BaseURL)
	assert.Equal(t, 8*time.Second, cfg.Capture.MaxDuration)
	assert.Equal(t, "ar-SA", cfg.UI.Language)
	// Unset keys keep their defaults.
	assert.Equal(t, "/feedback/", cfg.Assistant.FeedbackPath)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONVERSO_UI_LANGUAGE", "en-US")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "en-US", cfg.UI.Language)
}

func TestAPIKeyEnvRef(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "converso.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
assistant:
  api_key: ${CONVERSO_TEST_TOKEN}
`), 0o644))
	t.Setenv("CONVERSO_TEST_TOKEN", "secret-token")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Assistant.APIKey)
}
