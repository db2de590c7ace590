package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, 5, cfg.PollMaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.PollDelay)
	assert.NotEmpty(t, cfg.ReputationBaseURL)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("THREATLENS_DB_HOST", "db.internal")
	t.Setenv("THREATLENS_POLL_MAX_ATTEMPTS", "8")
	t.Setenv("THREATLENS_POLL_DELAY", "500ms")
	t.Setenv("THREATLENS_REPUTATION_API_KEY", "vt-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 8, cfg.PollMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.PollDelay)
	assert.Equal(t, "vt-key", cfg.ReputationAPIKey)
}

func TestLoadConfigRejectsBadPollPolicy(t *testing.T) {
	t.Setenv("THREATLENS_POLL_MAX_ATTEMPTS", "0")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestProviderEndpointOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reputation: https://sandbox.example/api\nnews: https://news.sandbox.example\n"), 0644))
	t.Setenv("THREATLENS_PROVIDERS_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://sandbox.example/api", cfg.ReputationBaseURL)
	assert.Equal(t, "https://news.sandbox.example", cfg.NewsBaseURL)
	// Unlisted providers keep their defaults.
	assert.Contains(t, cfg.BreachBaseURL, "breachdirectory")
}

func TestProviderOverridesMissingFile(t *testing.T) {
	t.Setenv("THREATLENS_PROVIDERS_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}
