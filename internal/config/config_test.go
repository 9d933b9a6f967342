package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutAPIURLDefersToValidate(t *testing.T) {
	t.Setenv("BLOGLIST_API_URL", "")
	t.Setenv("BLOGLIST_DEMO", "")
	t.Setenv("BLOGLIST_CREDENTIALS_FILE", "/tmp/creds.json")

	// Load succeeds so callers can merge flag overrides first.
	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BLOGLIST_API_URL")
}

func TestValidateAcceptsURLOrDemo(t *testing.T) {
	assert.NoError(t, (&Config{APIURL: "http://localhost:3003"}).Validate())
	assert.NoError(t, (&Config{Demo: true}).Validate())
	assert.Error(t, (&Config{}).Validate())
}

func TestLoadDemoModeNeedsNoURL(t *testing.T) {
	t.Setenv("BLOGLIST_API_URL", "")
	t.Setenv("BLOGLIST_DEMO", "1")
	t.Setenv("BLOGLIST_CREDENTIALS_FILE", "/tmp/creds.json")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.Demo)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "/tmp/creds.json", cfg.CredentialsFile)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BLOGLIST_API_URL", "http://localhost:3003")
	t.Setenv("BLOGLIST_CREDENTIALS_FILE", "/tmp/creds.json")
	t.Setenv("BLOGLIST_LOG_LEVEL", "")
	t.Setenv("BLOGLIST_LOG_FORMAT", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3003", cfg.APIURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.Demo)
}

func TestLoadDefaultCredentialsFile(t *testing.T) {
	t.Setenv("BLOGLIST_API_URL", "http://localhost:3003")
	t.Setenv("BLOGLIST_CREDENTIALS_FILE", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Contains(t, cfg.CredentialsFile, "bloglist")
	assert.Contains(t, cfg.CredentialsFile, "session.json")
}
