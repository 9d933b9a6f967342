package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	prevURL, prevDemo := flagAPIURL, flagDemo
	t.Cleanup(func() {
		flagAPIURL, flagDemo = prevURL, prevDemo
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BLOGLIST_API_URL", "")
	t.Setenv("BLOGLIST_DEMO", "")
	t.Setenv("BLOGLIST_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "session.json"))
}

func TestLoadConfigFlagOnlyInvocation(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	flagAPIURL = "http://blog.example.com"
	flagDemo = false

	cfg, err := loadConfig()

	require.NoError(t, err, "--api-url alone must be enough to start")
	assert.Equal(t, "http://blog.example.com", cfg.APIURL)
	assert.False(t, cfg.Demo)
}

func TestLoadConfigDemoFlagNeedsNoURL(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	flagAPIURL = ""
	flagDemo = true

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.True(t, cfg.Demo)
	assert.NotEmpty(t, cfg.CredentialsFile)
}

func TestLoadConfigWithoutURLOrDemoFails(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	flagAPIURL = ""
	flagDemo = false

	_, err := loadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "BLOGLIST_API_URL")
}

func TestLoadConfigFlagOverridesEnvURL(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	t.Setenv("BLOGLIST_API_URL", "http://from-env")
	flagAPIURL = "http://from-flag"

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, "http://from-flag", cfg.APIURL)
}
