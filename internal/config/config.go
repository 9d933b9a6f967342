// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	APIURL          string
	CredentialsFile string
	LogLevel        string
	LogFormat       string
	Demo            bool
}

func Load() (*Config, error) {
	cfg := &Config{
		APIURL:          getEnv("BLOGLIST_API_URL", ""),
		CredentialsFile: getEnv("BLOGLIST_CREDENTIALS_FILE", ""),
		LogLevel:        getEnv("BLOGLIST_LOG_LEVEL", "info"),
		LogFormat:       getEnv("BLOGLIST_LOG_FORMAT", "text"),
		Demo:            getEnv("BLOGLIST_DEMO", "") != "",
	}

	if cfg.CredentialsFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("BLOGLIST_CREDENTIALS_FILE is required when no user config dir is available: %w", err)
		}
		cfg.CredentialsFile = filepath.Join(dir, "bloglist", "session.json")
	}

	return cfg, nil
}

// Validate checks the final configuration. It runs after command-line
// overrides are merged in, so a flag can satisfy a requirement the
// environment left open.
func (c *Config) Validate() error {
	if c.APIURL == "" && !c.Demo {
		return fmt.Errorf("BLOGLIST_API_URL is required (or set BLOGLIST_DEMO=1)")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
