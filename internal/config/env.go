package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvAPIKey    = "PLANVAULT_API_KEY"
	EnvURL       = "PLANVAULT_URL"
	EnvVaultPath = "PLANVAULT_VAULT_PATH"
	EnvBackend   = "PLANVAULT_BACKEND"
	EnvLogLevel  = "PLANVAULT_LOG_LEVEL"
)

// LoadEnv loads KEY=value pairs from .env files into the process
// environment. Variables that are already set win. Missing files are
// skipped; with no arguments "./.env" is tried.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overlays environment overrides onto c. Setting only
// PLANVAULT_VAULT_PATH selects the local backend.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvAPIKey); ok {
		c.Vault.APIKey = v
	}
	if v, ok := get(EnvURL); ok {
		c.Vault.URL = v
	}
	if v, ok := get(EnvVaultPath); ok {
		c.Vault.Path = v
		if _, urlSet := get(EnvURL); !urlSet {
			c.Vault.Backend = BackendLocal
		}
	}
	if v, ok := get(EnvBackend); ok {
		c.Vault.Backend = strings.ToLower(v)
	}
	if v, ok := get(EnvLogLevel); ok {
		c.Log.Level = strings.ToLower(v)
	}
}
