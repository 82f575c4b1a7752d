// Package config handles planvault configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/planvault/internal/plans"
	"github.com/aidanlsb/planvault/internal/vault/restapi"
)

// Backends.
const (
	BackendREST  = "rest"
	BackendLocal = "local"
)

// Config represents the planvault configuration file.
type Config struct {
	Vault VaultConfig `toml:"vault"`
	Plans PlansConfig `toml:"plans"`
	Log   LogConfig   `toml:"log"`
}

// VaultConfig selects and configures the vault backend.
type VaultConfig struct {
	// Backend is "rest" (Obsidian Local REST API) or "local" (a vault directory on disk).
	Backend string `toml:"backend" validate:"oneof=rest local"`

	// URL is the REST API base URL.
	URL string `toml:"url" validate:"required_if=Backend rest"`

	// APIKey is sent as a bearer token. Prefer PLANVAULT_API_KEY over storing it here.
	APIKey string `toml:"api_key"`

	// InsecureSkipVerify accepts the plugin's self-signed certificate.
	InsecureSkipVerify bool `toml:"insecure_skip_verify"`

	// Path is the vault directory for the local backend.
	Path string `toml:"path" validate:"required_if=Backend local"`

	// Timeout bounds each REST request. Zero means no timeout.
	Timeout Duration `toml:"timeout"`
}

// PlansConfig names the managed folders and how documents are encoded.
type PlansConfig struct {
	plans.Layout

	// Codec is the frontmatter codec: "line" or "yaml".
	Codec string `toml:"codec" validate:"omitempty,oneof=line yaml"`

	// Timezone is the IANA zone that defines "today" for dates and expiry.
	Timezone string `toml:"timezone" validate:"omitempty,timezone"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `toml:"format" validate:"omitempty,oneof=console json"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if v < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", s)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Vault: VaultConfig{
			Backend:            BackendREST,
			URL:                restapi.DefaultBaseURL,
			InsecureSkipVerify: true,
		},
		Plans: PlansConfig{
			Layout:   plans.DefaultLayout(),
			Codec:    "line",
			Timezone: "UTC",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads the configuration from the default location, applies
// environment overrides and validates the result.
// Returns the default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.ApplyEnv(os.LookupEnv)
		return cfg, cfg.Validate()
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path. Keys missing from
// the file keep their defaults; unknown keys are rejected.
func LoadFrom(path string) (*Config, error) {
	cfg, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeFile(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Plans.Layout = cfg.Plans.Layout.WithDefaults()
	return cfg, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/planvault/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if xdgPath, err := XDGPath(); err == nil {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "planvault", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/planvault/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "planvault", "config.toml"), nil
}
