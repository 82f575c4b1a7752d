package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/aidanlsb/planvault/internal/atomicfile"
)

// SaveTo writes cfg to path atomically. The API key is never persisted;
// supply it through PLANVAULT_API_KEY instead.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = Default()
	}

	out := *cfg
	out.Vault.APIKey = ""

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.WriteFile(afero.NewOsFs(), path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

const defaultConfig = `# planvault configuration

[vault]
# "rest" talks to the Obsidian Local REST API plugin.
# "local" reads and writes a vault directory on disk.
backend = "rest"
url = "https://127.0.0.1:27124"
# The API key is read from PLANVAULT_API_KEY (or a .env file).
insecure_skip_verify = true
# path = "/path/to/vault"
# timeout = "30s"

[plans]
root = "Technical Plans"
inbox = "Inbox"
reviewed = "Reviewed"
archive = "Archive"
marker = ".keep"
codec = "line"
timezone = "UTC"

[log]
level = "info"
format = "console"
`

// CreateDefault writes a commented default config to path if nothing is
// there yet. It reports whether a file was created.
func CreateDefault(path string) (bool, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	if err := atomicfile.WriteFile(afero.NewOsFs(), path, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
