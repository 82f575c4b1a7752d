// Package testutil provides reusable test utilities for planvault tests.
package testutil

import (
	"io/fs"
	"path"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/aidanlsb/planvault/internal/vault"
)

// VaultRoot is where test vaults live on their in-memory filesystem.
const VaultRoot = "/vault"

// TestVault is an in-memory vault for testing.
type TestVault struct {
	Fs      afero.Fs
	Gateway *vault.FSGateway
	t       *testing.T
	files   map[string]string
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the vault.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the vault.
// The path is relative to the vault root.
func (v *TestVault) WithFile(relPath, content string) *TestVault {
	v.files[relPath] = content
	return v
}

// WithPlan adds a plan document with the given frontmatter pairs and body.
func (v *TestVault) WithPlan(relPath string, body string, kv ...string) *TestVault {
	content := "---\n"
	for i := 0; i+1 < len(kv); i += 2 {
		content += kv[i] + ": " + kv[i+1] + "\n"
	}
	content += "---\n\n" + body
	return v.WithFile(relPath, content)
}

// Build creates the vault and all configured files.
// Returns the TestVault for method chaining.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	v.Fs = afero.NewMemMapFs()
	if err := v.Fs.MkdirAll(VaultRoot, 0o755); err != nil {
		v.t.Fatalf("failed to create vault root: %v", err)
	}
	for relPath, content := range v.files {
		v.writeFile(relPath, content)
	}
	v.Gateway = vault.NewFSGateway(v.Fs, VaultRoot)
	return v
}

// writeFile writes a file to the vault, creating directories as needed.
func (v *TestVault) writeFile(relPath, content string) {
	v.t.Helper()
	if err := afero.WriteFile(v.Fs, path.Join(VaultRoot, relPath), []byte(content), 0o644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", relPath, err)
	}
}

// WriteFile writes a file into an already built vault.
func (v *TestVault) WriteFile(relPath, content string) {
	v.t.Helper()
	v.writeFile(relPath, content)
}

// ReadFile reads a file from the vault.
// Returns the content as a string.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	content, err := afero.ReadFile(v.Fs, path.Join(VaultRoot, relPath))
	if err != nil {
		v.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the vault.
func (v *TestVault) FileExists(relPath string) bool {
	v.t.Helper()
	_, err := v.Fs.Stat(path.Join(VaultRoot, relPath))
	return err == nil
}

// Snapshot returns every file in the vault keyed by vault-relative path.
func (v *TestVault) Snapshot() map[string]string {
	v.t.Helper()
	out := map[string]string{}
	err := afero.Walk(v.Fs, VaultRoot, func(p string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := afero.ReadFile(v.Fs, p)
		if err != nil {
			return err
		}
		out[p[len(VaultRoot)+1:]] = string(data)
		return nil
	})
	if err != nil {
		v.t.Fatalf("failed to snapshot vault: %v", err)
	}
	return out
}

// FixedClock returns a clock that always reports the given UTC date at noon.
func FixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}
