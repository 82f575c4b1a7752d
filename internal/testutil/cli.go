package testutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	// binaryPath caches the path to the built planvault binary.
	binaryPath string
	buildMu    sync.Mutex
	buildErr   error
)

// CLIResult represents the result of running a CLI command.
type CLIResult struct {
	OK       bool
	Data     map[string]interface{}
	Error    *CLIError
	Meta     *CLIMeta
	RawJSON  string
	ExitCode int
}

// CLIError represents a structured error from the CLI.
type CLIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// CLIMeta contains metadata from the response.
type CLIMeta struct {
	Count int `json:"count"`
}

// BuildCLI builds the planvault binary once per test process and returns
// its path.
func BuildCLI(t *testing.T) string {
	t.Helper()

	buildMu.Lock()
	defer buildMu.Unlock()

	if binaryPath != "" {
		if _, err := os.Stat(binaryPath); err == nil {
			return binaryPath
		}
		binaryPath = ""
		buildErr = nil
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		buildErr = err
	} else {
		tmpDir, err := os.MkdirTemp("", "planvault-cli-bin-*")
		if err != nil {
			buildErr = err
		} else {
			binName := "planvault"
			if runtime.GOOS == "windows" {
				binName = "planvault.exe"
			}

			binaryPath = filepath.Join(tmpDir, binName)
			cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/planvault")
			cmd.Dir = projectRoot
			output, err := cmd.CombinedOutput()
			if err != nil {
				buildErr = &BuildError{Output: string(output), Err: err}
				binaryPath = ""
			}
		}
	}

	if buildErr != nil {
		t.Fatalf("failed to build CLI: %v", buildErr)
	}
	return binaryPath
}

// BuildError represents an error building the CLI binary.
type BuildError struct {
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	return e.Err.Error() + "\n" + e.Output
}

// findProjectRoot walks up the directory tree to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// CLIVault is a vault directory on disk plus a config file selecting the
// local backend, for running the real binary against.
type CLIVault struct {
	Dir        string
	ConfigPath string
	t          *testing.T
}

// NewCLIVault creates an empty on-disk vault and its config.
func NewCLIVault(t *testing.T) *CLIVault {
	t.Helper()
	root := t.TempDir()
	v := &CLIVault{
		Dir:        filepath.Join(root, "vault"),
		ConfigPath: filepath.Join(root, "config.toml"),
		t:          t,
	}
	if err := os.MkdirAll(v.Dir, 0o755); err != nil {
		t.Fatalf("create vault dir: %v", err)
	}
	config := fmt.Sprintf("[vault]\nbackend = \"local\"\npath = %q\n\n[log]\nlevel = \"error\"\n", v.Dir)
	if err := os.WriteFile(v.ConfigPath, []byte(config), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return v
}

// WriteFile writes a vault-relative file.
func (v *CLIVault) WriteFile(relPath, content string) {
	v.t.Helper()
	p := filepath.Join(v.Dir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		v.t.Fatalf("create dir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		v.t.Fatalf("write %s: %v", relPath, err)
	}
}

// FileExists reports whether a vault-relative file exists.
func (v *CLIVault) FileExists(relPath string) bool {
	_, err := os.Stat(filepath.Join(v.Dir, filepath.FromSlash(relPath)))
	return err == nil
}

// Run executes the binary with --config and --json and parses the envelope.
func (v *CLIVault) Run(args ...string) *CLIResult {
	v.t.Helper()
	return v.RunWithStdin("", args...)
}

// RunWithStdin executes a CLI command with stdin input.
func (v *CLIVault) RunWithStdin(stdin string, args ...string) *CLIResult {
	v.t.Helper()
	binary := BuildCLI(v.t)

	cmdArgs := append([]string{"--config", v.ConfigPath, "--json"}, args...)
	cmd := exec.Command(binary, cmdArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = cliEnv()
	output, err := cmd.Output()

	result := &CLIResult{RawJSON: string(output)}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}

	var resp struct {
		OK    bool                   `json:"ok"`
		Data  map[string]interface{} `json:"data,omitempty"`
		Error *CLIError              `json:"error,omitempty"`
		Meta  *CLIMeta               `json:"meta,omitempty"`
	}
	if err := json.Unmarshal(output, &resp); err != nil {
		result.Error = &CLIError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse JSON output: " + err.Error(),
		}
		return result
	}

	result.OK = resp.OK
	result.Data = resp.Data
	result.Error = resp.Error
	result.Meta = resp.Meta
	return result
}

// cliEnv is the parent environment without PLANVAULT_ overrides.
func cliEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "PLANVAULT_") {
			env = append(env, kv)
		}
	}
	return env
}

// MustSucceed fails the test if the CLI command did not succeed.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		errMsg := "unknown error"
		if r.Error != nil {
			errMsg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("expected command to succeed, got error: %s\nRaw output: %s", errMsg, r.RawJSON)
	}
	return r
}

// MustFail fails the test if the CLI command did not fail with the expected code.
func (r *CLIResult) MustFail(t *testing.T, expectedCode string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected command to fail with code %s, but it succeeded\nRaw output: %s", expectedCode, r.RawJSON)
	}
	if r.Error == nil {
		t.Fatalf("expected error with code %s, but error is nil\nRaw output: %s", expectedCode, r.RawJSON)
	}
	if r.Error.Code != expectedCode {
		t.Fatalf("expected error code %s, got %s: %s\nRaw output: %s", expectedCode, r.Error.Code, r.Error.Message, r.RawJSON)
	}
	if r.ExitCode == 0 {
		t.Fatalf("expected non-zero exit code for %s", expectedCode)
	}
	return r
}

// DataString extracts a string from the Data field.
func (r *CLIResult) DataString(key string) string {
	if r.Data == nil {
		return ""
	}
	if s, ok := r.Data[key].(string); ok {
		return s
	}
	return ""
}
