package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aidanlsb/planvault/internal/config"
	"github.com/aidanlsb/planvault/internal/testutil"
)

const (
	inboxDir    = "Technical Plans/Inbox"
	reviewedDir = "Technical Plans/Reviewed"
	archiveDir  = "Technical Plans/Archive"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w

	outputCh := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	return <-outputCh
}

// cliEnv is a vault directory on disk with a config pointing at it.
type cliEnv struct {
	vaultDir   string
	configPath string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	for _, key := range []string{config.EnvAPIKey, config.EnvURL, config.EnvVaultPath, config.EnvBackend, config.EnvLogLevel} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	env := &cliEnv{
		vaultDir:   filepath.Join(dir, "vault"),
		configPath: filepath.Join(dir, "config.toml"),
	}
	require.NoError(t, os.MkdirAll(env.vaultDir, 0o755))

	content := fmt.Sprintf("[vault]\nbackend = \"local\"\npath = %q\n\n[log]\nlevel = \"error\"\n", env.vaultDir)
	require.NoError(t, os.WriteFile(env.configPath, []byte(content), 0o644))
	return env
}

func (e *cliEnv) writePlan(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(e.vaultDir, dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func (e *cliEnv) read(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.vaultDir, dir, name))
	require.NoError(t, err)
	return string(data)
}

func (e *cliEnv) exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(e.vaultDir, dir, name))
	return err == nil
}

// run executes the CLI against e's config and returns stdout.
func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, append([]string{"--config", e.configPath}, args...)...)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommandFlags(rootCmd)

	prevStdin, prevClock := stdin, clock
	t.Cleanup(func() {
		stdin, clock = prevStdin, prevClock
		cfg = nil
		logger = zap.NewNop()
		SetPipeFormat(nil)
	})
	stdin = strings.NewReader("")
	clock = testutil.FixedClock(2025, time.January, 8)

	rootCmd.SetArgs(args)
	var err error
	out := captureStdout(t, func() {
		err = Execute(context.Background())
	})
	return out, err
}

// resetCommandFlags restores every flag to its default so commands can run
// more than once in one process.
func resetCommandFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetCommandFlags(c)
	}
}
