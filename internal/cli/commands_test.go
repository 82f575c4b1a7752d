package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/planvault/internal/config"
)

func decodeResponse(t *testing.T, out string) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func dataMap(t *testing.T, resp Response) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", resp.Data)
	return data
}

func TestInitCreatesFolders(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, inboxDir)

	for _, dir := range []string{inboxDir, reviewedDir, archiveDir} {
		assert.True(t, env.exists(dir, ".keep"), dir)
	}

	_, err = env.run(t, "init")
	require.NoError(t, err)
}

func TestInitWriteConfig(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv(config.EnvVaultPath, env.vaultDir)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := runCLI(t, "--config", path, "--json", "init", "--write-config")
	require.NoError(t, err)
	resp := decodeResponse(t, out)
	require.True(t, resp.OK)
	assert.Equal(t, true, dataMap(t, resp)["config_created"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `backend = "rest"`)
	assert.True(t, env.exists(inboxDir, ".keep"))

	out, err = runCLI(t, "--config", path, "--json", "init", "--write-config")
	require.NoError(t, err)
	assert.Equal(t, false, dataMap(t, decodeResponse(t, out))["config_created"])
}

func TestNewFilesPlan(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "--json", "new", "--project", "My App", "--type", "Architecture", "--priority", "High", "# Plan body")
	require.NoError(t, err)
	resp := decodeResponse(t, out)
	require.True(t, resp.OK)
	assert.Equal(t, "Technical Plans/Inbox/2025-01-08_My_App_Architecture.md", dataMap(t, resp)["path"])

	content := env.read(t, inboxDir, "2025-01-08_My_App_Architecture.md")
	assert.True(t, strings.HasPrefix(content, "---\ncreated: 2025-01-08\n"), content)
	assert.Contains(t, content, "priority: High\n")
	assert.True(t, strings.HasSuffix(content, "# Plan body"), content)
}

func TestNewReadsBodyFromStdinAndFile(t *testing.T) {
	env := newCLIEnv(t)

	bodyFile := filepath.Join(t.TempDir(), "plan.md")
	require.NoError(t, os.WriteFile(bodyFile, []byte("# From file"), 0o644))
	_, err := env.run(t, "new", "--project", "A", "--file", bodyFile)
	require.NoError(t, err)
	assert.Contains(t, env.read(t, inboxDir, "2025-01-08_A_Design.md"), "# From file")

	resetCommandFlags(rootCmd)
	rootCmd.SetArgs([]string{"--config", env.configPath, "new", "--project", "B", "--file", "-"})
	stdin = strings.NewReader("# From stdin")
	var runErr error
	captureStdout(t, func() { runErr = Execute(t.Context()) })
	require.NoError(t, runErr)
	assert.Contains(t, env.read(t, inboxDir, "2025-01-08_B_Design.md"), "# From stdin")
}

func TestNewRejectsInvalidMetadata(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "--json", "new", "--priority", "Urgent", "body")
	require.ErrorIs(t, err, errAlreadyReported)
	resp := decodeResponse(t, out)
	assert.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrInvalidInput, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "project is required")
}

func TestReviewAndArchive(t *testing.T) {
	env := newCLIEnv(t)
	env.writePlan(t, inboxDir, "a.md", "---\nproject: X\n---\n\n# A")
	env.writePlan(t, inboxDir, "b.md", "---\nproject: Y\n---\n\n# B")

	_, err := env.run(t, "review", "a.md")
	require.NoError(t, err)
	assert.False(t, env.exists(inboxDir, "a.md"))
	assert.Contains(t, env.read(t, reviewedDir, "a.md"), "review_date: 2025-01-08")

	out, err := env.run(t, "--json", "archive", "b.md")
	require.NoError(t, err)
	assert.Equal(t, "archive", dataMap(t, decodeResponse(t, out))["folder"])
	assert.Equal(t, "---\nproject: Y\n---\n\n# B", env.read(t, archiveDir, "b.md"))
}

func TestReviewMissingPlan(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "--json", "review", "nope.md")
	require.Error(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, ErrPlanNotFound, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Suggestion)

	_, err = env.run(t, "review", "nope.md")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.md")
}

func TestWrongArgumentCountIsInvalidInput(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "--json", "archive")
	require.Error(t, err)
	assert.Equal(t, ErrInvalidInput, decodeResponse(t, out).Error.Code)
}

func TestListPipeAndJSON(t *testing.T) {
	env := newCLIEnv(t)
	env.writePlan(t, inboxDir, "a.md", "---\nproject: X\npriority: High\n---\n\n# Alpha")
	env.writePlan(t, reviewedDir, "b.md", "---\nproject: Y\n---\n\n# Beta")
	env.writePlan(t, archiveDir, "a.md", "---\nproject: X\npriority: High\n---\n\n# Alpha")

	out, err := env.run(t, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, out, "a.md\tAlpha\tarchive")
	assert.Contains(t, out, "b.md\tBeta\treviewed")

	out, err = env.run(t, "--json", "list", "--all")
	require.NoError(t, err)
	resp := decodeResponse(t, out)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.Count)

	out, err = env.run(t, "--json", "list", "--folder", "inbox", "--priority", "High")
	require.NoError(t, err)
	resp = decodeResponse(t, out)
	assert.Equal(t, 1, resp.Meta.Count)

	out, err = env.run(t, "--json", "list", "--folder", "drafts")
	require.Error(t, err)
	assert.Equal(t, ErrInvalidInput, decodeResponse(t, out).Error.Code)
}

func TestListEmptyVault(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "--json", "list")
	require.NoError(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, []interface{}{}, dataMap(t, resp)["plans"])
}

func TestShow(t *testing.T) {
	env := newCLIEnv(t)
	raw := "---\nproject: X\n---\n\n# Title\n\ntext"
	env.writePlan(t, reviewedDir, "a.md", raw)

	out, err := env.run(t, "show", "a.md", "--raw")
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	out, err = env.run(t, "show", "a.md")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "project")

	out, err = env.run(t, "--json", "show", "a.md")
	require.NoError(t, err)
	data := dataMap(t, decodeResponse(t, out))
	assert.Equal(t, "reviewed", data["folder"])
	assert.Equal(t, "# Title\n\ntext", data["body"])
}

func TestExpire(t *testing.T) {
	env := newCLIEnv(t)
	env.writePlan(t, reviewedDir, "old.md", "---\nreview_date: 2024-11-01\n---\n\nold")
	env.writePlan(t, reviewedDir, "new.md", "---\nreview_date: 2025-01-05\n---\n\nnew")

	out, err := env.run(t, "--json", "expire")
	require.NoError(t, err)
	data := dataMap(t, decodeResponse(t, out))
	assert.EqualValues(t, 1, data["archived"])
	assert.EqualValues(t, defaultExpireDays, data["days_old"])
	assert.True(t, env.exists(archiveDir, "old.md"))
	assert.True(t, env.exists(reviewedDir, "new.md"))

	_, err = env.run(t, "expire", "--days", "1")
	require.NoError(t, err)
	assert.True(t, env.exists(archiveDir, "new.md"))

	out, err = env.run(t, "--json", "expire", "--days", "-2")
	require.Error(t, err)
	assert.Equal(t, ErrInvalidInput, decodeResponse(t, out).Error.Code)
}

func TestDuplicates(t *testing.T) {
	env := newCLIEnv(t)
	env.writePlan(t, inboxDir, "a.md", "---\nproject: X\n---\n")
	env.writePlan(t, archiveDir, "a.md", "---\nproject: X\n---\n")

	out, err := env.run(t, "--json", "duplicates")
	require.NoError(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, 1, resp.Meta.Count)
	dups := dataMap(t, resp)["duplicates"].([]interface{})
	assert.Equal(t, "archive", dups[0].(map[string]interface{})["kept"])

	out, err = env.run(t, "duplicates")
	require.NoError(t, err)
	assert.Contains(t, out, "a.md")
}

func TestInvalidConfigReported(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.WriteFile(env.configPath, []byte("[vault]\nbackend = \"ftp\"\n"), 0o644))

	out, err := env.run(t, "--json", "list")
	require.Error(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, ErrConfigInvalid, resp.Error.Code)
	assert.Contains(t, resp.Error.Suggestion, "init --write-config")
}

func TestMissingLocalVaultIsConfigError(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.RemoveAll(env.vaultDir))

	out, err := env.run(t, "--json", "list")
	require.Error(t, err)
	assert.Equal(t, ErrConfigInvalid, decodeResponse(t, out).Error.Code)
}

func TestVersionJSON(t *testing.T) {
	out, err := runCLI(t, "--json", "version")
	require.NoError(t, err)
	data := dataMap(t, decodeResponse(t, out))
	assert.NotEmpty(t, data["version"])
	assert.NotEmpty(t, data["go_version"])
}
