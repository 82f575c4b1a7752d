package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/planvault/internal/vault"
)

const testKey = "secret-key"

// fakePlugin mimics the REST plugin's /vault/ endpoints over an in-memory map.
type fakePlugin struct {
	mu    sync.Mutex
	files map[string]string
	calls []string
}

func newFakePlugin(files map[string]string) *fakePlugin {
	if files == nil {
		files = map[string]string{}
	}
	return &fakePlugin{files: files}
}

func (f *fakePlugin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, r.Method+" "+r.URL.EscapedPath())

	if r.Header.Get("Authorization") != "Bearer "+testKey {
		writeErr(w, http.StatusUnauthorized, 40101, "Authorization required")
		return
	}

	p := strings.TrimPrefix(r.URL.Path, "/vault/")
	if p == "" || strings.HasSuffix(p, "/") {
		f.list(w, strings.TrimSuffix(p, "/"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		content, ok := f.files[p]
		if !ok {
			writeErr(w, http.StatusNotFound, 40400, "Not Found")
			return
		}
		w.Header().Set("Content-Type", "text/markdown")
		_, _ = io.WriteString(w, content)
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.files[p] = string(data)
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if _, ok := f.files[p]; !ok {
			writeErr(w, http.StatusNotFound, 40400, "Not Found")
			return
		}
		delete(f.files, p)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeErr(w, http.StatusMethodNotAllowed, 40500, "Method not allowed")
	}
}

func (f *fakePlugin) list(w http.ResponseWriter, dir string) {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	seen := map[string]bool{}
	for p := range f.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			rest = rest[:i+1]
		}
		seen[rest] = true
	}
	if dir != "" && len(seen) == 0 {
		writeErr(w, http.StatusNotFound, 40400, "Not Found")
		return
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"files": out})
}

func writeErr(w http.ResponseWriter, status, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"errorCode": code, "message": msg})
}

func newTestClient(t *testing.T, plugin *fakePlugin) *Client {
	t.Helper()
	srv := httptest.NewServer(plugin)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, APIKey: testKey})
	require.NoError(t, err)
	return c
}

func TestClientFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	plugin := newFakePlugin(nil)
	c := newTestClient(t, plugin)

	path := "Technical Plans/Inbox/2025-01-08_Test_Architecture.md"
	require.NoError(t, c.CreateOrUpdateFile(ctx, path, "---\nproject: Test\n---\n\nbody"))

	got, err := c.GetFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "---\nproject: Test\n---\n\nbody", got)

	require.NoError(t, c.DeleteFile(ctx, path))
	_, err = c.GetFile(ctx, path)
	assert.ErrorIs(t, err, vault.ErrNotFound)

	err = c.DeleteFile(ctx, path)
	assert.ErrorIs(t, err, vault.ErrNotFound)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, 40400, apiErr.ErrorCode)

	assert.Contains(t, plugin.calls, "PUT /vault/Technical%20Plans/Inbox/2025-01-08_Test_Architecture.md")
}

func TestClientListing(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, newFakePlugin(map[string]string{
		"Technical Plans/Inbox/.keep":  "",
		"Technical Plans/Inbox/a.md":   "a",
		"Technical Plans/Archive/b.md": "b",
		"notes.md":                     "n",
	}))

	entries, err := c.ListDirectory(ctx, "Technical Plans/Inbox")
	require.NoError(t, err)
	assert.Equal(t, []string{".keep", "a.md"}, entries)

	_, err = c.ListDirectory(ctx, "Technical Plans/Reviewed")
	assert.ErrorIs(t, err, vault.ErrNotFound)

	files, err := c.ListFiles(ctx)
	require.NoError(t, err)
	sort.Strings(files)
	assert.Equal(t, []string{
		"Technical Plans/Archive/b.md",
		"Technical Plans/Inbox/.keep",
		"Technical Plans/Inbox/a.md",
		"notes.md",
	}, files)
}

func TestClientUnauthorized(t *testing.T) {
	plugin := newFakePlugin(nil)
	srv := httptest.NewServer(plugin)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, APIKey: "wrong"})
	require.NoError(t, err)

	_, err = c.GetFile(context.Background(), "a.md")
	require.Error(t, err)
	assert.NotErrorIs(t, err, vault.ErrNotFound)
	assert.ErrorIs(t, err, vault.ErrRejected)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Authorization required")
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(newFakePlugin(nil))
	srv.Close()

	c, err := New(Options{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = c.GetFile(context.Background(), "a.md")
	require.Error(t, err)
	assert.ErrorIs(t, err, vault.ErrUnavailable)
	assert.NotErrorIs(t, err, vault.ErrNotFound)
}

func TestClientRejectsEscapingPaths(t *testing.T) {
	plugin := newFakePlugin(nil)
	c := newTestClient(t, plugin)

	err := c.CreateOrUpdateFile(context.Background(), "../outside.md", "x")
	assert.ErrorIs(t, err, vault.ErrPathOutsideVault)
	assert.Empty(t, plugin.calls)
}

func TestNewValidatesBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	c, err := New(Options{})
	require.NoError(t, err)
	u, _ := url.Parse(DefaultBaseURL)
	assert.Equal(t, u.String(), c.baseURL.String())
}
