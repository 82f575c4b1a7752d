package vault

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemGateway(t *testing.T, files map[string]string) *FSGateway {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for p, content := range files {
		require.NoError(t, afero.WriteFile(fsys, "/vault/"+p, []byte(content), 0o644))
	}
	return NewFSGateway(fsys, "/vault")
}

func TestFSGatewayCRUD(t *testing.T) {
	ctx := context.Background()
	g := newMemGateway(t, nil)

	require.NoError(t, g.CreateOrUpdateFile(ctx, "Technical Plans/Inbox/a.md", "one"))
	got, err := g.GetFile(ctx, "Technical Plans/Inbox/a.md")
	require.NoError(t, err)
	assert.Equal(t, "one", got)

	require.NoError(t, g.CreateOrUpdateFile(ctx, "Technical Plans/Inbox/a.md", "two"))
	got, err = g.GetFile(ctx, "/Technical Plans/Inbox/a.md")
	require.NoError(t, err)
	assert.Equal(t, "two", got)

	require.NoError(t, g.DeleteFile(ctx, "Technical Plans/Inbox/a.md"))
	_, err = g.GetFile(ctx, "Technical Plans/Inbox/a.md")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, g.DeleteFile(ctx, "Technical Plans/Inbox/a.md"), ErrNotFound)
}

func TestFSGatewayListing(t *testing.T) {
	ctx := context.Background()
	g := newMemGateway(t, map[string]string{
		"Technical Plans/Inbox/.keep":    "",
		"Technical Plans/Inbox/b.md":     "b",
		"Technical Plans/Inbox/a.md":     "a",
		"Technical Plans/Archive/old.md": "old",
		".obsidian/workspace.json":       "{}",
		"notes.md":                       "n",
	})

	files, err := g.ListFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Technical Plans/Archive/old.md",
		"Technical Plans/Inbox/.keep",
		"Technical Plans/Inbox/a.md",
		"Technical Plans/Inbox/b.md",
		"notes.md",
	}, files)

	entries, err := g.ListDirectory(ctx, "Technical Plans/Inbox")
	require.NoError(t, err)
	assert.Equal(t, []string{".keep", "a.md", "b.md"}, entries)

	entries, err = g.ListDirectory(ctx, "Technical Plans")
	require.NoError(t, err)
	assert.Equal(t, []string{"Archive/", "Inbox/"}, entries)

	_, err = g.ListDirectory(ctx, "Technical Plans/Reviewed")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSGatewayEmptyVault(t *testing.T) {
	g := NewFSGateway(afero.NewMemMapFs(), "/missing")
	files, err := g.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFSGatewayRejectsEscapes(t *testing.T) {
	ctx := context.Background()
	g := newMemGateway(t, nil)

	_, err := g.GetFile(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrPathOutsideVault)
	assert.ErrorIs(t, g.CreateOrUpdateFile(ctx, "a/../../x.md", "x"), ErrPathOutsideVault)
}

func TestFSGatewayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := newMemGateway(t, nil)
	assert.ErrorIs(t, g.CreateOrUpdateFile(ctx, "a.md", "x"), context.Canceled)
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a/b.md", want: "a/b.md"},
		{in: "./a//b.md", want: "a/b.md"},
		{in: "/a/./b.md", want: "a/b.md"},
		{in: `a\b.md`, want: "a/b.md"},
		{in: "", want: ""},
		{in: "a/../b.md", want: "b.md"},
		{in: "../b.md", wantErr: true},
		{in: "a/../../b.md", wantErr: true},
	}
	for _, tt := range tests {
		got, err := CleanPath(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrPathOutsideVault, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
