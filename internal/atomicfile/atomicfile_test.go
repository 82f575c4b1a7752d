package atomicfile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileCreatesParents(t *testing.T) {
	fsys := afero.NewMemMapFs()

	require.NoError(t, WriteFile(fsys, "/vault/a/b/plan.md", []byte("first"), 0))

	data, err := afero.ReadFile(fsys, "/vault/a/b/plan.md")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestWriteFileReplacesAndLeavesNoTemp(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/vault/plan.md", []byte("old"), 0o600))

	require.NoError(t, WriteFile(fsys, "/vault/plan.md", []byte("new"), 0))

	data, err := afero.ReadFile(fsys, "/vault/plan.md")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := afero.ReadDir(fsys, "/vault")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "plan.md", entries[0].Name())
}

func TestWriteFileOnDisk(t *testing.T) {
	dir := t.TempDir()
	fsys := afero.NewBasePathFs(afero.NewOsFs(), dir)

	require.NoError(t, WriteFile(fsys, "/nested/file.md", []byte("content"), 0o644))

	data, err := afero.ReadFile(afero.NewOsFs(), dir+"/nested/file.md")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}
