package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/aidanlsb/planvault/internal/atomicfile"
)

// FSGateway serves a vault from a directory on an afero filesystem.
// Use afero.NewOsFs() for a vault on disk or afero.NewMemMapFs() in tests.
type FSGateway struct {
	fs   afero.Fs
	root string
}

// NewFSGateway creates a gateway rooted at root on fsys.
func NewFSGateway(fsys afero.Fs, root string) *FSGateway {
	if root == "" {
		root = "/"
	}
	return &FSGateway{fs: fsys, root: filepath.Clean(root)}
}

// NewOSGateway creates a gateway for a vault directory on disk.
func NewOSGateway(root string) *FSGateway {
	return NewFSGateway(afero.NewOsFs(), root)
}

// Root returns the vault directory.
func (g *FSGateway) Root() string {
	return g.root
}

func (g *FSGateway) abs(p string) (string, error) {
	rel, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	if rel == "" {
		return g.root, nil
	}
	return filepath.Join(g.root, filepath.FromSlash(rel)), nil
}

// ListFiles implements Gateway. Hidden directories (".obsidian", ".trash")
// are skipped; hidden files inside managed folders are kept.
func (g *FSGateway) ListFiles(ctx context.Context) ([]string, error) {
	var files []string
	err := afero.Walk(g.fs, g.root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == g.root {
				return nil
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			if p != g.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(g.root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list vault files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// ListDirectory implements Gateway.
func (g *FSGateway) ListDirectory(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := g.abs(dir)
	if err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(g.fs, full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("list %s: %w", dir, ErrNotFound)
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	entries := make([]string, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		if strings.HasPrefix(name, ".") && strings.Contains(name, ".tmp-") {
			// In-flight atomic write.
			continue
		}
		if info.IsDir() {
			name += "/"
		}
		entries = append(entries, name)
	}
	sort.Strings(entries)
	return entries, nil
}

// GetFile implements Gateway.
func (g *FSGateway) GetFile(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full, err := g.abs(p)
	if err != nil {
		return "", err
	}

	info, err := g.fs.Stat(full)
	if err == nil && info.IsDir() {
		return "", fmt.Errorf("read %s: is a directory", p)
	}

	data, err := afero.ReadFile(g.fs, full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read %s: %w", p, ErrNotFound)
		}
		return "", fmt.Errorf("read %s: %w", p, err)
	}
	return string(data), nil
}

// CreateOrUpdateFile implements Gateway.
func (g *FSGateway) CreateOrUpdateFile(ctx context.Context, p, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := g.abs(p)
	if err != nil {
		return err
	}
	if full == g.root {
		return fmt.Errorf("write: empty path")
	}
	if err := atomicfile.WriteFile(g.fs, full, []byte(content), 0); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

// DeleteFile implements Gateway.
func (g *FSGateway) DeleteFile(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := g.abs(p)
	if err != nil {
		return err
	}

	info, err := g.fs.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", p, ErrNotFound)
		}
		return fmt.Errorf("delete %s: %w", p, err)
	}
	if info.IsDir() {
		return fmt.Errorf("delete %s: is a directory", p)
	}
	if err := g.fs.Remove(full); err != nil {
		return fmt.Errorf("delete %s: %w", p, err)
	}
	return nil
}
