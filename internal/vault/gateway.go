// Package vault defines the file-level capabilities the plan lifecycle needs
// from a vault, and a local filesystem implementation of them.
//
// Paths are vault-relative and use '/' separators. Folders exist only as a
// byproduct of the files they contain; there is no rename or transaction
// primitive, so callers compose moves from CreateOrUpdateFile + DeleteFile.
package vault

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrNotFound is returned when a file or directory does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPathOutsideVault is returned for paths that escape the vault root.
	ErrPathOutsideVault = errors.New("path is outside vault")

	// ErrUnavailable is returned when the vault cannot be reached.
	ErrUnavailable = errors.New("vault unavailable")

	// ErrRejected is returned when the vault refuses a request.
	ErrRejected = errors.New("vault rejected request")
)

// Gateway is the set of remote file operations available on a vault.
// Each method is a single call with no partial-result semantics.
type Gateway interface {
	// ListFiles returns every file path in the vault, flat.
	ListFiles(ctx context.Context) ([]string, error)

	// ListDirectory returns the direct children of dir. Folder entries end
	// with '/'. A directory that does not exist yields ErrNotFound.
	ListDirectory(ctx context.Context, dir string) ([]string, error)

	// GetFile returns the content of a document.
	GetFile(ctx context.Context, path string) (string, error)

	// CreateOrUpdateFile writes content, creating parent folders as needed.
	CreateOrUpdateFile(ctx context.Context, path, content string) error

	// DeleteFile removes a document.
	DeleteFile(ctx context.Context, path string) error
}

// CleanPath normalizes a vault-relative path:
// - converts '\' to '/'
// - trims leading "./" and "/"
// - collapses repeated '/' and resolves "." segments
//
// Paths that climb above the root return ErrPathOutsideVault.
func CleanPath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "", nil
	}

	cleaned := path.Clean(p)
	if cleaned == "." {
		return "", nil
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideVault, p)
	}
	return cleaned, nil
}

// Join joins vault-relative path elements with '/'.
func Join(elem ...string) string {
	return path.Join(elem...)
}

// IsDirEntry reports whether a ListDirectory entry names a folder.
func IsDirEntry(entry string) bool {
	return strings.HasSuffix(entry, "/")
}
