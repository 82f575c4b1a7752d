package plans

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/planvault/internal/vault"
)

// Folder is one of the three lifecycle folders. A plan's state is the folder
// that currently holds it.
type Folder string

const (
	Inbox    Folder = "inbox"
	Reviewed Folder = "reviewed"
	Archive  Folder = "archive"
)

// Folders lists every folder in lifecycle order.
var Folders = []Folder{Inbox, Reviewed, Archive}

// ParseFolder parses a folder name case-insensitively.
func ParseFolder(s string) (Folder, error) {
	switch Folder(strings.ToLower(strings.TrimSpace(s))) {
	case Inbox:
		return Inbox, nil
	case Reviewed:
		return Reviewed, nil
	case Archive:
		return Archive, nil
	default:
		return "", fmt.Errorf("%w: unknown folder %q (expected inbox, reviewed or archive)", ErrInvalidArgument, s)
	}
}

// Title returns the display name ("Inbox", "Reviewed", "Archive").
func (f Folder) Title() string {
	switch f {
	case Inbox:
		return "Inbox"
	case Reviewed:
		return "Reviewed"
	case Archive:
		return "Archive"
	default:
		return string(f)
	}
}

// rank orders folders by how terminal they are: Archive > Reviewed > Inbox.
func (f Folder) rank() int {
	switch f {
	case Inbox:
		return 1
	case Reviewed:
		return 2
	case Archive:
		return 3
	default:
		return 0
	}
}

// Layout names the managed folders inside the vault.
type Layout struct {
	// Root is the vault-relative parent of the lifecycle folders.
	Root string `toml:"root"`

	Inbox    string `toml:"inbox"`
	Reviewed string `toml:"reviewed"`
	Archive  string `toml:"archive"`

	// Marker is the zero-byte file written to make an empty folder exist.
	Marker string `toml:"marker"`
}

// DefaultLayout returns "Technical Plans/{Inbox,Reviewed,Archive}" with a ".keep" marker.
func DefaultLayout() Layout {
	return Layout{
		Root:     "Technical Plans",
		Inbox:    "Inbox",
		Reviewed: "Reviewed",
		Archive:  "Archive",
		Marker:   ".keep",
	}
}

// WithDefaults fills empty names from DefaultLayout.
func (l Layout) WithDefaults() Layout {
	d := DefaultLayout()
	if strings.TrimSpace(l.Root) == "" {
		l.Root = d.Root
	}
	if strings.TrimSpace(l.Inbox) == "" {
		l.Inbox = d.Inbox
	}
	if strings.TrimSpace(l.Reviewed) == "" {
		l.Reviewed = d.Reviewed
	}
	if strings.TrimSpace(l.Archive) == "" {
		l.Archive = d.Archive
	}
	if strings.TrimSpace(l.Marker) == "" {
		l.Marker = d.Marker
	}
	return l
}

// Validate checks that the three folders are distinct and stay inside the vault.
func (l Layout) Validate() error {
	seen := map[string]Folder{}
	for _, f := range Folders {
		dir, err := vault.CleanPath(l.Dir(f))
		if err != nil {
			return fmt.Errorf("%s folder: %w", f.Title(), err)
		}
		if other, ok := seen[dir]; ok {
			return fmt.Errorf("%s and %s folders both resolve to %q", other.Title(), f.Title(), dir)
		}
		seen[dir] = f
	}
	if strings.ContainsAny(l.Marker, `/\`) {
		return fmt.Errorf("marker %q must be a file name", l.Marker)
	}
	return nil
}

// Dir returns the vault-relative path of a folder.
func (l Layout) Dir(f Folder) string {
	var name string
	switch f {
	case Inbox:
		name = l.Inbox
	case Reviewed:
		name = l.Reviewed
	case Archive:
		name = l.Archive
	}
	return vault.Join(l.Root, name)
}

// PlanPath returns the vault-relative path of filename inside a folder.
func (l Layout) PlanPath(f Folder, filename string) string {
	return l.Dir(f) + "/" + filename
}
