package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aidanlsb/planvault/internal/plans"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Highlights, paths, filenames
// - Muted (gray): Secondary info, row numbers, dates
// - Folder colors mark lifecycle state: badges and plan body headings

const (
	accentHex = "#A78BFA"
	mutedHex  = "#6C7086"
)

var (
	// Accent style for file paths and filenames
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(accentHex))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color(mutedHex))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	folderColors = map[plans.Folder]string{
		plans.Inbox:    "#F9E2AF",
		plans.Reviewed: "#A6E3A1",
		plans.Archive:  mutedHex,
	}
)

func folderHex(f plans.Folder) string {
	if hex, ok := folderColors[f]; ok {
		return hex
	}
	return accentHex
}

// FolderBadge renders a folder name in its lifecycle color.
func FolderBadge(f plans.Folder) string {
	if _, ok := folderColors[f]; !ok {
		return string(f)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(folderHex(f))).Render(string(f))
}
