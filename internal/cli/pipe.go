package cli

// This file provides pipe-friendly output helpers for commands that return lists.

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/planvault/internal/plans"
)

// PipeableItem represents an item that can be output in pipe-friendly format.
type PipeableItem struct {
	Num      int    // 1-indexed result number for reference
	ID       string // The plan filename (used by downstream commands)
	Content  string // Human-readable description
	Location string // Folder holding the plan
}

// pipeFormatOverride stores explicit --pipe/--no-pipe flag values.
// nil means use auto-detection.
var pipeFormatOverride *bool

// SetPipeFormat sets an explicit pipe format override.
// Pass nil to use auto-detection.
func SetPipeFormat(usePipe *bool) {
	pipeFormatOverride = usePipe
}

// IsPipedOutput returns true if stdout is being piped (not a TTY).
func IsPipedOutput() bool {
	return !isatty.IsTerminal(os.Stdout.Fd())
}

// ShouldUsePipeFormat returns true if output should use pipe-friendly format.
// Priority: explicit override > auto-detection based on TTY.
// JSON output mode always returns false (JSON has its own format).
func ShouldUsePipeFormat() bool {
	if isJSONOutput() {
		return false
	}
	if pipeFormatOverride != nil {
		return *pipeFormatOverride
	}
	return IsPipedOutput()
}

// WritePipeableList writes items in pipe-friendly tab-separated format.
// Format: Num<tab>ID<tab>Content<tab>Location
// This format works well with fzf and cut for downstream processing.
func WritePipeableList(w io.Writer, items []PipeableItem) {
	for _, item := range items {
		content := strings.ReplaceAll(item.Content, "\t", " ")
		content = strings.ReplaceAll(content, "\n", " ")

		location := strings.ReplaceAll(item.Location, "\t", " ")

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", item.Num, item.ID, content, location)
	}
}

// planItems converts listing entries into pipeable items. Content is the
// title when the plan has one, else its project.
func planItems(summaries []plans.PlanSummary) []PipeableItem {
	items := make([]PipeableItem, len(summaries))
	for i, s := range summaries {
		content := s.Title
		if content == "" && s.Metadata != nil {
			content = s.Metadata.Value(plans.KeyProject)
		}
		if s.Error != "" {
			content = "unreadable: " + s.Error
		}
		items[i] = PipeableItem{
			Num:      i + 1,
			ID:       s.Filename,
			Content:  TruncateContent(content, 80),
			Location: string(s.Folder),
		}
	}
	return items
}

// TruncateContent truncates content to a maximum length, adding "..." if truncated.
// Tries to break at word boundaries.
func TruncateContent(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}

	truncated := content[:maxLen-3]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}
