package ui

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/planvault/internal/plans"
)

// RenderPlanHeader renders a plan's location and frontmatter as aligned
// key/value lines.
func RenderPlanHeader(p *plans.Plan) string {
	var sb strings.Builder
	title := p.Title
	if title == "" {
		title = p.Filename
	}
	sb.WriteString(Bold.Render(title))
	sb.WriteString("\n")
	sb.WriteString(Accent.Render(p.Path))
	sb.WriteString("  ")
	sb.WriteString(FolderBadge(p.Folder))
	sb.WriteString("\n\n")

	if p.Metadata != nil && p.Metadata.Len() > 0 {
		tbl := NewTable(2)
		for _, key := range p.Metadata.Keys() {
			tbl.AddRow(Muted.Render(key), p.Metadata.Value(key))
		}
		sb.WriteString(tbl.String())
	}
	return sb.String()
}

// RenderDuplicates renders one line per duplicated filename.
func RenderDuplicates(dups []plans.Duplicate) string {
	list := NewList()
	for _, d := range dups {
		folders := make([]string, len(d.Folders))
		for i, f := range d.Folders {
			folders[i] = FolderBadge(f)
		}
		list.Add(Accent.Render(d.Filename) + "  " + strings.Join(folders, ", ") +
			Muted.Render("  (listed from "+string(d.Kept)+")"))
	}
	return list.String()
}

const (
	markDone = "✓"
	markFail = "✗"
	markWarn = "⚠"
)

// PlanCount returns a muted count like "(3 plans)".
func PlanCount(n int) string {
	if n == 1 {
		return Muted.Render("(1 plan)")
	}
	return Muted.Render(fmt.Sprintf("(%d plans)", n))
}

// FiledNotice reports a plan written to the Inbox.
func FiledNotice(path string) string {
	return markDone + " Filed " + Accent.Render(path)
}

// MovedNotice reports a plan moved into a lifecycle folder.
func MovedNotice(filename string, to plans.Folder) string {
	return fmt.Sprintf("%s Moved %s to %s", markDone, Accent.Render(filename), FolderBadge(to))
}

// FolderReadyNotice reports a managed folder that exists after init.
func FolderReadyNotice(f plans.Folder, dir string) string {
	return fmt.Sprintf("%s %s %s", markDone, FolderBadge(f), Accent.Render(dir))
}

// ConfigWrittenNotice reports a newly written config file.
func ConfigWrittenNotice(path string) string {
	return markDone + " Wrote config " + Accent.Render(path)
}

// ExpiredNotice summarizes an age-based archive sweep.
func ExpiredNotice(count, days int) string {
	if count == 0 {
		return Muted.Render(fmt.Sprintf("No reviewed plans older than %d days.", days))
	}
	return fmt.Sprintf("%s Archived %s reviewed more than %d days ago", markDone, PlanCount(count), days)
}

// DuplicatesNotice heads the duplicate report.
func DuplicatesNotice(n int) string {
	if n == 0 {
		return markDone + " No duplicate plans."
	}
	return fmt.Sprintf("%s %s in more than one folder", markWarn, PlanCount(n))
}

// PartialFailureNotice reports plans an operation could not handle while
// others succeeded.
func PartialFailureNotice(err error) string {
	return markWarn + " " + err.Error()
}

// FailureNotice formats a command failure for stderr.
func FailureNotice(msg string) string {
	return markFail + " " + msg
}
