package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aidanlsb/planvault/internal/plans"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// ColumnDef defines a column in a PlanTable.
type ColumnDef struct {
	Name       string         // Header name
	WidthRatio float64        // Proportion of available width (0.0-1.0), 0 means fixed width
	MinWidth   int            // Minimum width in characters
	MaxWidth   int            // Maximum width (0 = no limit)
	Align      Alignment      // Text alignment
	Style      lipgloss.Style // Style to apply to cells in this column
}

// Plan listing columns.
var (
	ColNum      = ColumnDef{Name: "#", MinWidth: 3, MaxWidth: 5, Align: AlignRight, Style: Muted}
	ColFolder   = ColumnDef{Name: "folder", MinWidth: 8, MaxWidth: 8}
	ColFilename = ColumnDef{Name: "plan", WidthRatio: 0.5, MinWidth: 24, MaxWidth: 60}
	ColProject  = ColumnDef{Name: "project", WidthRatio: 0.3, MinWidth: 10, MaxWidth: 30}
	ColType     = ColumnDef{Name: "type", MinWidth: 14, MaxWidth: 14, Style: Muted}
	ColPriority = ColumnDef{Name: "priority", MinWidth: 8, MaxWidth: 8, Style: Muted}
	ColDate     = ColumnDef{Name: "date", WidthRatio: 0.2, MinWidth: 10, MaxWidth: 12, Style: Muted}

	// PlanLayout is used by `planvault list`.
	PlanLayout = []ColumnDef{ColNum, ColFolder, ColFilename, ColProject, ColType, ColPriority, ColDate}
)

// PlanTable renders plan summaries as an aligned table sized to the terminal.
type PlanTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    [][]string
}

// NewPlanTable creates a table with the given display context and column layout.
func NewPlanTable(display *DisplayContext, columns []ColumnDef) *PlanTable {
	return &PlanTable{display: display, columns: columns}
}

// AddSummaries adds one row per summary.
func (t *PlanTable) AddSummaries(summaries []plans.PlanSummary) {
	for _, s := range summaries {
		t.AddSummary(len(t.rows)+1, s, len(summaries))
	}
}

// AddSummary adds a row for s numbered num of total.
func (t *PlanTable) AddSummary(num int, s plans.PlanSummary, total int) {
	name := s.Filename
	if s.Title != "" {
		name = s.Title + " " + Muted.Render("("+s.Filename+")")
	}

	var project, planType, priority, date string
	if s.Metadata != nil {
		project = s.Metadata.Value(plans.KeyProject)
		planType = s.Metadata.Value(plans.KeyType)
		priority = s.Metadata.Value(plans.KeyPriority)
		date = s.Metadata.Value(plans.KeyCreated)
		if reviewed := s.Metadata.Value(plans.KeyReviewDate); reviewed != "" {
			date = reviewed
		}
	} else if s.Error != "" {
		project = markWarn + " unreadable"
	}

	t.rows = append(t.rows, []string{
		FormatRowNum(num, total),
		FolderBadge(s.Folder),
		name,
		project,
		planType,
		priority,
		date,
	})
}

// Len returns the number of rows.
func (t *PlanTable) Len() int {
	return len(t.rows)
}

// calculateWidths computes column widths based on terminal size and column definitions.
func (t *PlanTable) calculateWidths() []int {
	widths := make([]int, len(t.columns))

	var totalRatio float64
	var fixedWidth int
	const columnPadding = 2

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			widths[i] = col.MinWidth
			if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
				widths[i] = col.MaxWidth
			}
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	totalPadding := (len(t.columns) - 1) * columnPadding
	available := t.display.AvailableWidth(2) - fixedWidth - totalPadding
	if available < 0 {
		available = 0
	}

	for i, col := range t.columns {
		if col.WidthRatio > 0 {
			width := int(float64(available) * (col.WidthRatio / totalRatio))
			if width < col.MinWidth {
				width = col.MinWidth
			}
			if col.MaxWidth > 0 && width > col.MaxWidth {
				width = col.MaxWidth
			}
			widths[i] = width
		}
	}

	return widths
}

// Render generates the table output as a string.
func (t *PlanTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := t.calculateWidths()
	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Name
	}

	tbl := table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Left:   "",
			Right:  "",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderRow(false).
		BorderColumn(false).
		BorderStyle(Muted).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}

			colDef := t.columns[col]
			style := colDef.Style
			if row == table.HeaderRow {
				style = Bold
			}
			style = style.Width(widths[col]).MaxWidth(widths[col] + 2)

			if colDef.Align == AlignRight {
				style = style.Align(lipgloss.Right)
			} else {
				style = style.Align(lipgloss.Left)
			}

			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Rows(t.rows...)

	return tbl.Render()
}

// TruncateWithEllipsis truncates a string to maxLen runes, adding an
// ellipsis if needed. It tries to break at word boundaries.
func TruncateWithEllipsis(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	truncated := string(runes[:maxLen-3])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

// FormatRowNum formats a row number with consistent width.
func FormatRowNum(num, maxNum int) string {
	width := len(fmt.Sprintf("%d", maxNum))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%*d", width, num)
}
