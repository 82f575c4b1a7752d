package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"

	"github.com/aidanlsb/planvault/internal/plans"
)

// bodyMargin is the left margin of a rendered plan body.
const bodyMargin = 2

// RenderPlanBody renders a plan body for the terminal. Headings take the
// color of the plan's folder and archived plans render muted. A leading H1
// that repeats the plan title is dropped since RenderPlanHeader shows it.
func RenderPlanBody(p *plans.Plan, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(planBodyStyle(p.Folder)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(dropTitleHeading(p.Body, p.Title))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

// dropTitleHeading removes a first "# title" line and the blank lines after it.
func dropTitleHeading(body, title string) string {
	if title == "" {
		return body
	}
	line, rest, _ := strings.Cut(strings.TrimLeft(body, "\n"), "\n")
	heading, ok := strings.CutPrefix(strings.TrimSpace(line), "# ")
	if !ok || strings.TrimSpace(heading) != title {
		return body
	}
	return strings.TrimLeft(rest, "\n")
}

// planBodyStyle starts from glamour's dark theme and recolors it per folder.
// Next-action checklists get box glyphs.
func planBodyStyle(folder plans.Folder) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	heading := strPtr(folderHex(folder))

	cfg.Document = ansi.StyleBlock{
		StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
		Margin:         uintPtr(bodyMargin),
	}
	if folder == plans.Archive {
		cfg.Document.Color = strPtr(mutedHex)
	}

	cfg.Heading = ansi.StyleBlock{
		StylePrimitive: ansi.StylePrimitive{BlockSuffix: "\n", Color: heading, Bold: boolPtr(true)},
	}
	cfg.H1 = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Underline: boolPtr(true)}}
	cfg.H2 = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "▌ "}}
	cfg.H3 = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "▸ "}}
	for _, h := range []*ansi.StyleBlock{&cfg.H4, &cfg.H5, &cfg.H6} {
		*h = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "  ", Bold: boolPtr(false)}}
	}

	cfg.Task = ansi.StyleTask{Ticked: "☑ ", Unticked: "☐ "}
	cfg.Code = ansi.StyleBlock{
		StylePrimitive: ansi.StylePrimitive{Prefix: "`", Suffix: "`", Color: strPtr(accentHex)},
	}
	cfg.CodeBlock.Margin = uintPtr(bodyMargin)
	cfg.Link = ansi.StylePrimitive{Color: strPtr(accentHex), Underline: boolPtr(true)}
	return cfg
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func uintPtr(v uint) *uint { return &v }
