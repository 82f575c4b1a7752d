package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/planvault/internal/frontmatter"
	"github.com/aidanlsb/planvault/internal/plans"
)

func TestWritePipeableList(t *testing.T) {
	items := []PipeableItem{
		{Num: 1, ID: "a.md", Content: "First plan", Location: "inbox"},
		{Num: 2, ID: "b.md", Content: "Has\ttab and\nnewline", Location: "archive"},
	}

	var buf bytes.Buffer
	WritePipeableList(&buf, items)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1\ta.md\tFirst plan\tinbox", lines[0])
	assert.Equal(t, "2\tb.md\tHas tab and newline\tarchive", lines[1])
}

func TestPlanItems(t *testing.T) {
	meta := frontmatter.NewFields()
	meta.Set(plans.KeyProject, "Cache")

	items := planItems([]plans.PlanSummary{
		{Filename: "a.md", Folder: plans.Inbox, Title: "Warmup", Metadata: meta},
		{Filename: "b.md", Folder: plans.Reviewed, Metadata: meta},
		{Filename: "c.md", Folder: plans.Archive, Error: "permission denied"},
	})

	assert.Equal(t, []PipeableItem{
		{Num: 1, ID: "a.md", Content: "Warmup", Location: "inbox"},
		{Num: 2, ID: "b.md", Content: "Cache", Location: "reviewed"},
		{Num: 3, ID: "c.md", Content: "unreadable: permission denied", Location: "archive"},
	}, items)
}

func TestShouldUsePipeFormat(t *testing.T) {
	t.Cleanup(func() {
		SetPipeFormat(nil)
		jsonOutput = false
	})

	on, off := true, false
	SetPipeFormat(&on)
	assert.True(t, ShouldUsePipeFormat())
	SetPipeFormat(&off)
	assert.False(t, ShouldUsePipeFormat())

	SetPipeFormat(&on)
	jsonOutput = true
	assert.False(t, ShouldUsePipeFormat())
}

func TestTruncateContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{name: "short content unchanged", content: "hello", maxLen: 10, want: "hello"},
		{name: "exact length unchanged", content: "hello", maxLen: 5, want: "hello"},
		{name: "truncated with ellipsis", content: "hello world this is a long string", maxLen: 15, want: "hello world..."},
		{name: "truncates at word boundary", content: "hello world foo bar", maxLen: 16, want: "hello world..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateContent(tt.content, tt.maxLen))
		})
	}
}
