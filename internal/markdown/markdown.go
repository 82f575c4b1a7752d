// Package markdown extracts display information from plan bodies.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading represents a parsed heading.
type Heading struct {
	Level int
	Text  string
}

// Headings extracts headings from markdown content using goldmark.
func Headings(content string) []Heading {
	var headings []Heading

	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		headingText := strings.TrimSpace(inlineText(heading, source))
		if headingText != "" {
			headings = append(headings, Heading{Level: heading.Level, Text: headingText})
		}
		return ast.WalkSkipChildren, nil
	})

	return headings
}

// Title returns the text of the highest-level heading that appears first,
// or "" when the body has no headings.
func Title(content string) string {
	headings := Headings(content)
	if len(headings) == 0 {
		return ""
	}
	best := headings[0]
	for _, h := range headings[1:] {
		if h.Level < best.Level {
			best = h
		}
	}
	return best.Text
}

func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(source))
			if c.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		default:
			b.WriteString(inlineText(child, source))
		}
	}
	return b.String()
}
