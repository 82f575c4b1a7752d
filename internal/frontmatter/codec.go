// Package frontmatter reads and writes the metadata block at the top of a
// markdown document.
//
// The block is delimited by lines containing exactly "---":
//
//	---
//	key: value
//	---
//
//	body
//
// The default LineCodec is a line-oriented key/value reader. It does not
// support nesting, lists, quoting or multi-line values; such lines degrade to
// verbatim single-line strings. YAMLCodec can be swapped in where full YAML
// is wanted.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter opens and closes a frontmatter block.
const Delimiter = "---"

// ErrDecode is returned when a frontmatter block is present but cannot be decoded.
var ErrDecode = errors.New("frontmatter: decode failed")

// Codec converts between document text and (fields, body).
type Codec interface {
	// Parse splits content into its frontmatter fields and body. Content
	// without a leading block yields empty fields and the unchanged content.
	Parse(content string) (*Fields, string, error)

	// Generate renders fields as a frontmatter block, including the blank
	// line that separates it from the body.
	Generate(fields *Fields) string
}

// Bounds returns the opening and closing delimiter line indices.
// It only detects frontmatter when the first line is the delimiter.
// If frontmatter is present but unclosed, endLine is -1.
func Bounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || !isDelimiter(lines[0]) {
		return 0, -1, false
	}

	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			return 0, i, true
		}
	}

	return 0, -1, true
}

func isDelimiter(line string) bool {
	return strings.TrimSuffix(line, "\r") == Delimiter
}

// split locates a closed block and returns its inner lines and the body.
// One blank separator line directly after the closing delimiter belongs to
// the block, matching what Generate writes.
func split(content string) (inner []string, body string, ok bool) {
	lines := strings.Split(content, "\n")
	_, end, found := Bounds(lines)
	if !found || end == -1 {
		return nil, content, false
	}

	rest := lines[end+1:]
	if len(rest) > 1 && strings.TrimSuffix(rest[0], "\r") == "" {
		rest = rest[1:]
	}
	return lines[1:end], strings.Join(rest, "\n"), true
}

// LineCodec is the default line-oriented codec.
type LineCodec struct{}

// Parse implements Codec. It never fails: malformed lines are skipped.
func (LineCodec) Parse(content string) (*Fields, string, error) {
	inner, body, ok := split(content)
	if !ok {
		return NewFields(), content, nil
	}

	fields := NewFields()
	for _, line := range inner {
		line = strings.TrimSuffix(line, "\r")
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields.Set(key, strings.TrimSpace(value))
	}
	return fields, body, nil
}

// Generate implements Codec.
func (LineCodec) Generate(fields *Fields) string {
	var b strings.Builder
	b.WriteString(Delimiter + "\n")
	for _, key := range fields.Keys() {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(fields.Value(key))
		b.WriteByte('\n')
	}
	b.WriteString(Delimiter + "\n\n")
	return b.String()
}

// Compose renders fields with codec and appends body.
func Compose(codec Codec, fields *Fields, body string) string {
	return codec.Generate(fields) + body
}

// ByName returns the codec registered under name ("line" or "yaml").
// An empty name selects the line codec.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "line":
		return LineCodec{}, nil
	case "yaml":
		return YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown frontmatter codec %q", name)
	}
}
