package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLCodec reads and writes the block as YAML. Scalars decode to their
// string form; sequences and mappings decode to their flow-style YAML text.
type YAMLCodec struct{}

// Parse implements Codec.
func (YAMLCodec) Parse(content string) (*Fields, string, error) {
	inner, body, ok := split(content)
	if !ok {
		return NewFields(), content, nil
	}

	fields := NewFields()
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(strings.Join(inner, "\n")), &doc); err != nil {
		return nil, content, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	// An empty or comment-only block decodes to a zero node.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return fields, body, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, content, fmt.Errorf("%w: expected a mapping, got %s", ErrDecode, kindName(root.Kind))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		value, err := scalarText(root.Content[i+1])
		if err != nil {
			return nil, content, fmt.Errorf("%w: field %q: %v", ErrDecode, key, err)
		}
		fields.Set(key, value)
	}
	return fields, body, nil
}

// Generate implements Codec. Every value is written as a YAML string.
func (YAMLCodec) Generate(fields *Fields) string {
	if fields.Len() == 0 {
		return Delimiter + "\n" + Delimiter + "\n\n"
	}

	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range fields.Keys() {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fields.Value(key)},
		)
	}

	out, err := yaml.Marshal(mapping)
	if err != nil {
		// String scalars always marshal; fall back to the line format regardless.
		return LineCodec{}.Generate(fields)
	}
	return Delimiter + "\n" + string(out) + Delimiter + "\n\n"
}

func scalarText(n *yaml.Node) (string, error) {
	if n.Kind == yaml.ScalarNode {
		if n.Tag == "!!null" {
			return "", nil
		}
		return n.Value, nil
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return scalarText(n.Alias)
	}

	n.Style = yaml.FlowStyle
	out, err := yaml.Marshal(n)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
