package tabler

import (
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

func writeYAML(w io.Writer, t *Result) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if len(t.Rows) == 0 {
		doc.Style = yaml.FlowStyle
	}
	for _, row := range t.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, h := range t.Header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			m.Content = append(m.Content, strNode(h), strNode(cell))
		}
		doc.Content = append(doc.Content, m)
	}
	enc := yaml.NewEncoder(w)
	if n := len(t.Layout.Indent); n > 0 {
		enc.SetIndent(n)
	}
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// strNode keeps every cell a string so "1" or "true" do not change type.
func strNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.Contains(s, "\n") {
		n.Style = yaml.LiteralStyle
	}
	return n
}
