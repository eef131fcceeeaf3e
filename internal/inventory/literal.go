package inventory

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lists and maps are rendered as single-quoted flow collections, e.g.
// ['/data1', '/data2']. The same text is a YAML flow sequence and a
// literal Ansible accepts as an inventory variable value.

func quoted(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.SingleQuotedStyle, Tag: "!!str", Value: s}
}

func sequence(items []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle, Tag: "!!seq"}
	for _, item := range items {
		n.Content = append(n.Content, quoted(item))
	}
	return n
}

// mapping builds a flow mapping from alternating key and value nodes.
func mapping(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle, Tag: "!!map", Content: pairs}
}

func literal(n *yaml.Node) (string, error) {
	out, err := yaml.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("failed to render value: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func listLiteral(items []string) (string, error) {
	return literal(sequence(items))
}
