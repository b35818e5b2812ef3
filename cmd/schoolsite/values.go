package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schoolsite/pkg/validation"
)

// readValues reads a flat YAML or JSON mapping of field names to values. A
// list value is taken as attached file names. "-" reads stdin.
func readValues(path string, stdin io.Reader) (validation.Values, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	return parseValues(data)
}

// parseValues keeps every scalar as written, so unquoted dates and numbers
// reach validation verbatim.
func parseValues(data []byte) (validation.Values, error) {
	raw := map[string]yaml.Node{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}

	values := make(validation.Values, len(raw))
	for name, node := range raw {
		n := resolveAlias(&node)
		switch n.Kind {
		case yaml.ScalarNode:
			values.Set(name, scalarText(n))
		case yaml.SequenceNode:
			files := make([]string, 0, len(n.Content))
			for _, item := range n.Content {
				item = resolveAlias(item)
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("parse values: field %q must list file names", name)
				}
				files = append(files, scalarText(item))
			}
			values.Attach(name, files...)
		default:
			return nil, fmt.Errorf("parse values: field %q must be a string or a list of file names", name)
		}
	}
	return values, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func scalarText(n *yaml.Node) string {
	if n.Tag == "!!null" {
		return ""
	}
	return n.Value
}

// writeValues prints values as YAML with file fields as lists.
func writeValues(w io.Writer, values validation.Values) error {
	out := make(map[string]any, len(values))
	for name, value := range values {
		if len(value.Files) > 0 {
			out[name] = value.Files
			continue
		}
		out[name] = value.Raw
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func sortedNames(values validation.Values) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
