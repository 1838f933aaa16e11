package notes

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load reads a note table from a YAML mapping of name to frequency:
//
//	A4: 440.0
//	C4: 261.63
//
// Document order is kept as table order.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read note table: %v", ErrConfiguration, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a YAML note table.
func Parse(data []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrConfiguration)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping of note to frequency", ErrConfiguration, root.Line)
	}

	list := make([]Note, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		var f float64
		if err := val.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: line %d: frequency for %q is not a number", ErrConfiguration, val.Line, key.Value)
		}
		list = append(list, Note{Name: key.Value, Frequency: f})
	}
	return NewTable(list...)
}

// Marshal renders a table in the format accepted by Parse.
func Marshal(t *Table) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, n := range t.notes {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: n.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(n.Frequency, 'f', -1, 64)},
		)
	}
	return yaml.Marshal(root)
}

// Resolve returns the preset named ref, or loads ref as a YAML file.
func Resolve(ref string) (*Table, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: no note table configured", ErrConfiguration)
	}
	if _, ok := presets[ref]; ok {
		return Preset(ref)
	}
	return Load(ref)
}

// IsPreset reports whether ref names a built-in table.
func IsPreset(ref string) bool {
	_, ok := presets[ref]
	return ok
}
