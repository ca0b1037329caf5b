package yaml

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"
)

// MergeFromValue merges v into the node found by following keys from the
// document root, and returns the updated document. Mappings are merged key by
// key; any other node is replaced. Comments outside the replaced nodes are kept.
//
// With no keys, v is merged into the root mapping.
func MergeFromValue(data []byte, v any, keys ...string) ([]byte, error) {
	file, err := parser.ParseBytes(data, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	node, err := yaml.ValueToNode(v, DefaultEncoderOptions...)
	if err != nil {
		return nil, fmt.Errorf("convert value to node: %w", err)
	}

	path := NewPathBuilder().Root()
	for _, k := range keys {
		path = path.Child(k)
	}

	err = path.Build().MergeFromNode(file, node)
	if err != nil {
		return nil, fmt.Errorf("merge yaml at %v: %w", keys, err)
	}

	return []byte(file.String()), nil
}

// MergeRootFromValue merges v into the root mapping of data.
func MergeRootFromValue(data []byte, v any) ([]byte, error) {
	return MergeFromValue(data, v)
}
