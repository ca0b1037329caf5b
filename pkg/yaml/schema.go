package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator generates a JSON schema for a Go type, with descriptions
// taken from the Go comments of the listed packages.
type SchemaGenerator struct {
	v        any
	base     string
	packages []string
}

// NewSchemaGenerator creates a new [SchemaGenerator] for v. base is the
// module path and packages are directories relative to the working
// directory whose comments are included.
func NewSchemaGenerator(v any, base string, packages ...string) *SchemaGenerator {
	return &SchemaGenerator{
		v:        v,
		base:     base,
		packages: packages,
	}
}

// Generate returns the indented JSON schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}

	for _, pkg := range g.packages {
		err := r.AddGoComments(g.base, pkg)
		if err != nil {
			return nil, fmt.Errorf("add go comments from %s: %w", pkg, err)
		}
	}

	jss := r.Reflect(g.v)

	b, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}
