package yaml

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator checks decoded documents against a compiled JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
	url    string
}

// NewValidator compiles schemaData, registered under url, into a [Validator].
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	var doc any

	err := json.Unmarshal(schemaData, &doc)
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()

	err = c.AddResource(url, doc)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: schema, url: url}, nil
}

// MustNewValidator is like [NewValidator] but panics on error. It is meant
// for embedded schemas.
func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// URL returns the URL the schema was registered under.
func (v *Validator) URL() string {
	return v.url
}

// Validate checks data, which must be decoded into generic JSON types.
//
// Schema violations are returned as an [*Error] whose Path points at the
// deepest offending node, so it can be annotated against the YAML source.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return &Error{
		Err:  verr,
		Path: locationPath(deepestLocation(verr)),
	}
}

// deepestLocation returns the longest instance location among err and its
// causes.
func deepestLocation(err *jsonschema.ValidationError) []string {
	loc := err.InstanceLocation
	for _, cause := range err.Causes {
		if l := deepestLocation(cause); len(l) > len(loc) {
			loc = l
		}
	}

	return loc
}

// locationPath converts a JSON pointer style location into a [*yaml.Path].
// Numeric segments are treated as sequence indexes.
func locationPath(location []string) *yaml.Path {
	p := NewPathBuilder().Root()
	for _, part := range location {
		if idx, err := strconv.ParseUint(part, 10, 0); err == nil {
			p = p.Index(uint(idx))

			continue
		}

		p = p.Child(part)
	}

	return p.Build()
}
