package compose

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/invopop/jsonschema"

	"github.com/macropower/lintcfg/pkg/rule"
)

// ErrInvalidParserOptions indicates parser options with a malformed known
// field.
var ErrInvalidParserOptions = errors.New("invalid parser options")

// LanguageOptions configures how the engine parses matched files.
type LanguageOptions struct {
	EcmaVersion   any            `json:"ecmaVersion,omitempty"   jsonschema:"title=ECMA Version"`
	Globals       map[string]any `json:"globals,omitempty"       jsonschema:"title=Globals"`
	ParserOptions *ParserOptions `json:"parserOptions,omitempty" jsonschema:"title=Parser Options"`
	// Parser is the module the engine loads the parser from.
	Parser     string `json:"parser,omitempty"     jsonschema:"title=Parser"`
	SourceType string `json:"sourceType,omitempty" jsonschema:"title=Source Type,enum=script,enum=module,enum=commonjs"`
}

// Clone returns a deep copy of the language options. Clone of nil is nil.
func (l *LanguageOptions) Clone() *LanguageOptions {
	if l == nil {
		return nil
	}

	c := *l
	c.EcmaVersion = rule.CloneValue(l.EcmaVersion)
	c.Globals = cloneMap(l.Globals)
	c.ParserOptions = l.ParserOptions.Clone()

	return &c
}

// WithDefaults returns a copy of l with every unset field filled from
// defaults. Nested maps are filled key by key; lists are never merged.
func (l *LanguageOptions) WithDefaults(defaults *LanguageOptions) *LanguageOptions {
	if l == nil {
		return defaults.Clone()
	}

	c := l.Clone()
	if defaults == nil {
		return c
	}

	if c.Parser == "" {
		c.Parser = defaults.Parser
	}

	if c.SourceType == "" {
		c.SourceType = defaults.SourceType
	}

	if c.EcmaVersion == nil {
		c.EcmaVersion = rule.CloneValue(defaults.EcmaVersion)
	}

	c.Globals = fillMap(c.Globals, defaults.Globals)
	c.ParserOptions = c.ParserOptions.WithDefaults(defaults.ParserOptions)

	return c
}

// ParserOptions are passed to the parser verbatim. The fields below are the
// ones composition sets; any other option is carried in Extra.
type ParserOptions struct {
	// Project is the type-checking project setting: true, a path, or a list
	// of paths. Nil means unset.
	Project             any
	EcmaFeatures        map[string]any
	Extra               map[string]any
	Parser              string
	ExtraFileExtensions []string
}

// Clone returns a deep copy of the parser options. Clone of nil is nil.
func (p *ParserOptions) Clone() *ParserOptions {
	if p == nil {
		return nil
	}

	return &ParserOptions{
		Project:             rule.CloneValue(p.Project),
		EcmaFeatures:        cloneMap(p.EcmaFeatures),
		Extra:               cloneMap(p.Extra),
		Parser:              p.Parser,
		ExtraFileExtensions: slices.Clone(p.ExtraFileExtensions),
	}
}

// WithDefaults returns a copy of p with every unset field filled from
// defaults.
func (p *ParserOptions) WithDefaults(defaults *ParserOptions) *ParserOptions {
	if p == nil {
		return defaults.Clone()
	}

	c := p.Clone()
	if defaults == nil {
		return c
	}

	if c.Project == nil {
		c.Project = rule.CloneValue(defaults.Project)
	}

	if c.Parser == "" {
		c.Parser = defaults.Parser
	}

	if len(c.ExtraFileExtensions) == 0 {
		c.ExtraFileExtensions = slices.Clone(defaults.ExtraFileExtensions)
	}

	c.EcmaFeatures = fillMap(c.EcmaFeatures, defaults.EcmaFeatures)
	c.Extra = fillMap(c.Extra, defaults.Extra)

	return c
}

// JSONSchema describes parser options as an open object.
func (ParserOptions) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("ecmaFeatures", &jsonschema.Schema{
		Type:                 "object",
		Title:                "ECMA Features",
		AdditionalProperties: jsonschema.TrueSchema,
	})
	props.Set("extraFileExtensions", &jsonschema.Schema{
		Type:  "array",
		Title: "Extra File Extensions",
		Items: &jsonschema.Schema{Type: "string"},
	})
	props.Set("parser", &jsonschema.Schema{Type: "string", Title: "Parser"})
	props.Set("project", &jsonschema.Schema{Title: "Project"})

	return &jsonschema.Schema{
		Type:                 "object",
		Title:                "Parser Options",
		Properties:           props,
		AdditionalProperties: jsonschema.TrueSchema,
	}
}

// Map returns the parser options in the form the engine expects.
func (p *ParserOptions) Map() map[string]any {
	out := cloneMap(p.Extra)
	if out == nil {
		out = map[string]any{}
	}

	if p.EcmaFeatures != nil {
		out["ecmaFeatures"] = cloneMap(p.EcmaFeatures)
	}

	if len(p.ExtraFileExtensions) > 0 {
		out["extraFileExtensions"] = slices.Clone(p.ExtraFileExtensions)
	}

	if p.Parser != "" {
		out["parser"] = p.Parser
	}

	if p.Project != nil {
		out["project"] = rule.CloneValue(p.Project)
	}

	return out
}

// MarshalJSON implements [json.Marshaler].
func (p *ParserOptions) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(p.Map())
	if err != nil {
		return nil, fmt.Errorf("marshal parser options: %w", err)
	}

	return b, nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (p *ParserOptions) UnmarshalJSON(b []byte) error {
	var m map[string]any

	err := json.Unmarshal(b, &m)
	if err != nil {
		return fmt.Errorf("unmarshal parser options: %w", err)
	}

	return p.set(m)
}

// MarshalYAML returns the value encoded by YAML marshalers.
func (p *ParserOptions) MarshalYAML() (any, error) {
	return p.Map(), nil
}

// UnmarshalYAML reads parser options from a YAML mapping.
func (p *ParserOptions) UnmarshalYAML(unmarshal func(any) error) error {
	var m map[string]any

	err := unmarshal(&m)
	if err != nil {
		return err //nolint:wrapcheck // Return the original error.
	}

	return p.set(m)
}

func (p *ParserOptions) set(m map[string]any) error {
	out := ParserOptions{}

	for k, v := range m {
		switch k {
		case "ecmaFeatures":
			features, ok := v.(map[string]any)
			if !ok && v != nil {
				return fmt.Errorf("%w: ecmaFeatures: expected mapping, got %T", ErrInvalidParserOptions, v)
			}

			out.EcmaFeatures = cloneMap(features)

		case "extraFileExtensions":
			exts, err := stringList(v)
			if err != nil {
				return fmt.Errorf("%w: extraFileExtensions: %w", ErrInvalidParserOptions, err)
			}

			out.ExtraFileExtensions = exts

		case "parser":
			parser, ok := v.(string)
			if !ok && v != nil {
				return fmt.Errorf("%w: parser: expected string, got %T", ErrInvalidParserOptions, v)
			}

			out.Parser = parser

		case "project":
			out.Project = rule.CloneValue(v)

		default:
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}

			out.Extra[k] = rule.CloneValue(v)
		}
	}

	*p = out

	return nil
}

func stringList(v any) ([]string, error) {
	switch tv := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return slices.Clone(tv), nil
	case []any:
		out := make([]string, 0, len(tv))
		for _, x := range tv {
			s, ok := x.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", x)
			}

			out = append(out, s)
		}

		return out, nil
	}

	return nil, fmt.Errorf("expected list, got %T", v)
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = rule.CloneValue(v)
	}

	return out
}

// fillMap sets every key of defaults that is unset in dst. Nested mappings
// present on both sides are filled recursively.
func fillMap(dst, defaults map[string]any) map[string]any {
	if len(defaults) == 0 {
		return dst
	}

	if dst == nil {
		return cloneMap(defaults)
	}

	for _, k := range slices.Sorted(maps.Keys(defaults)) {
		dv := defaults[k]

		cur, ok := dst[k]
		switch {
		case !ok || cur == nil:
			dst[k] = rule.CloneValue(dv)
		default:
			curMap, curOK := cur.(map[string]any)
			defMap, defOK := dv.(map[string]any)

			if curOK && defOK {
				dst[k] = fillMap(curMap, defMap)
			}
		}
	}

	return dst
}
