package preset

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/macropower/lintcfg/pkg/plugin"
	"github.com/macropower/lintcfg/pkg/rule"
	"github.com/macropower/lintcfg/pkg/yaml"
)

// Names of the embedded presets.
const (
	JavaScript = "javascript"
	TypeScript = "typescript"
	Vue        = "vue"
	JSON       = "json"
	JSON5      = "json5"
	JSONC      = "jsonc"
	TOML       = "toml"
	YAML       = "yaml"
)

var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrInvalidPreset = errors.New("invalid preset")
	ErrBaseCycle     = errors.New("preset base cycle")
)

//go:embed presets/*.yaml
var presetFS embed.FS

var embedded = sync.OnceValues(func() (Set, error) {
	sub, err := fs.Sub(presetFS, "presets")
	if err != nil {
		return nil, fmt.Errorf("open embedded presets: %w", err)
	}

	return LoadFS(sub)
})

// Preset is a named rule table for one language or file format.
type Preset struct {
	// Rules are applied on top of the base and plugin defaults.
	Rules rule.Raw `yaml:"rules,omitempty"`
	Name  string   `yaml:"name"`
	// Base names the preset whose built table this preset starts from.
	Base string `yaml:"base,omitempty"`
	// Extends lists the plugins whose default severities are included, in
	// order.
	Extends []string `yaml:"extends,omitempty"`
	// Disable lists rules turned off after Rules are applied.
	Disable []string `yaml:"disable,omitempty"`
}

// Set holds presets indexed by name.
type Set map[string]*Preset

// Load returns the presets embedded in the binary.
func Load() (Set, error) {
	s, err := embedded()
	if err != nil {
		return nil, err
	}

	return s.Clone(), nil
}

// MustLoad is like [Load] but panics on error.
func MustLoad() Set {
	s, err := Load()
	if err != nil {
		panic(err)
	}

	return s
}

// LoadFS decodes every "*.yaml" file at the root of fsys as a [Preset]. A
// preset without a name is named after its file.
func LoadFS(fsys fs.FS) (Set, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}

	s := make(Set, len(files))

	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read preset %s: %w", name, err)
		}

		p := &Preset{}

		err = yaml.NewDecoder(bytes.NewReader(data)).Decode(p)
		if err != nil {
			return nil, fmt.Errorf("decode preset %s: %w", path.Base(name), err)
		}

		if p.Name == "" {
			p.Name = strings.TrimSuffix(path.Base(name), path.Ext(name))
		}

		if _, ok := s[p.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidPreset, p.Name)
		}

		s[p.Name] = p
	}

	for _, p := range s {
		if p.Base != "" && !s.Has(p.Base) {
			return nil, fmt.Errorf("%w: %s: base %w: %q", ErrInvalidPreset, p.Name, ErrUnknownPreset, p.Base)
		}
	}

	return s, nil
}

// Names returns the preset names in lexicographic order.
func (s Set) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Has reports whether the set contains the named preset.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Get returns the named preset.
func (s Set) Get(name string) (*Preset, error) {
	p, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	return p, nil
}

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for name, p := range s {
		out[name] = p.Clone()
	}

	return out
}

// Clone returns a deep copy of the preset.
func (p *Preset) Clone() *Preset {
	c := *p
	c.Extends = slices.Clone(p.Extends)
	c.Disable = slices.Clone(p.Disable)

	if p.Rules != nil {
		c.Rules = rule.Raw{}
		for k, v := range p.Rules {
			if e, ok := rule.ParseEntry(v); ok {
				c.Rules[k] = e
			} else {
				c.Rules[k] = v
			}
		}
	}

	return &c
}

// Build returns the resolved rule table of the named preset: its defaults,
// then its rules, then its disables. Plugins in Extends that are missing from
// plugins contribute nothing.
func (s Set) Build(name string, plugins plugin.Set, n *rule.Normalizer) (rule.Table, error) {
	return s.build(name, plugins, n, true, nil)
}

// Defaults returns the table the named preset starts from: the built table of
// its base, followed by the defaults of the plugins it extends.
func (s Set) Defaults(name string, plugins plugin.Set, n *rule.Normalizer) (rule.Table, error) {
	return s.build(name, plugins, n, false, nil)
}

func (s Set) build(name string, plugins plugin.Set, n *rule.Normalizer, own bool, seen []string) (rule.Table, error) {
	if slices.Contains(seen, name) {
		return nil, fmt.Errorf("%w: %s", ErrBaseCycle, strings.Join(append(seen, name), " -> "))
	}

	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}

	var tables []rule.Raw

	if p.Base != "" {
		base, err := s.build(p.Base, plugins, n, true, append(seen, name))
		if err != nil {
			return nil, err
		}

		tables = append(tables, base.Raw())
	}

	tables = append(tables, plugins.Defaults(p.Extends...)...)

	if own {
		tables = append(tables, p.Rules, rule.Off(p.Disable...))
	}

	return n.Normalize(tables...), nil
}
