package compose

import (
	"maps"
	"slices"

	"github.com/macropower/lintcfg/pkg/rule"
)

// Fragment is one scoped unit of the configuration sequence.
//
// Rules only ever hold canonical keys and string severities. Files and
// Ignores are glob patterns in the engine's dialect and are never
// reinterpreted.
type Fragment struct {
	LanguageOptions *LanguageOptions `json:"languageOptions,omitempty"`
	Settings        map[string]any   `json:"settings,omitempty"`
	// Plugins maps a namespace to the module registered under it.
	Plugins   map[string]string `json:"plugins,omitempty"`
	Rules     rule.Table        `json:"rules,omitempty"`
	Name      string            `json:"name,omitempty"`
	Processor string            `json:"processor,omitempty"`
	Files     []string          `json:"files,omitempty"`
	Ignores   []string          `json:"ignores,omitempty"`
}

// Clone returns a deep copy of the fragment. Clone of nil is nil.
func (f *Fragment) Clone() *Fragment {
	if f == nil {
		return nil
	}

	c := *f
	c.LanguageOptions = f.LanguageOptions.Clone()
	c.Settings = cloneMap(f.Settings)
	c.Plugins = maps.Clone(f.Plugins)
	c.Rules = f.Rules.Clone()
	c.Files = slices.Clone(f.Files)
	c.Ignores = slices.Clone(f.Ignores)

	return &c
}

// Sequence is an ordered list of fragments. For a file matched by several
// fragments, later fragments take precedence.
type Sequence []*Fragment

// Names returns the name of each fragment, in order.
func (s Sequence) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.Name)
	}

	return names
}

// Get returns the first fragment with the given name.
func (s Sequence) Get(name string) (*Fragment, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}

	return nil, false
}

// Clone returns a deep copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}

	out := make(Sequence, 0, len(s))
	for _, f := range s {
		out = append(out, f.Clone())
	}

	return out
}

// Concat joins sequences in argument order, skipping nil fragments.
func Concat(parts ...Sequence) Sequence {
	out := Sequence{}

	for _, part := range parts {
		for _, f := range part {
			if f != nil {
				out = append(out, f)
			}
		}
	}

	return out
}
