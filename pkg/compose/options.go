package compose

import (
	"slices"

	"github.com/macropower/lintcfg/pkg/rule"
)

// Options hold the user-supplied overrides for each language fragment.
type Options struct {
	JavaScript *Override   `json:"javascript,omitempty"`
	TypeScript *Override   `json:"typescript,omitempty"`
	Vue        *VueOptions `json:"vue,omitempty"`
}

// VueEnabled reports whether the vue dialect is enabled.
func (o *Options) VueEnabled() bool {
	return o != nil && o.Vue != nil && o.Vue.Enabled
}

// Override is a partial fragment supplied by the user for one language.
// Unset fields keep the composed defaults. Rules may use legacy namespaces
// and numeric severities; they are normalized during composition.
type Override struct {
	LanguageOptions *LanguageOptions `json:"languageOptions,omitempty" jsonschema:"title=Language Options"`
	Settings        map[string]any   `json:"settings,omitempty"        jsonschema:"title=Settings"`
	// Rules are keyed by rule identifier. Values are a severity or a list of
	// a severity followed by options.
	Rules   rule.Raw `json:"rules,omitempty"   jsonschema:"title=Rules"`
	Name    string   `json:"name,omitempty"    jsonschema:"title=Name"`
	Files   []string `json:"files,omitempty"   jsonschema:"title=Files"`
	Ignores []string `json:"ignores,omitempty" jsonschema:"title=Ignores"`
}

// Clone returns a deep copy of the override. Clone of nil is nil.
func (o *Override) Clone() *Override {
	if o == nil {
		return nil
	}

	c := *o
	c.LanguageOptions = o.LanguageOptions.Clone()
	c.Settings = cloneMap(o.Settings)
	c.Files = slices.Clone(o.Files)
	c.Ignores = slices.Clone(o.Ignores)

	if o.Rules != nil {
		c.Rules = make(rule.Raw, len(o.Rules))
		for k, v := range o.Rules {
			c.Rules[k] = rule.CloneValue(v)
		}
	}

	return &c
}

// VueOptions is the vue override plus its enablement flag.
type VueOptions struct {
	Override `json:",inline"`

	// Enabled adds the vue fragment and loads the vue plugins.
	Enabled bool `json:"enabled,omitempty" jsonschema:"title=Enabled"`
}

func (o *Override) rules() rule.Raw {
	if o == nil {
		return nil
	}

	return o.Rules
}

func (o *Override) languageOptions() *LanguageOptions {
	if o == nil {
		return nil
	}

	return o.LanguageOptions
}

func (o *Override) parserOptions() *ParserOptions {
	lo := o.languageOptions()
	if lo == nil {
		return nil
	}

	return lo.ParserOptions
}

// apply returns a fragment built from the user's override with the composed
// fields set on top. Fields the composer does not set come from the user.
func (o *Override) apply(f *Fragment) *Fragment {
	if o == nil {
		return f
	}

	if o.Name != "" {
		f.Name = o.Name
	}

	if len(o.Files) > 0 {
		f.Files = slices.Clone(o.Files)
	}

	if len(o.Ignores) > 0 {
		f.Ignores = slices.Clone(o.Ignores)
	}

	if o.Settings != nil {
		f.Settings = cloneMap(o.Settings)
	}

	return f
}

func (v *VueOptions) override() *Override {
	if v == nil {
		return nil
	}

	return &v.Override
}
