package plugin

import (
	"maps"
	"slices"

	"github.com/macropower/lintcfg/pkg/rule"
)

// Meta describes a single rule provided by a [Plugin].
//
// Schema is kept as decoded and never interpreted.
type Meta struct {
	// Default is the severity the plugin's recommended configuration assigns
	// to the rule. Rules outside the recommended configuration have none.
	Default     *rule.Entry `json:"default,omitempty"     yaml:"default,omitempty"`
	Schema      any         `json:"schema,omitempty"      yaml:"schema,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string      `json:"url,omitempty"         yaml:"url,omitempty"`
	Type        string      `json:"type,omitempty"        yaml:"type,omitempty"`
	Fixable     string      `json:"fixable,omitempty"     yaml:"fixable,omitempty"`
	Deprecated  bool        `json:"deprecated,omitempty"  yaml:"deprecated,omitempty"`
}

// Plugin is the catalog entry for a lint plugin.
type Plugin struct {
	// Rules maps short rule names to their metadata.
	Rules map[string]Meta `yaml:"rules"`
	// Name is the canonical namespace of the plugin's rules.
	Name string `yaml:"name"`
	// Module is the package the engine loads the plugin from.
	Module string `yaml:"module"`
	// Parser is the parser module for the file format the plugin lints, if any.
	Parser string `yaml:"parser,omitempty"`
	// Group names the optional group the plugin belongs to. Plugins without a
	// group are part of the default set.
	Group string `yaml:"group,omitempty"`
	// Aliases lists legacy namespaces that resolve to Name.
	Aliases []string `yaml:"aliases,omitempty"`
	// Processors lists the processor names the plugin provides.
	Processors []string `yaml:"processors,omitempty"`
	// Core marks the engine's built-in rules, which carry no namespace.
	Core bool `yaml:"core,omitempty"`
}

// Namespace returns the prefix used by the plugin's rule keys. Core rules
// have none.
func (p *Plugin) Namespace() string {
	if p.Core {
		return ""
	}

	return p.Name
}

// Key returns the qualified identifier of the plugin rule name.
func (p *Plugin) Key(name string) string {
	return rule.Qualify(p.Namespace(), name)
}

// RuleKeys returns the qualified identifiers of all of the plugin's rules in
// lexicographic order.
func (p *Plugin) RuleKeys() []string {
	keys := make([]string, 0, len(p.Rules))
	for name := range p.Rules {
		keys = append(keys, p.Key(name))
	}

	slices.Sort(keys)

	return keys
}

// Defaults returns the plugin's default severities as a [rule.Raw] table with
// qualified keys.
func (p *Plugin) Defaults() rule.Raw {
	out := rule.Raw{}
	for name, m := range p.Rules {
		if m.Default != nil {
			out[p.Key(name)] = m.Default.Clone()
		}
	}

	return out
}

// Processor returns the qualified processor reference, or "" when the plugin
// does not provide it.
func (p *Plugin) Processor(name string) string {
	if !slices.Contains(p.Processors, name) {
		return ""
	}

	return p.Name + "/" + name
}

// Remaps returns the namespace remaps that rewrite the plugin's aliases to its
// canonical namespace.
func (p *Plugin) Remaps() []rule.Remap {
	remaps := make([]rule.Remap, 0, len(p.Aliases))
	for _, alias := range p.Aliases {
		remaps = append(remaps, rule.Remap{From: alias, To: p.Name})
	}

	return remaps
}

// Clone returns a deep copy of the plugin.
func (p *Plugin) Clone() *Plugin {
	c := *p
	c.Aliases = slices.Clone(p.Aliases)
	c.Processors = slices.Clone(p.Processors)
	c.Rules = maps.Clone(p.Rules)

	for name, m := range c.Rules {
		if m.Default != nil {
			d := m.Default.Clone()
			m.Default = &d
			c.Rules[name] = m
		}
	}

	return &c
}
