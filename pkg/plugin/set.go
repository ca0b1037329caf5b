package plugin

import (
	"maps"
	"slices"

	"github.com/macropower/lintcfg/pkg/rule"
)

// Set is the active selection of plugins for one composition, indexed by
// plugin name.
type Set map[string]*Plugin

// Names returns the plugin names in lexicographic order.
func (s Set) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Has reports whether the set contains the named plugin.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for name, p := range s {
		out[name] = p.Clone()
	}

	return out
}

// Merge returns a new set holding the plugins of s and other. Plugins in other
// replace plugins of the same name in s.
func (s Set) Merge(other Set) Set {
	out := s.Clone()
	for name, p := range other {
		out[name] = p.Clone()
	}

	return out
}

// Registrations returns the plugin registration map of the set: each
// plugin's namespace mapped to the module it is loaded from. Core rules need
// no registration.
func (s Set) Registrations() map[string]string {
	out := make(map[string]string, len(s))
	for _, p := range s {
		if !p.Core {
			out[p.Namespace()] = p.Module
		}
	}

	return out
}

// Defaults returns the default severities of the named plugins, one table
// per plugin in the given order. Plugins missing from the set are skipped.
func (s Set) Defaults(names ...string) []rule.Raw {
	out := make([]rule.Raw, 0, len(names))
	for _, name := range names {
		if p, ok := s[name]; ok {
			out = append(out, p.Defaults())
		}
	}

	return out
}

// RuleKeys returns every qualified rule key provided by the set, in
// lexicographic order.
func (s Set) RuleKeys() []string {
	var keys []string
	for _, p := range s {
		keys = append(keys, p.RuleKeys()...)
	}

	slices.Sort(keys)

	return slices.Compact(keys)
}

// Parser returns the parser module of the named plugin, or "" when the plugin
// is absent or provides no parser.
func (s Set) Parser(name string) string {
	p, ok := s[name]
	if !ok {
		return ""
	}

	return p.Parser
}

// Processor returns the qualified processor reference of the named plugin,
// or "" when it is not available.
func (s Set) Processor(name, processor string) string {
	p, ok := s[name]
	if !ok {
		return ""
	}

	return p.Processor(processor)
}
