package preset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/macropower/lintcfg/pkg/plugin"
	"github.com/macropower/lintcfg/pkg/rule"
)

// FindingKind classifies a [Finding].
type FindingKind string

const (
	// FindingUnknown is a rule that no plugin in the catalog provides.
	FindingUnknown FindingKind = "unknown"
	// FindingRedundant is a rule set to the value it already has by default.
	FindingRedundant FindingKind = "redundant"
)

// Finding is a problem with a single rule of a preset.
type Finding struct {
	Entry  rule.Entry  `json:"entry"`
	Preset string      `json:"preset,omitempty"`
	Key    string      `json:"key"`
	Kind   FindingKind `json:"kind"`
}

func (f Finding) String() string {
	var b strings.Builder
	if f.Preset != "" {
		b.WriteString(f.Preset)
		b.WriteString(": ")
	}

	switch f.Kind {
	case FindingUnknown:
		fmt.Fprintf(&b, "rule %s does not exist", f.Key)
	case FindingRedundant:
		fmt.Fprintf(&b, "rule %s is already set to its default %s", f.Key, f.Entry)
	default:
		fmt.Fprintf(&b, "rule %s: %s", f.Key, f.Kind)
	}

	return b.String()
}

// Audit checks the included rules against the known rule keys and the
// default table. Keys that are not known are reported as unknown; keys set to
// exactly their default entry are reported as redundant. Findings are sorted
// by key.
func Audit(included, defaults rule.Table, known []string) []Finding {
	var findings []Finding

	for _, key := range included.Keys() {
		e := included[key]

		if !slices.Contains(known, key) {
			findings = append(findings, Finding{Key: key, Kind: FindingUnknown, Entry: e.Clone()})
			continue
		}

		if d, ok := defaults[key]; ok && d.Equal(e) {
			findings = append(findings, Finding{Key: key, Kind: FindingRedundant, Entry: e.Clone()})
		}
	}

	return findings
}

// Audit checks the own rules and disables of the named preset against plugins
// and the preset's defaults.
func (s Set) Audit(name string, plugins plugin.Set, n *rule.Normalizer) ([]Finding, error) {
	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}

	defaults, err := s.Defaults(name, plugins, n)
	if err != nil {
		return nil, err
	}

	findings := Audit(n.Normalize(p.Rules, rule.Off(p.Disable...)), defaults, plugins.RuleKeys())
	for i := range findings {
		findings[i].Preset = name
	}

	return findings, nil
}
