package rule

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Remap rewrites rule identifiers under namespace From to namespace To, or
// drops them entirely when Remove is set.
type Remap struct {
	// From is the namespace to match, without the trailing "/".
	From string `json:"from" jsonschema:"title=Source Namespace"`
	// To is the namespace that replaces From.
	To string `json:"to,omitempty" jsonschema:"title=Target Namespace"`
	// Remove drops every rule under From.
	Remove bool `json:"remove,omitempty" jsonschema:"title=Remove"`
}

// Apply rewrites key if it belongs to the remap's source namespace. It
// returns the rewritten key, whether the remap matched, and whether the key
// should be kept.
func (r Remap) Apply(key string) (string, bool, bool) {
	if r.From == "" || !strings.HasPrefix(key, r.From+"/") {
		return key, false, true
	}

	if r.Remove {
		return "", true, false
	}

	return r.To + key[len(r.From):], true, true
}

var (
	// DefaultRemaps canonicalizes overlapping plugin ecosystems into one
	// namespace each. Babel and React rules have no place in the canonical
	// namespace and are removed.
	DefaultRemaps = []Remap{
		{From: "@babel", Remove: true},
		{From: "react", Remove: true},
		{From: "@typescript-eslint", To: "typescript"},
		{From: "vuejs-accessibility", To: "vue-a11y"},
		{From: "yml", To: "yaml"},
		{From: "jsonc", To: "json"},
		{From: "@stylistic", To: "stylistic"},
	}

	// DefaultDowngrade lists the namespaces whose errors are reported as
	// warnings. Ordering and sorting violations should never block.
	DefaultDowngrade = []string{"perfectionist"}

	defaultNormalizer = NewNormalizer()
)

// Normalizer merges [Raw] tables into a canonical [Table].
//
// A Normalizer is immutable once created and safe for concurrent use.
type Normalizer struct {
	downgrade map[string]struct{}
	remaps    []Remap
}

// NormalizerOpt configures a [Normalizer].
type NormalizerOpt func(*Normalizer)

// WithRemaps replaces the ordered namespace remap list.
func WithRemaps(remaps ...Remap) NormalizerOpt {
	return func(n *Normalizer) {
		n.remaps = slices.Clone(remaps)
	}
}

// WithDowngrade replaces the namespaces whose errors are downgraded to
// warnings.
func WithDowngrade(namespaces ...string) NormalizerOpt {
	return func(n *Normalizer) {
		n.downgrade = make(map[string]struct{}, len(namespaces))
		for _, ns := range namespaces {
			n.downgrade[ns] = struct{}{}
		}
	}
}

// NewNormalizer creates a new [Normalizer]. Without options it uses
// [DefaultRemaps] and [DefaultDowngrade].
func NewNormalizer(opts ...NormalizerOpt) *Normalizer {
	n := &Normalizer{}

	WithRemaps(DefaultRemaps...)(n)
	WithDowngrade(DefaultDowngrade...)(n)

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Remaps returns a copy of the normalizer's remap list.
func (n *Normalizer) Remaps() []Remap {
	return slices.Clone(n.remaps)
}

// Downgrade returns the downgraded namespaces in lexicographic order.
func (n *Normalizer) Downgrade() []string {
	return slices.Sorted(maps.Keys(n.downgrade))
}

// Key returns the canonical form of a rule identifier. The first remap whose
// namespace matches wins. It returns false when the key's namespace is
// removed.
func (n *Normalizer) Key(key string) (string, bool) {
	for _, r := range n.remaps {
		out, matched, keep := r.Apply(key)
		if matched {
			return out, keep
		}
	}

	return key, true
}

// Severity applies the downgrade policy to a canonical key's severity: an
// error in a downgraded namespace becomes a warning. Other severities are
// unchanged.
func (n *Normalizer) Severity(key string, s Severity) Severity {
	if s != SeverityError {
		return s
	}

	if _, ok := n.downgrade[Namespace(key)]; ok {
		return SeverityWarn
	}

	return s
}

// Entry canonicalizes a single value for the canonical key. It returns false
// when the value is nil or its severity cannot be resolved.
func (n *Normalizer) Entry(key string, v any) (Entry, bool) {
	if v == nil {
		return Entry{}, false
	}

	e, ok := ParseEntry(v)
	if !ok {
		slog.Warn("drop rule with invalid severity",
			slog.String("rule", key),
			slog.Any("value", v),
		)

		return Entry{}, false
	}

	e.Severity = n.Severity(key, e.Severity)

	return e, true
}

// Normalize merges tables from left to right into one canonical [Table].
//
// For each canonical key, the last table holding a non-nil value wins; nil
// tables and nil values are skipped. Entries are replaced wholesale, never
// merged. Keys in removed namespaces are dropped. Zero tables yield an empty
// table.
func (n *Normalizer) Normalize(tables ...Raw) Table {
	out := Table{}

	for _, t := range tables {
		maps.Copy(out, n.normalizeOne(t))
	}

	return out
}

// normalizeOne canonicalizes a single table. When two raw keys collide after
// remapping, the key that was already canonical wins; otherwise the
// lexicographically greater raw key wins.
func (n *Normalizer) normalizeOne(t Raw) Table {
	out := make(Table, len(t))
	canonical := make(map[string]bool, len(t))

	for _, rawKey := range slices.Sorted(maps.Keys(t)) {
		key, keep := n.Key(rawKey)
		if !keep {
			slog.Debug("drop rule in removed namespace", slog.String("rule", rawKey))
			continue
		}

		e, ok := n.Entry(key, t[rawKey])
		if !ok {
			continue
		}

		if canonical[key] {
			continue
		}

		out[key] = e
		canonical[key] = rawKey == key
	}

	return out
}

// Normalize merges tables using the default [Normalizer].
func Normalize(tables ...Raw) Table {
	return defaultNormalizer.Normalize(tables...)
}
