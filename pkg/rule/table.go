package rule

import (
	"maps"
	"slices"
	"strings"
)

// Raw is a partial rule table that has not been normalized yet.
//
// Values may use any encoding accepted by [ParseEntry]. A nil value means the
// table has no opinion on that rule.
type Raw map[string]any

// Table is a canonical rule table: every key uses its canonical namespace and
// every entry has one of the three canonical severities.
type Table map[string]Entry

// Keys returns the table's rule identifiers in lexicographic order.
func (t Table) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}

	out := make(Table, len(t))
	for k, e := range t {
		out[k] = e.Clone()
	}

	return out
}

// Raw converts the table back into a [Raw] table, so that it can be used as
// input to another normalization.
func (t Table) Raw() Raw {
	if t == nil {
		return nil
	}

	out := make(Raw, len(t))
	for k, e := range t {
		out[k] = e.Clone()
	}

	return out
}

// Equal reports whether both tables contain the same keys with equal entries.
func (t Table) Equal(other Table) bool {
	if len(t) != len(other) {
		return false
	}

	for k, e := range t {
		o, ok := other[k]
		if !ok || !e.Equal(o) {
			return false
		}
	}

	return true
}

// Namespace returns the entries whose key belongs to namespace ns.
func (t Table) Namespace(ns string) Table {
	out := Table{}
	for k, e := range t {
		if Namespace(k) == ns {
			out[k] = e.Clone()
		}
	}

	return out
}

// Off returns a [Raw] table that turns off every given rule.
func Off(keys ...string) Raw {
	out := make(Raw, len(keys))
	for _, k := range keys {
		out[k] = SeverityOff
	}

	return out
}

// Namespace returns the plugin namespace of a rule identifier: the part before
// the first "/", or "" for core rules.
func Namespace(key string) string {
	ns, _, found := strings.Cut(key, "/")
	if !found {
		return ""
	}

	return ns
}

// Name returns the rule identifier without its plugin namespace.
func Name(key string) string {
	_, name, found := strings.Cut(key, "/")
	if !found {
		return key
	}

	return name
}

// Qualify prefixes a short rule name with namespace ns. An empty namespace
// leaves the name unchanged.
func Qualify(ns, name string) string {
	if ns == "" {
		return name
	}

	return ns + "/" + name
}
