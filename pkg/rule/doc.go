// Package rule normalizes lint rule tables.
//
// Rule tables arrive from many places (plugin defaults, language presets,
// user overrides) and in several encodings: numeric or string severities,
// bare severities or severity-plus-options lists, and rule identifiers
// spelled with legacy plugin namespaces. A [Normalizer] merges any number of
// such [Raw] tables into one canonical [Table].
package rule
