// Package plugin provides the catalog of lint plugins and their rules.
//
// The catalog is embedded data decoded once per process by [Default]. A
// [Set] is the active selection of plugins for one composition; optional
// groups are added to a set with [Resolve].
package plugin
