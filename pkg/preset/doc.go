// Package preset provides the per-language rule presets.
//
// A [Preset] starts from the built table of its base preset, adds the default
// severities of the plugins it extends, then applies its own rules and
// disables. Presets are embedded in the binary and loaded with [Load].
package preset
