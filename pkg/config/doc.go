// Package config loads composition files.
//
// It wraps the api types to provide a single API for finding, validating,
// and decoding configuration files in YAML format.
package config
