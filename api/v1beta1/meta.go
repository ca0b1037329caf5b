// Package v1beta1 contains the v1beta1 API types for lintcfg configuration.
package v1beta1

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

// APIVersion is the current API version for all lintcfg configuration kinds.
const APIVersion = "lintcfg.macropower.dev/v1beta1"

var (
	ErrUnknownAPIVersion = errors.New("unknown api version")
	ErrUnknownKind       = errors.New("unknown kind")

	// ValidAPIVersions contains all valid API versions.
	ValidAPIVersions = []string{APIVersion}
)

// TypeMeta holds the apiVersion and kind every configuration document starts
// with. Kinds embed it inline.
type TypeMeta struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// GetAPIVersion returns the API version.
func (tm TypeMeta) GetAPIVersion() string {
	return tm.APIVersion
}

// GetKind returns the kind.
func (tm TypeMeta) GetKind() string {
	return tm.Kind
}

// Object is implemented by every configuration kind. EnsureDefaults fills
// unset fields after decoding.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// Check returns an error when the object's apiVersion or kind is not one of
// the accepted values.
func Check(obj Object, kinds ...string) error {
	if !slices.Contains(ValidAPIVersions, obj.GetAPIVersion()) {
		return fmt.Errorf("%w: %q", ErrUnknownAPIVersion, obj.GetAPIVersion())
	}

	if !slices.Contains(kinds, obj.GetKind()) {
		return fmt.Errorf("%w: %q", ErrUnknownKind, obj.GetKind())
	}

	return nil
}

// ExtendSchemaWithEnums restricts the apiVersion and kind properties of jss
// to the given values. It panics if either property is missing, which means
// jss was not generated from a type embedding [TypeMeta].
func ExtendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	constOneOf(jss, "apiVersion", "API Version", apiVersions)
	constOneOf(jss, "kind", "Kind", kinds)
}

func constOneOf(jss *jsonschema.Schema, property, title string, values []string) {
	prop, ok := jss.Properties.Get(property)
	if !ok {
		panic(property + " property not found in schema")
	}

	for _, v := range values {
		prop.OneOf = append(prop.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: v,
			Title: title,
		})
	}

	_, _ = jss.Properties.Set(property, prop)
}
