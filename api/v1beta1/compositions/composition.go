// Package compositions provides the Composition configuration type, which
// holds the user overrides applied when composing a configuration sequence.
package compositions

import (
	"fmt"
	"io/fs"
	"slices"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/lintcfg/api"
	"github.com/macropower/lintcfg/api/v1beta1"
	"github.com/macropower/lintcfg/pkg/compose"
	"github.com/macropower/lintcfg/pkg/ignorefile"
	"github.com/macropower/lintcfg/pkg/rule"
	"github.com/macropower/lintcfg/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen -o compositions.v1beta1.json

// Kind is the kind of composition files.
const Kind = "Composition"

// IgnoresName is the name of the fragment holding [Composition.Ignores].
const IgnoresName = "lintcfg/user-ignores"

var (
	// FileNames contains the valid names for composition files.
	FileNames = []string{
		".lintcfg.yaml",
		"lintcfg.yaml",
	}

	//go:embed composition.yaml
	defaultYAML []byte

	//go:embed compositions.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for compositions.
	ValidKinds = []string{Kind}

	// DefaultValidator validates compositions against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/compositions.v1beta1.json", schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Composition)(nil)
)

// Composition configures how the configuration sequence is composed.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Composition struct {
	// JavaScript overrides the untyped script fragment.
	JavaScript *compose.Override `json:"javascript,omitempty" jsonschema:"title=JavaScript"`
	// TypeScript overrides the typed script fragment.
	TypeScript *compose.Override `json:"typescript,omitempty" jsonschema:"title=TypeScript"`
	// Vue enables and overrides the vue fragment.
	Vue *compose.VueOptions `json:"vue,omitempty" jsonschema:"title=Vue"`
	// Normalize configures rule key normalization.
	Normalize *Normalize `json:"normalize,omitempty" jsonschema:"title=Normalize"`

	v1beta1.TypeMeta `json:",inline"`

	// Ignores are appended as a final global ignore fragment.
	Ignores []string `json:"ignores,omitempty" jsonschema:"title=Ignores"`
	// IgnoreFiles are read relative to the composition file. Defaults to
	// .gitignore and .eslintignore.
	IgnoreFiles []string `json:"ignoreFiles,omitempty" jsonschema:"title=Ignore Files"`
	// StrictIgnoreFiles makes missing ignore files an error.
	StrictIgnoreFiles bool `json:"strictIgnoreFiles,omitempty" jsonschema:"title=Strict Ignore Files"`
}

// Normalize configures the rule normalizer. Empty lists keep the defaults.
type Normalize struct {
	// Remaps replace the default namespace remaps. The first matching remap
	// applies.
	Remaps []rule.Remap `json:"remaps,omitempty" jsonschema:"title=Remaps"`
	// Downgrade replaces the namespaces whose error severities become
	// warnings.
	Downgrade []string `json:"downgrade,omitempty" jsonschema:"title=Downgrade"`
}

// New creates a new [Composition] with default values.
func New() *Composition {
	c := &Composition{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Composition) EnsureDefaults() {
	if c.Normalize == nil {
		c.Normalize = &Normalize{}
	}

	if c.IgnoreFiles == nil {
		c.IgnoreFiles = slices.Clone(ignorefile.DefaultFiles)
	}
}

// Validate checks the document envelope.
func (c *Composition) Validate() error {
	err := v1beta1.Check(c, ValidKinds...)
	if err != nil {
		return fmt.Errorf("validate composition: %w", err)
	}

	for i, r := range c.normalizerRemaps() {
		if r.From == "" {
			return fmt.Errorf("validate composition: normalize.remaps[%d]: %w", i, ErrEmptyRemap)
		}
	}

	return nil
}

func (c Composition) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// Options returns the compose options described by the composition. The
// result does not alias c.
func (c *Composition) Options() *compose.Options {
	opts := &compose.Options{
		JavaScript: c.JavaScript.Clone(),
		TypeScript: c.TypeScript.Clone(),
	}

	if c.Vue != nil {
		opts.Vue = &compose.VueOptions{
			Override: *c.Vue.Override.Clone(),
			Enabled:  c.Vue.Enabled,
		}
	}

	return opts
}

// Normalizer returns the rule normalizer described by the composition.
func (c *Composition) Normalizer() *rule.Normalizer {
	var opts []rule.NormalizerOpt

	if remaps := c.normalizerRemaps(); len(remaps) > 0 {
		opts = append(opts, rule.WithRemaps(remaps...))
	}

	if c.Normalize != nil && len(c.Normalize.Downgrade) > 0 {
		opts = append(opts, rule.WithDowngrade(c.Normalize.Downgrade...))
	}

	return rule.NewNormalizer(opts...)
}

// Importer returns an ignore file importer reading from fsys, which should be
// rooted at the directory of the composition file.
func (c *Composition) Importer(fsys fs.FS) *ignorefile.Importer {
	files := c.IgnoreFiles
	if files == nil {
		files = ignorefile.DefaultFiles
	}

	return ignorefile.New(fsys,
		ignorefile.WithFiles(files...),
		ignorefile.WithStrict(c.StrictIgnoreFiles),
	)
}

// IgnoresFragment returns the fragment holding the extra global ignores, or
// nil when there are none.
func (c *Composition) IgnoresFragment() *compose.Fragment {
	if len(c.Ignores) == 0 {
		return nil
	}

	return &compose.Fragment{
		Name:    IgnoresName,
		Ignores: slices.Clone(c.Ignores),
	}
}

func (c *Composition) normalizerRemaps() []rule.Remap {
	if c.Normalize == nil {
		return nil
	}

	return c.Normalize.Remaps
}

// MarshalYAML serializes the composition to YAML.
func (c Composition) MarshalYAML() ([]byte, error) {
	type alias Composition

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal composition: %w", err)
	}

	return b, nil
}

// Write writes the composition to path if it doesn't already exist.
func (c Composition) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write composition: %w", err)
	}

	return nil
}

// DefaultYAML returns the commented default composition file.
func DefaultYAML() []byte {
	return slices.Clone(defaultYAML)
}

// WriteDefault writes the default composition file to path. With vue set,
// the vue dialect is enabled in the written file.
func WriteDefault(path string, force, vue bool) error {
	data := DefaultYAML()

	if vue {
		var err error

		data, err = yaml.MergeFromValue(data, map[string]any{"enabled": true}, "vue")
		if err != nil {
			return fmt.Errorf("enable vue: %w", err)
		}
	}

	err := api.WriteDefaultFile(path, data, force, "composition")
	if err != nil {
		return fmt.Errorf("write default composition: %w", err)
	}

	return nil
}

// Find searches for a composition file starting from targetPath and walking
// up the directory tree until the filesystem root. It checks for all
// [FileNames] in each directory. It returns an empty string if no file is
// found.
func Find(targetPath string) (string, error) {
	path, err := api.FindConfigFile(targetPath, FileNames)
	if err != nil {
		return "", fmt.Errorf("find composition: %w", err)
	}

	return path, nil
}

// GetPath returns the path to the user's own composition file, used when no
// file is found in the project.
func GetPath() string {
	return api.GetConfigPath("composition.yaml")
}
