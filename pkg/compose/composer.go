package compose

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/lintcfg/pkg/log"
	"github.com/macropower/lintcfg/pkg/plugin"
	"github.com/macropower/lintcfg/pkg/preset"
	"github.com/macropower/lintcfg/pkg/rule"
)

// GroupVue is the optional plugin group loaded when vue is enabled.
const GroupVue = "vue"

// IgnoreImporter produces a fragment of ignore patterns read from ignore
// files. A nil fragment contributes nothing.
type IgnoreImporter interface {
	Import(ctx context.Context) (*Fragment, error)
}

// Composer builds configuration sequences. It only reads its catalog and
// presets, so a single Composer may be used concurrently.
type Composer struct {
	tracer     trace.Tracer
	catalog    *plugin.Catalog
	normalizer *rule.Normalizer
	importer   IgnoreImporter
	presets    preset.Set
	optional   map[string]plugin.Loader
	// Memoized optional group loaders, built by New.
	groups     map[string]plugin.Loader
}

// Opt configures a [Composer].
type Opt func(*Composer)

// WithCatalog sets the plugin catalog. Defaults to [plugin.Default].
func WithCatalog(c *plugin.Catalog) Opt {
	return func(cc *Composer) {
		cc.catalog = c
	}
}

// WithNormalizer sets the normalizer applied to every rule table.
func WithNormalizer(n *rule.Normalizer) Opt {
	return func(c *Composer) {
		c.normalizer = n
	}
}

// WithPresets sets the language presets. Defaults to [preset.MustLoad].
func WithPresets(s preset.Set) Opt {
	return func(c *Composer) {
		c.presets = s
	}
}

// WithIgnoreImporter sets the importer whose fragment follows the global
// ignores.
func WithIgnoreImporter(i IgnoreImporter) Opt {
	return func(c *Composer) {
		c.importer = i
	}
}

// WithOptional replaces the loader used for an optional plugin group.
// Without it, groups are loaded from the catalog. Either way a group is
// loaded at most once per [Composer].
func WithOptional(group string, l plugin.Loader) Opt {
	return func(c *Composer) {
		c.optional[group] = l
	}
}

// WithTracerProvider sets the provider of the composition tracer.
func WithTracerProvider(tp trace.TracerProvider) Opt {
	return func(c *Composer) {
		c.tracer = tp.Tracer("compose")
	}
}

// New creates a new [Composer].
func New(opts ...Opt) *Composer {
	c := &Composer{
		tracer:   otel.Tracer("compose"),
		optional: map[string]plugin.Loader{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.catalog == nil {
		c.catalog = plugin.Default()
	}

	if c.normalizer == nil {
		c.normalizer = rule.NewNormalizer()
	}

	if c.presets == nil {
		c.presets = preset.MustLoad()
	}

	c.groups = map[string]plugin.Loader{}
	for _, group := range c.catalog.Groups() {
		c.groups[group] = plugin.Once(c.catalog.Group(group))
	}

	for group, l := range c.optional {
		c.groups[group] = plugin.Once(l)
	}

	return c
}

// Compose returns the configuration sequence for the given options, in the
// fixed order: global ignores, imported ignores, plugin registration,
// typescript, javascript, vue (when enabled), yaml, toml, json, json5,
// jsonc, and the package.json override.
//
// Failures to load optional plugins are returned unchanged.
func (c *Composer) Compose(ctx context.Context, opts *Options) (Sequence, error) {
	if opts == nil {
		opts = &Options{}
	}

	vue := opts.VueEnabled()

	ctx, span := c.tracer.Start(ctx, "compose", trace.WithAttributes(
		attribute.Bool("vue", vue),
	))
	defer span.End()

	seq, err := c.compose(ctx, opts, vue)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compose")

		return nil, err
	}

	span.SetAttributes(attribute.Int("fragments", len(seq)))
	log.WithContext(ctx).DebugContext(ctx, "composed configuration",
		slog.Bool("vue", vue),
		slog.Any("fragments", seq.Names()),
	)

	return seq, nil
}

func (c *Composer) compose(ctx context.Context, opts *Options, vue bool) (Sequence, error) {
	plugins, err := c.plugins(ctx, vue)
	if err != nil {
		return nil, err
	}

	names := []string{
		preset.TypeScript, preset.JavaScript,
		preset.YAML, preset.TOML,
		preset.JSON, preset.JSON5, preset.JSONC,
	}
	if vue {
		names = append(names, preset.Vue)
	}

	tables := make(map[string]rule.Table, len(names))
	for _, name := range names {
		t, err := c.presets.Build(name, plugins, c.normalizer)
		if err != nil {
			return nil, fmt.Errorf("build preset %s: %w", name, err)
		}

		tables[name] = t
	}

	var imported *Fragment
	if c.importer != nil {
		imported, err = c.importer.Import(ctx)
		if err != nil {
			return nil, fmt.Errorf("import ignore files: %w", err)
		}
	}

	ts := c.typeScript(plugins, tables, opts.TypeScript, vue)
	js := c.javaScript(ts, tables, opts.JavaScript, vue)

	var vf *Fragment
	if vue {
		vf = c.vue(plugins, ts, opts.Vue.override())
	}

	jsonParser := plugins.Parser("json")

	return Concat(Sequence{
		{
			Name:     NameIgnores,
			Ignores:  slices.Clone(DefaultIgnores),
			Settings: DefaultSettings(),
		},
		imported,
		{
			Name:    NamePlugins,
			Plugins: plugins.Registrations(),
		},
		ts,
		js,
		vf,
		dataFragment(NameYAML, GlobsYAML, plugins.Parser("yaml"), tables[preset.YAML]),
		dataFragment(NameTOML, GlobsTOML, plugins.Parser("toml"), tables[preset.TOML]),
		dataFragment(NameJSON, GlobsJSON, jsonParser, tables[preset.JSON]),
		dataFragment(NameJSON5, GlobsJSON5, jsonParser, tables[preset.JSON5]),
		dataFragment(NameJSONC, GlobsJSONC, jsonParser, tables[preset.JSONC]),
		{
			Name:  NamePackageJSON,
			Files: slices.Clone(GlobsPackageJSON),
			Rules: c.normalizer.Normalize(rule.Off("json/sort-keys")),
		},
	}), nil
}

func (c *Composer) loader(group string) plugin.Loader {
	if l, ok := c.groups[group]; ok {
		return l
	}

	return c.catalog.Group(group)
}

func (c *Composer) typeScript(plugins plugin.Set, tables map[string]rule.Table, user *Override, vue bool) *Fragment {
	lo := user.languageOptions().Clone()
	if lo == nil {
		lo = &LanguageOptions{}
	}

	po := lo.ParserOptions
	if po == nil {
		po = &ParserOptions{}
	}

	features := map[string]any{"jsx": true}
	maps.Copy(features, po.EcmaFeatures)
	po.EcmaFeatures = features

	var exts []string
	if vue {
		exts = append(exts, ".vue")
	}

	po.ExtraFileExtensions = append(exts, po.ExtraFileExtensions...)

	tsParser := plugins.Parser("typescript")

	lo.Parser = tsParser
	po.Parser = ""

	if vue {
		lo.Parser = plugins.Parser("vue")
		po.Parser = tsParser
	}

	if po.Project == nil {
		po.Project = true
	}

	lo.ParserOptions = po

	return user.apply(&Fragment{
		Name:            NameTypeScript,
		Files:           slices.Clone(GlobsTypeScript),
		LanguageOptions: lo,
		Rules:           c.normalizer.Normalize(dialectTables(tables, preset.TypeScript, vue, user)...),
	})
}

func (c *Composer) javaScript(ts *Fragment, tables map[string]rule.Table, user *Override, vue bool) *Fragment {
	lo := ts.LanguageOptions.Clone()
	if lo.ParserOptions != nil {
		lo.ParserOptions.Project = nil
	}

	return user.apply(&Fragment{
		Name:            NameJavaScript,
		Files:           slices.Clone(GlobsJavaScript),
		LanguageOptions: lo.WithDefaults(user.languageOptions()),
		Rules:           c.normalizer.Normalize(dialectTables(tables, preset.JavaScript, vue, user)...),
	})
}

func (c *Composer) vue(plugins plugin.Set, ts *Fragment, user *Override) *Fragment {
	return user.apply(&Fragment{
		Name:            NameVue,
		Files:           slices.Clone(GlobsVue),
		LanguageOptions: ts.LanguageOptions.WithDefaults(user.languageOptions()),
		Processor:       plugins.Processor("vue", ".vue"),
		Rules:           c.normalizer.Normalize(ts.Rules.Raw(), user.rules()),
	})
}

// dialectTables returns the tables merged into a language fragment: the
// language preset, then the vue preset when enabled, then the user's rules.
func dialectTables(tables map[string]rule.Table, name string, vue bool, user *Override) []rule.Raw {
	out := []rule.Raw{tables[name].Raw()}
	if vue {
		out = append(out, tables[preset.Vue].Raw())
	}

	return append(out, user.rules())
}

func dataFragment(name string, files []string, parser string, rules rule.Table) *Fragment {
	f := &Fragment{
		Name:  name,
		Files: slices.Clone(files),
		Rules: rules.Clone(),
	}
	if parser != "" {
		f.LanguageOptions = &LanguageOptions{Parser: parser}
	}

	return f
}
