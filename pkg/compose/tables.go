package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/lintcfg/pkg/log"
	"github.com/macropower/lintcfg/pkg/plugin"
	"github.com/macropower/lintcfg/pkg/preset"
	"github.com/macropower/lintcfg/pkg/rule"
)

// ErrUnknownLanguage indicates a language without a preset.
var ErrUnknownLanguage = errors.New("unknown language")

// Languages returns the names of the languages with a preset, sorted.
func (c *Composer) Languages() []string {
	return c.presets.Names()
}

// RuleKeys returns every rule key provided by the catalog, sorted.
func (c *Composer) RuleKeys() []string {
	return c.catalog.RuleKeys()
}

// Table returns the resolved rule table of one language. Optional plugin
// groups are loaded only when the language needs them.
func (c *Composer) Table(ctx context.Context, language string) (rule.Table, error) {
	if !c.presets.Has(language) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}

	plugins, err := c.plugins(ctx, language == preset.Vue)
	if err != nil {
		return nil, err
	}

	t, err := c.presets.Build(language, plugins, c.normalizer)
	if err != nil {
		return nil, fmt.Errorf("build preset %s: %w", language, err)
	}

	return t, nil
}

// Tables returns the resolved rule table of every language, keyed by
// language name.
func (c *Composer) Tables(ctx context.Context) (map[string]rule.Table, error) {
	plugins, err := c.plugins(ctx, true)
	if err != nil {
		return nil, err
	}

	tables := make(map[string]rule.Table, len(c.presets))
	for _, name := range c.presets.Names() {
		t, err := c.presets.Build(name, plugins, c.normalizer)
		if err != nil {
			return nil, fmt.Errorf("build preset %s: %w", name, err)
		}

		tables[name] = t
	}

	return tables, nil
}

// Audit checks every preset against the plugins it extends. Findings are
// grouped by preset name, in name order.
func (c *Composer) Audit(ctx context.Context) ([]preset.Finding, error) {
	plugins, err := c.plugins(ctx, true)
	if err != nil {
		return nil, err
	}

	var findings []preset.Finding

	for _, name := range c.presets.Names() {
		f, err := c.presets.Audit(name, plugins, c.normalizer)
		if err != nil {
			return nil, fmt.Errorf("audit preset %s: %w", name, err)
		}

		findings = append(findings, f...)
	}

	log.WithContext(ctx).DebugContext(ctx, "audited presets",
		slog.Int("presets", len(c.presets)),
		slog.Int("findings", len(findings)),
	)

	return findings, nil
}

func (c *Composer) plugins(ctx context.Context, vue bool) (plugin.Set, error) {
	ctx, span := c.tracer.Start(ctx, "plugins", trace.WithAttributes(
		attribute.Bool("vue", vue),
	))
	defer span.End()

	var loaders []plugin.Loader
	if vue {
		loaders = append(loaders, c.loader(GroupVue))
	}

	plugins, err := plugin.Resolve(ctx, c.catalog.DefaultSet(), loaders...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve plugins")

		return nil, err //nolint:wrapcheck // Plugin load failures propagate unchanged.
	}

	return plugins, nil
}
