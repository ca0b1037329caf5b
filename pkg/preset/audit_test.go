package preset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/pkg/plugin"
	"github.com/macropower/lintcfg/pkg/preset"
	"github.com/macropower/lintcfg/pkg/rule"
)

func TestAudit(t *testing.T) {
	t.Parallel()

	included := rule.Table{
		"eqeqeq":      rule.NewEntry(rule.SeverityError, "always"),
		"no-debugger": rule.NewEntry(rule.SeverityError),
		"no-empty":    rule.NewEntry(rule.SeverityError, map[string]any{"allowEmptyCatch": true}),
		"made-up":     rule.NewEntry(rule.SeverityWarn),
	}
	defaults := rule.Table{
		"no-debugger": rule.NewEntry(rule.SeverityError),
		"no-empty":    rule.NewEntry(rule.SeverityError),
	}
	known := []string{"eqeqeq", "no-debugger", "no-empty"}

	got := preset.Audit(included, defaults, known)
	require.Len(t, got, 2)

	assert.Equal(t, preset.Finding{
		Key:   "made-up",
		Kind:  preset.FindingUnknown,
		Entry: rule.NewEntry(rule.SeverityWarn),
	}, got[0])
	assert.Equal(t, preset.Finding{
		Key:   "no-debugger",
		Kind:  preset.FindingRedundant,
		Entry: rule.NewEntry(rule.SeverityError),
	}, got[1])

	assert.Equal(t, "rule made-up does not exist", got[0].String())
	assert.Equal(t, "rule no-debugger is already set to its default error", got[1].String())
}

func TestSet_Audit_Embedded(t *testing.T) {
	t.Parallel()

	presets := preset.MustLoad()
	plugins := plugin.Default().All()
	n := rule.NewNormalizer()

	for _, name := range presets.Names() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			findings, err := presets.Audit(name, plugins, n)
			require.NoError(t, err)
			assert.Empty(t, findings)
		})
	}
}

func TestSet_Audit(t *testing.T) {
	t.Parallel()

	plugins := plugin.Set{
		"eslint": {
			Name: "eslint",
			Core: true,
			Rules: map[string]plugin.Meta{
				"no-debugger": {Default: &rule.Entry{Severity: rule.SeverityError}},
				"no-console":  {},
			},
		},
	}
	presets := preset.Set{
		"p": {
			Name:    "p",
			Extends: []string{"eslint"},
			Rules:   rule.Raw{"no-debugger": 2, "no-console": "warn", "react/jsx-key": "error"},
			Disable: []string{"no-alert"},
		},
	}

	findings, err := presets.Audit("p", plugins, rule.NewNormalizer())
	require.NoError(t, err)

	require.Len(t, findings, 2)
	assert.Equal(t, "p: rule no-alert does not exist", findings[0].String())
	assert.Equal(t, "p: rule no-debugger is already set to its default error", findings[1].String())
}
