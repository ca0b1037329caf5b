package rule_test

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/pkg/rule"
)

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in     any
		want   rule.Severity
		wantOK bool
	}{
		"string off":      {in: "off", want: rule.SeverityOff, wantOK: true},
		"string warn":     {in: "warn", want: rule.SeverityWarn, wantOK: true},
		"string error":    {in: "error", want: rule.SeverityError, wantOK: true},
		"severity":        {in: rule.SeverityWarn, want: rule.SeverityWarn, wantOK: true},
		"int zero":        {in: 0, want: rule.SeverityOff, wantOK: true},
		"int one":         {in: 1, want: rule.SeverityWarn, wantOK: true},
		"int two":         {in: 2, want: rule.SeverityError, wantOK: true},
		"uint64":          {in: uint64(2), want: rule.SeverityError, wantOK: true},
		"float64":         {in: float64(1), want: rule.SeverityWarn, wantOK: true},
		"fractional":      {in: 1.5, wantOK: false},
		"out of range":    {in: 3, wantOK: false},
		"negative":        {in: -1, wantOK: false},
		"unknown string":  {in: "warning", wantOK: false},
		"uppercase":       {in: "ERROR", wantOK: false},
		"nil":             {in: nil, wantOK: false},
		"bool":            {in: true, wantOK: false},
		"unknown literal": {in: rule.Severity("loud"), wantOK: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := rule.ParseSeverity(tc.in)
			assert.Equal(t, tc.wantOK, ok)

			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestSeverity_Level(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, rule.SeverityOff.Level())
	assert.Equal(t, 1, rule.SeverityWarn.Level())
	assert.Equal(t, 2, rule.SeverityError.Level())
	assert.Equal(t, -1, rule.Severity("x").Level())
	assert.False(t, rule.Severity("").Valid())
}

func TestParseEntry(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in     any
		want   rule.Entry
		wantOK bool
	}{
		"bare string": {
			in:     "warn",
			want:   rule.NewEntry(rule.SeverityWarn),
			wantOK: true,
		},
		"bare number": {
			in:     2,
			want:   rule.NewEntry(rule.SeverityError),
			wantOK: true,
		},
		"list without options": {
			in:     []any{"error"},
			want:   rule.NewEntry(rule.SeverityError),
			wantOK: true,
		},
		"list with options": {
			in:     []any{1, "always", map[string]any{"x": true}},
			want:   rule.NewEntry(rule.SeverityWarn, "always", map[string]any{"x": true}),
			wantOK: true,
		},
		"entry": {
			in:     rule.NewEntry(rule.SeverityOff, 3),
			want:   rule.NewEntry(rule.SeverityOff, 3),
			wantOK: true,
		},
		"entry pointer": {
			in:     &rule.Entry{Severity: rule.SeverityWarn},
			want:   rule.NewEntry(rule.SeverityWarn),
			wantOK: true,
		},
		"empty list": {
			in:     []any{},
			wantOK: false,
		},
		"list with invalid severity": {
			in:     []any{"loud", 1},
			wantOK: false,
		},
		"map": {
			in:     map[string]any{"severity": "error"},
			wantOK: false,
		},
		"nil entry pointer": {
			in:     (*rule.Entry)(nil),
			wantOK: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := rule.ParseEntry(tc.in)
			assert.Equal(t, tc.wantOK, ok)

			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestEntry_Value(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "off", rule.NewEntry(rule.SeverityOff).Value())
	assert.Equal(t,
		[]any{"error", "single", map[string]any{"avoidEscape": true}},
		rule.NewEntry(rule.SeverityError, "single", map[string]any{"avoidEscape": true}).Value(),
	)
}

func TestEntry_JSON(t *testing.T) {
	t.Parallel()

	e := rule.NewEntry(rule.SeverityError, "always")

	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `["error","always"]`, string(b))

	var got rule.Entry

	require.NoError(t, json.Unmarshal([]byte(`[2,{"max":3}]`), &got))
	assert.Equal(t, rule.NewEntry(rule.SeverityError, map[string]any{"max": float64(3)}), got)

	require.NoError(t, json.Unmarshal([]byte(`"warn"`), &got))
	assert.Equal(t, rule.NewEntry(rule.SeverityWarn), got)

	err = json.Unmarshal([]byte(`"always"`), &got)
	require.ErrorIs(t, err, rule.ErrInvalidEntry)
}

func TestEntry_YAML(t *testing.T) {
	t.Parallel()

	var got map[string]rule.Entry

	err := yaml.Unmarshal([]byte("a: off\nb: [1, always]\nc: 2\n"), &got)
	require.NoError(t, err)

	assert.Equal(t, map[string]rule.Entry{
		"a": rule.NewEntry(rule.SeverityOff),
		"b": rule.NewEntry(rule.SeverityWarn, "always"),
		"c": rule.NewEntry(rule.SeverityError),
	}, got)

	out, err := yaml.Marshal(map[string]rule.Entry{"a": rule.NewEntry(rule.SeverityWarn)})
	require.NoError(t, err)
	assert.Equal(t, "a: warn\n", string(out))
}

func TestEntry_Clone(t *testing.T) {
	t.Parallel()

	opts := map[string]any{"list": []any{"a"}}
	e := rule.NewEntry(rule.SeverityWarn, opts)
	c := e.Clone()

	opts["list"].([]any)[0] = "b" //nolint:forcetypeassert // Test fixture.

	assert.Equal(t, rule.NewEntry(rule.SeverityWarn, map[string]any{"list": []any{"a"}}), c)
	assert.True(t, c.Equal(rule.NewEntry(rule.SeverityWarn, map[string]any{"list": []any{"a"}})))
	assert.False(t, c.Equal(c.WithSeverity(rule.SeverityError)))
}

func TestTable(t *testing.T) {
	t.Parallel()

	tbl := rule.Table{
		"typescript/b": rule.NewEntry(rule.SeverityWarn),
		"typescript/a": rule.NewEntry(rule.SeverityError),
		"eqeqeq":       rule.NewEntry(rule.SeverityOff),
	}

	assert.Equal(t, []string{"eqeqeq", "typescript/a", "typescript/b"}, tbl.Keys())
	assert.Equal(t, []string{"typescript/a", "typescript/b"}, tbl.Namespace("typescript").Keys())
	assert.Equal(t, []string{"eqeqeq"}, tbl.Namespace("").Keys())
	assert.True(t, tbl.Equal(tbl.Clone()))
}

func TestKeyParts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", rule.Namespace("eqeqeq"))
	assert.Equal(t, "eqeqeq", rule.Name("eqeqeq"))
	assert.Equal(t, "vue", rule.Namespace("vue/html-indent"))
	assert.Equal(t, "html-indent", rule.Name("vue/html-indent"))
	assert.Equal(t, "eqeqeq", rule.Qualify("", "eqeqeq"))
	assert.Equal(t, "unicorn/no-null", rule.Qualify("unicorn", "no-null"))
}
