package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/pkg/rule"
	"github.com/macropower/lintcfg/pkg/snapshot"
)

func TestCanonical(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		table rule.Table
		want  string
	}{
		"nil": {
			table: nil,
			want:  "{}\n",
		},
		"sorted with options": {
			table: rule.Table{
				"typescript/array-type": rule.NewEntry(rule.SeverityError, map[string]any{"readonly": "array", "default": "array-simple"}),
				"eqeqeq":                rule.NewEntry(rule.SeverityOff),
				"no-restricted-syntax":  rule.NewEntry(rule.SeverityWarn, "a > b"),
			},
			want: `{
  "eqeqeq": "off",
  "no-restricted-syntax": [
    "warn",
    "a > b"
  ],
  "typescript/array-type": [
    "error",
    {
      "default": "array-simple",
      "readonly": "array"
    }
  ]
}
`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := snapshot.Canonical(tc.table)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestDeclaration(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want string
		keys []string
	}{
		"empty": {
			keys: nil,
			want: "import type { Rules } from '../types'\n\ndeclare const data: Rules<never>\nexport default data\n",
		},
		"sorted": {
			keys: []string{"yaml/indent", "eqeqeq", "curly"},
			want: "import type { Rules } from '../types'\n\ndeclare const data: Rules<'curly' | 'eqeqeq' | 'yaml/indent'>\nexport default data\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, snapshot.Declaration(tc.keys))
		})
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	got := snapshot.Sort([]string{"b", "B", "a", "b", "A"})
	assert.Equal(t, []string{"a", "A", "b", "B"}, got)

	in := []string{"z", "a"}
	snapshot.Sort(in)
	assert.Equal(t, []string{"z", "a"}, in, "input is not modified")
}

func TestIntersection(t *testing.T) {
	t.Parallel()

	got := snapshot.Intersection([]string{"json/indent", "curly", "curly"})
	assert.Equal(t, "/**\n * @public\n */\nexport type RulesIntersection = 'curly' | 'json/indent'\n", got)
}

func TestWriter(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "rules")
	w := snapshot.NewWriter(dir)

	table := rule.Table{"curly": rule.NewEntry(rule.SeverityError)}
	require.NoError(t, w.WriteTable("javascript", table))
	require.NoError(t, w.WriteIntersection([]string{"curly", "eqeqeq"}))

	b, err := os.ReadFile(filepath.Join(dir, "javascript.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"curly\": \"error\"\n}\n", string(b))

	b, err = os.ReadFile(filepath.Join(dir, "javascript.d.json.ts"))
	require.NoError(t, err)
	assert.Equal(t, snapshot.Declaration([]string{"curly"}), string(b))

	b, err = os.ReadFile(filepath.Join(dir, snapshot.IntersectionFile))
	require.NoError(t, err)
	assert.Contains(t, string(b), "'curly' | 'eqeqeq'")
}
