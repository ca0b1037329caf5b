package compositions_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/api/v1beta1"
	"github.com/macropower/lintcfg/api/v1beta1/compositions"
	"github.com/macropower/lintcfg/pkg/compose"
	"github.com/macropower/lintcfg/pkg/rule"
	"github.com/macropower/lintcfg/pkg/yaml"
)

func TestNew(t *testing.T) {
	t.Parallel()

	c := compositions.New()

	assert.Equal(t, "lintcfg.macropower.dev/v1beta1", c.GetAPIVersion())
	assert.Equal(t, "Composition", c.GetKind())
	assert.NotNil(t, c.Normalize)
	assert.Equal(t, []string{".gitignore", ".eslintignore"}, c.IgnoreFiles)
	require.NoError(t, c.Validate())
}

func TestComposition_EnsureDefaults(t *testing.T) {
	t.Parallel()

	c := &compositions.Composition{IgnoreFiles: []string{}}

	// Before EnsureDefaults, Normalize should be nil.
	assert.Nil(t, c.Normalize)

	c.EnsureDefaults()

	assert.NotNil(t, c.Normalize)
	assert.Empty(t, c.IgnoreFiles, "explicitly empty ignore files are kept")
}

func TestComposition_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		c    *compositions.Composition
		want error
	}{
		"valid": {
			c: compositions.New(),
		},
		"unknown api version": {
			c: &compositions.Composition{
				TypeMeta: v1beta1.TypeMeta{APIVersion: "v0", Kind: compositions.Kind},
			},
			want: v1beta1.ErrUnknownAPIVersion,
		},
		"unknown kind": {
			c: &compositions.Composition{
				TypeMeta: v1beta1.TypeMeta{APIVersion: v1beta1.APIVersion, Kind: "Configuration"},
			},
			want: v1beta1.ErrUnknownKind,
		},
		"empty remap": {
			c: &compositions.Composition{
				TypeMeta: v1beta1.TypeMeta{APIVersion: v1beta1.APIVersion, Kind: compositions.Kind},
				Normalize: &compositions.Normalize{
					Remaps: []rule.Remap{{From: "a", To: "b"}, {To: "c"}},
				},
			},
			want: compositions.ErrEmptyRemap,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.c.Validate()
			if tc.want == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestComposition_Options(t *testing.T) {
	t.Parallel()

	c := compositions.New()
	c.TypeScript = &compose.Override{Rules: rule.Raw{"no-console": "warn"}}
	c.Vue = &compose.VueOptions{
		Enabled:  true,
		Override: compose.Override{Name: "app/vue"},
	}

	opts := c.Options()
	require.NotNil(t, opts)
	assert.Nil(t, opts.JavaScript)
	assert.True(t, opts.VueEnabled())
	assert.Equal(t, "app/vue", opts.Vue.Name)
	assert.Equal(t, rule.Raw{"no-console": "warn"}, opts.TypeScript.Rules)

	opts.TypeScript.Rules["no-console"] = "off"
	opts.Vue.Name = "changed"

	assert.Equal(t, "warn", c.TypeScript.Rules["no-console"])
	assert.Equal(t, "app/vue", c.Vue.Name)
}

func TestComposition_Normalizer(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		normalize *compositions.Normalize
		input     rule.Raw
		want      rule.Table
	}{
		"defaults": {
			normalize: nil,
			input:     rule.Raw{"@typescript-eslint/no-explicit-any": 2, "perfectionist/sort-objects": "error"},
			want: rule.Table{
				"typescript/no-explicit-any": rule.NewEntry(rule.SeverityError),
				"perfectionist/sort-objects": rule.NewEntry(rule.SeverityWarn),
			},
		},
		"custom remaps": {
			normalize: &compositions.Normalize{
				Remaps: []rule.Remap{{From: "legacy", To: "modern"}},
			},
			input: rule.Raw{"legacy/rule": "warn", "@typescript-eslint/x": "error"},
			want: rule.Table{
				"modern/rule":          rule.NewEntry(rule.SeverityWarn),
				"@typescript-eslint/x": rule.NewEntry(rule.SeverityError),
			},
		},
		"custom downgrade": {
			normalize: &compositions.Normalize{Downgrade: []string{"stylistic"}},
			input:     rule.Raw{"stylistic/semi": "error", "perfectionist/sort-objects": "error"},
			want: rule.Table{
				"stylistic/semi":             rule.NewEntry(rule.SeverityWarn),
				"perfectionist/sort-objects": rule.NewEntry(rule.SeverityError),
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := compositions.New()
			c.Normalize = tc.normalize

			got := c.Normalizer().Normalize(tc.input)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComposition_IgnoresFragment(t *testing.T) {
	t.Parallel()

	c := compositions.New()
	assert.Nil(t, c.IgnoresFragment())

	c.Ignores = []string{"dist", "**/*.snap"}

	f := c.IgnoresFragment()
	require.NotNil(t, f)
	assert.Equal(t, compositions.IgnoresName, f.Name)
	assert.Equal(t, []string{"dist", "**/*.snap"}, f.Ignores)
	assert.Empty(t, f.Files)
	assert.Nil(t, f.Rules)

	f.Ignores[0] = "changed"
	assert.Equal(t, "dist", c.Ignores[0])
}

func TestComposition_Importer(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		".gitignore":      {Data: []byte("node_modules\n")},
		".prettierignore": {Data: []byte("*.md\n")},
	}

	c := compositions.New()

	f, err := c.Importer(fsys).Import(t.Context())
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []string{"**/node_modules"}, f.Ignores)

	c.IgnoreFiles = []string{".prettierignore"}

	f, err = c.Importer(fsys).Import(t.Context())
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []string{"**/*.md"}, f.Ignores)

	c.IgnoreFiles = []string{".missing"}
	c.StrictIgnoreFiles = true

	_, err = c.Importer(fsys).Import(t.Context())
	require.Error(t, err)
}

func TestDefaultYAML(t *testing.T) {
	t.Parallel()

	data := compositions.DefaultYAML()

	var doc any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.NoError(t, compositions.DefaultValidator.Validate(doc))

	var c compositions.Composition
	require.NoError(t, yaml.Unmarshal(data, &c))
	assert.Equal(t, compositions.Kind, c.Kind)
	require.NotNil(t, c.Vue)
	assert.False(t, c.Vue.Enabled)
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		vue bool
	}{
		"default":     {vue: false},
		"vue enabled": {vue: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), ".lintcfg.yaml")
			require.NoError(t, compositions.WriteDefault(path, false, tc.vue))

			data, err := os.ReadFile(path)
			require.NoError(t, err)

			var c compositions.Composition
			require.NoError(t, yaml.Unmarshal(data, &c))
			require.NotNil(t, c.Vue)
			assert.Equal(t, tc.vue, c.Vue.Enabled)

			if !tc.vue {
				assert.Equal(t, string(compositions.DefaultYAML()), string(data))
			}
		})
	}
}

func TestWriteDefault_Force(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".lintcfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("custom: true\n"), 0o600))

	require.NoError(t, compositions.WriteDefault(path, false, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom: true\n", string(data), "existing file is kept without force")

	require.NoError(t, compositions.WriteDefault(path, true, false))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(compositions.DefaultYAML()), string(data))
}

func TestComposition_Write(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "lintcfg.yaml")

	c := compositions.New()
	c.Ignores = []string{"dist"}
	require.NoError(t, c.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.NoError(t, compositions.DefaultValidator.Validate(doc))
	assert.Contains(t, string(data), "kind: Composition")
}

func TestFind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lintcfg.yaml"), []byte("kind: Composition\n"), 0o600))

	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	got, err := compositions.Find(sub)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lintcfg.yaml"), got)

	_, err = compositions.Find(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
