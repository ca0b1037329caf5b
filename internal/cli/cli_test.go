package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lintcfg/internal/cli"
	"github.com/macropower/lintcfg/pkg/snapshot"
	"github.com/macropower/lintcfg/pkg/yaml"
)

const composition = `apiVersion: lintcfg.macropower.dev/v1beta1
kind: Composition
typescript:
  rules:
    "@typescript-eslint/no-explicit-any": "off"
ignores: [dist]
`

func writeComposition(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".lintcfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-level", "error"))

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), err
}

func TestCompose(t *testing.T) {
	t.Parallel()

	path := writeComposition(t, composition)

	out, err := execute(t, "compose", "--config", path)
	require.NoError(t, err)

	var seq []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &seq))
	require.NotEmpty(t, seq)

	names := make([]string, 0, len(seq))
	for _, f := range seq {
		name, ok := f["name"].(string)
		require.True(t, ok)

		names = append(names, name)
	}

	assert.Equal(t, "lintcfg/ignores", names[0])
	assert.Equal(t, "lintcfg/user-ignores", names[len(names)-1])
	assert.NotContains(t, names, "lintcfg/vue")

	for _, f := range seq {
		if f["name"] == "lintcfg/typescript" {
			rules, ok := f["rules"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "off", rules["typescript/no-explicit-any"])
		}
	}
}

func TestCompose_VueYAML(t *testing.T) {
	t.Parallel()

	path := writeComposition(t, composition)

	out, err := execute(t, "compose", "--config", path, "--vue", "-o", "yaml")
	require.NoError(t, err)

	var seq []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &seq))

	var found bool
	for _, f := range seq {
		if f["name"] == "lintcfg/vue" {
			found = true
		}
	}

	assert.True(t, found, "vue fragment is composed")
}

func TestCompose_Errors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		content string
		args    []string
		errMsg  string
	}{
		"unknown format": {
			content: composition,
			args:    []string{"-o", "toml"},
			errMsg:  "unknown output format",
		},
		"invalid composition": {
			content: composition + "vue: yes please\n",
			errMsg:  "validate",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := writeComposition(t, tc.content)

			_, err := execute(t, append([]string{"compose", "--config", path}, tc.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestRules(t *testing.T) {
	t.Parallel()

	path := writeComposition(t, composition)

	out, err := execute(t, "rules", "--config", path, "-l", "yaml", "--filter", `name == "indent"`, "-o", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]any{"yaml/indent": []any{"error", float64(2)}}, got)

	out, err = execute(t, "rules", "--config", path, "-l", "yaml", "--filter", `name == "indent"`)
	require.NoError(t, err)
	assert.Contains(t, out, "yaml/indent")
	assert.Contains(t, strings.ToLower(out), "1 rules")
}

func TestRules_FilterByPlugin(t *testing.T) {
	t.Parallel()

	path := writeComposition(t, composition)

	out, err := execute(t, "rules", "--config", path, "-l", "yaml",
		"--filter", `plugin == "yaml" && keyName(key) == "indent" && size(options) > 0`, "-o", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]any{"yaml/indent": []any{"error", float64(2)}}, got)
}

func TestRules_Errors(t *testing.T) {
	t.Parallel()

	path := writeComposition(t, composition)

	_, err := execute(t, "rules", "--config", path, "-l", "cobol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown language")

	_, err = execute(t, "rules", "--config", path, "--filter", "severity ==")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse filter")
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	path := writeComposition(t, composition)
	dir := filepath.Join(t.TempDir(), "rules")

	_, err := execute(t, "snapshot", "--config", path, "--dir", dir)
	require.NoError(t, err)

	for _, name := range []string{
		"typescript.json", "typescript.d.json.ts", "vue.json", "yaml.json", snapshot.IntersectionFile,
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestAudit(t *testing.T) {
	t.Parallel()

	path := writeComposition(t, composition)

	out, err := execute(t, "audit", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "no findings")

	out, err = execute(t, "audit", "--config", path, "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestInit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := execute(t, "init", dir, "--vue")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".lintcfg.yaml"))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, map[string]any{"enabled": true}, doc["vue"])

	out, err := execute(t, "compose", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"lintcfg/vue"`)
}
