package compose

// Fragment names.
const (
	NameIgnores     = "lintcfg/ignores"
	NamePlugins     = "lintcfg/plugins"
	NameTypeScript  = "lintcfg/typescript"
	NameJavaScript  = "lintcfg/javascript"
	NameVue         = "lintcfg/vue"
	NameYAML        = "lintcfg/yaml"
	NameTOML        = "lintcfg/toml"
	NameJSON        = "lintcfg/json"
	NameJSON5       = "lintcfg/json5"
	NameJSONC       = "lintcfg/jsonc"
	NamePackageJSON = "lintcfg/package-json"
)

var (
	// GlobsJavaScript match untyped script files.
	GlobsJavaScript = []string{"**/*.?([cm])js", "**/*.?([cm])jsx"}
	// GlobsTypeScript match typed script files.
	GlobsTypeScript = []string{"**/*.?([cm])ts", "**/*.?([cm])tsx"}
	GlobsVue        = []string{"**/*.vue"}
	GlobsYAML       = []string{"**/*.y?(a)ml"}
	GlobsTOML       = []string{"**/*.toml"}
	GlobsJSON       = []string{"**/*.json"}
	GlobsJSON5      = []string{"**/*.json5"}
	GlobsJSONC      = []string{
		"**/*.jsonc",
		"**/tsconfig.{json,jsonc}",
		"**/tsconfig{-,.}[:alnum:].{json,jsonc}",
		"**/api-extractor.{json,jsonc}",
	}
	GlobsPackageJSON = []string{"**/package.json"}

	// DefaultIgnores are excluded from every fragment.
	DefaultIgnores = []string{
		"**/fish_history",

		"**/node_modules",
		"**/dist",
		"**/package-lock.json",
		"**/yarn.lock",
		"**/pnpm-lock.yaml",
		"**/bun.lockb",

		"**/coverage",
		"**/.history",
		"**/.vitepress/cache",
		"**/.nuxt",
		"**/.next",
		"**/.vercel",
		"**/.changeset",
		"**/.idea",
		"**/.cache",
		"**/.output",
		"**/.vite-inspect",
		"**/.yarn",

		"**/CHANGELOG*.md",
		"**/*.min.*",
		"**/LICENSE*",
		"**/__snapshots__",
		"**/auto-import?(s).d.ts",
	}
)

// DefaultSettings returns the shared settings attached to the global ignores
// fragment.
func DefaultSettings() map[string]any {
	return map[string]any{
		"perfectionist": map[string]any{
			"ignoreCase":         true,
			"partitionByComment": true,
			"partitionByNewLine": true,
			"type":               "alphabetical",
		},
	}
}
