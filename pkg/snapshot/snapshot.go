// Package snapshot writes resolved rule tables to disk, along with
// TypeScript declarations of their keys.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/macropower/lintcfg/pkg/rule"
)

// IntersectionFile is the name of the file written by
// [Writer.WriteIntersection].
const IntersectionFile = "rules-intersection.ts"

// Writer writes snapshot files into Dir.
type Writer struct {
	Dir string
}

// NewWriter creates a new [Writer] for dir.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// WriteTable writes <name>.json holding the canonical form of t, and
// <name>.d.json.ts declaring its keys.
func (w *Writer) WriteTable(name string, t rule.Table) error {
	b, err := Canonical(t)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", name, err)
	}

	err = w.write(name+".json", b)
	if err != nil {
		return err
	}

	return w.write(name+".d.json.ts", []byte(Declaration(t.Keys())))
}

// WriteIntersection writes the union type of every known rule key.
func (w *Writer) WriteIntersection(keys []string) error {
	return w.write(IntersectionFile, []byte(Intersection(keys)))
}

func (w *Writer) write(name string, b []byte) error {
	err := os.MkdirAll(w.Dir, 0o755)
	if err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	p := filepath.Join(w.Dir, name)

	//nolint:gosec // G306: snapshots are meant to be readable.
	err = os.WriteFile(p, b, 0o644)
	if err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}

	return nil
}

// Canonical returns t as JSON with lexicographically sorted keys, two space
// indentation and a trailing newline.
func Canonical(t rule.Table) ([]byte, error) {
	values := make(map[string]any, len(t))
	for k, e := range t {
		values[k] = e.Value()
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	err := enc.Encode(values)
	if err != nil {
		return nil, fmt.Errorf("encode rules: %w", err)
	}

	return buf.Bytes(), nil
}

// Declaration returns a TypeScript declaration typing a JSON snapshot with
// the given keys.
func Declaration(keys []string) string {
	return "import type { Rules } from '../types'\n\n" +
		"declare const data: Rules<" + union(keys) + ">\n" +
		"export default data\n"
}

// Intersection returns the TypeScript source of the RulesIntersection type.
func Intersection(keys []string) string {
	return "/**\n * @public\n */\nexport type RulesIntersection = " + union(keys) + "\n"
}

// Sort sorts keys in English collation order, which differs from byte order
// in how punctuation and case are weighed.
func Sort(keys []string) []string {
	out := slices.Clone(keys)
	collate.New(language.English).SortStrings(out)

	return slices.Compact(out)
}

func union(keys []string) string {
	sorted := Sort(keys)
	if len(sorted) == 0 {
		return "never"
	}

	quoted := make([]string, 0, len(sorted))
	for _, k := range sorted {
		quoted = append(quoted, "'"+strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(k)+"'")
	}

	return strings.Join(quoted, " | ")
}
