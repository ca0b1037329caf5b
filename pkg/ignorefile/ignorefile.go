// Package ignorefile converts ignore files such as .gitignore into an ignore
// fragment for the configuration sequence.
package ignorefile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/macropower/lintcfg/pkg/compose"
	"github.com/macropower/lintcfg/pkg/log"
)

// Name is the name of the fragment returned by [Importer.Import].
const Name = "lintcfg/gitignore"

// DefaultFiles are read when no files are configured.
var DefaultFiles = []string{".gitignore", ".eslintignore"}

// Importer reads ignore files from a filesystem.
type Importer struct {
	fsys   fs.FS
	files  []string
	strict bool
}

// Opt configures an [Importer].
type Opt func(*Importer)

// WithFiles sets the ignore files to read, relative to the filesystem root.
// Patterns from a file in a subdirectory are scoped to that directory.
func WithFiles(names ...string) Opt {
	return func(i *Importer) {
		i.files = names
	}
}

// WithStrict makes missing ignore files an error. By default they are
// skipped.
func WithStrict(strict bool) Opt {
	return func(i *Importer) {
		i.strict = strict
	}
}

// New creates a new [Importer] reading from fsys.
func New(fsys fs.FS, opts ...Opt) *Importer {
	i := &Importer{
		fsys:  fsys,
		files: DefaultFiles,
	}
	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Import reads the configured files and returns a fragment ignoring every
// pattern they contain. It returns nil when no patterns are found.
func (i *Importer) Import(ctx context.Context) (*compose.Fragment, error) {
	logger := log.WithContext(ctx)

	var ignores []string

	for _, name := range i.files {
		err := ctx.Err()
		if err != nil {
			return nil, err //nolint:wrapcheck // Return the original error.
		}

		b, err := fs.ReadFile(i.fsys, name)
		if errors.Is(err, fs.ErrNotExist) && !i.strict {
			logger.DebugContext(ctx, "skip missing ignore file", slog.String("path", name))

			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read ignore file %s: %w", name, err)
		}

		patterns := Parse(b)
		for _, p := range patterns {
			ignores = append(ignores, scope(path.Dir(name), ConvertPattern(p)))
		}

		logger.DebugContext(ctx, "read ignore file",
			slog.String("path", name),
			slog.Int("patterns", len(patterns)),
		)
	}

	if len(ignores) == 0 {
		return nil, nil
	}

	return &compose.Fragment{
		Name:    Name,
		Ignores: ignores,
	}, nil
}

// Parse returns the patterns of an ignore file, skipping blank lines and
// comments.
func Parse(b []byte) []string {
	var patterns []string

	s := bufio.NewScanner(bytes.NewReader(b))
	for s.Scan() {
		line := strings.TrimSuffix(s.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// An escaped leading hash is a literal.
		if strings.HasPrefix(line, `\#`) {
			line = line[1:]
		}

		patterns = append(patterns, line)
	}

	return patterns
}

// ConvertPattern converts a gitignore pattern to the engine's glob dialect.
//
// Negation is kept. Patterns without a slash, or with only a trailing slash,
// match at any depth. A leading slash anchors the pattern to the root and is
// removed. Unescaped braces and parentheses are escaped, and a trailing /**
// also matches the directory's contents.
func ConvertPattern(pattern string) string {
	negated := strings.HasPrefix(pattern, "!")

	prefix := ""
	if negated {
		prefix = "!"
		pattern = pattern[1:]
	}

	pattern = strings.TrimRight(pattern, " \t")

	switch pattern {
	case "", "**", "/**", "**/":
		return prefix + pattern
	}

	slash := strings.Index(pattern, "/")

	everywhere := ""
	if slash < 0 || slash == len(pattern)-1 {
		everywhere = "**/"
	}

	body := pattern
	if slash == 0 {
		body = pattern[1:]
	}

	inside := ""
	if strings.HasSuffix(pattern, "/**") {
		inside = "/*"
	}

	return prefix + everywhere + escape(body) + inside
}

// escape escapes every unescaped '{' and '('.
func escape(s string) string {
	var b strings.Builder

	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '{' || r == '(':
			b.WriteByte('\\')
		}

		b.WriteRune(r)
	}

	return b.String()
}

// scope prefixes a converted pattern with the directory of its ignore file.
func scope(dir, pattern string) string {
	if dir == "." || dir == "" {
		return pattern
	}

	if rest, ok := strings.CutPrefix(pattern, "!"); ok {
		return "!" + path.Join(dir, rest) + trailingSlash(rest)
	}

	return path.Join(dir, pattern) + trailingSlash(pattern)
}

func trailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return "/"
	}

	return ""
}
