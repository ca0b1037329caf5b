package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/macropower/lintcfg/api/v1beta1/compositions"
	"github.com/macropower/lintcfg/pkg/compose"
	"github.com/macropower/lintcfg/pkg/log"
)

// Project is a composition together with the directory it applies to.
type Project struct {
	Composition *compositions.Composition
	// Path is the composition file, or empty when defaults are used.
	Path string
	// Dir is the directory ignore files are read from.
	Dir string
}

// LoadProject finds and loads the composition for targetPath. The search
// walks up from targetPath, then falls back to the user's own composition
// file. Without either, the default composition applies to targetPath.
//
// Ignore files are read relative to the project composition file, or to
// targetPath when the user's composition or the defaults are used.
func LoadProject(ctx context.Context, targetPath string, opts ...LoaderOpt) (*Project, error) {
	path, err := compositions.Find(targetPath)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	if path != "" {
		return LoadProjectFile(ctx, path, opts...)
	}

	dir, err := searchDir(targetPath)
	if err != nil {
		return nil, err
	}

	// The user's own composition applies to the target, so ignore files are
	// still read from the target directory.
	if path = userComposition(); path != "" {
		p, err := LoadProjectFile(ctx, path, opts...)
		if err != nil {
			return nil, err
		}

		p.Dir = dir

		return p, nil
	}

	log.WithContext(ctx).DebugContext(ctx, "no composition file found, using defaults",
		slog.String("dir", dir),
	)

	return &Project{Composition: compositions.New(), Dir: dir}, nil
}

// LoadProjectFile validates and loads the composition file at path.
func LoadProjectFile(ctx context.Context, path string, opts ...LoaderOpt) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	loader, err := NewLoaderFromFile(absPath, compositions.New, compositions.DefaultValidator, opts...)
	if err != nil {
		return nil, fmt.Errorf("read composition: %w", err)
	}

	c, err := loader.Parse()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", absPath, err)
	}

	log.WithContext(ctx).DebugContext(ctx, "loaded composition",
		slog.String("path", absPath),
	)

	return &Project{
		Composition: c,
		Path:        absPath,
		Dir:         filepath.Dir(absPath),
	}, nil
}

// FS returns the filesystem ignore files are read from.
func (p *Project) FS() fs.FS {
	return os.DirFS(p.Dir)
}

// Composer returns a composer configured by the project's normalizer and
// ignore file importer. Extra options are applied after them.
func (p *Project) Composer(opts ...compose.Opt) *compose.Composer {
	base := []compose.Opt{
		compose.WithNormalizer(p.Composition.Normalizer()),
		compose.WithIgnoreImporter(p.Composition.Importer(p.FS())),
	}

	return compose.New(append(base, opts...)...)
}

// Compose composes the project's configuration sequence. The extra global
// ignores from the composition are appended last.
func (p *Project) Compose(ctx context.Context, opts ...compose.Opt) (compose.Sequence, error) {
	seq, err := p.Composer(opts...).Compose(ctx, p.Composition.Options())
	if err != nil {
		return nil, fmt.Errorf("compose %s: %w", p.Dir, err)
	}

	return compose.Concat(seq, compose.Sequence{p.Composition.IgnoresFragment()}), nil
}

func userComposition() string {
	path := compositions.GetPath()

	_, err := os.Stat(path)
	if err != nil {
		return ""
	}

	return path
}

func searchDir(targetPath string) (string, error) {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("target %s: %w", targetPath, err)
	} else if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}

	if info.IsDir() {
		return absPath, nil
	}

	return filepath.Dir(absPath), nil
}
