package plugin

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sync"

	"github.com/macropower/lintcfg/pkg/yaml"
)

var (
	ErrInvalidPlugin   = errors.New("invalid plugin")
	ErrDuplicatePlugin = errors.New("duplicate plugin")
	ErrUnknownGroup    = errors.New("unknown plugin group")
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

var defaultCatalog = sync.OnceValue(func() *Catalog {
	sub, err := fs.Sub(catalogFS, "catalogs")
	if err != nil {
		panic(fmt.Errorf("open embedded catalogs: %w", err))
	}

	c, err := LoadCatalog(sub)
	if err != nil {
		panic(fmt.Errorf("load embedded catalogs: %w", err))
	}

	return c
})

// Default returns the catalog embedded in the binary. It is decoded on first
// use and shared, read-only, by every caller for the life of the process.
func Default() *Catalog {
	return defaultCatalog()
}

// Catalog is an immutable collection of plugins, indexed by name.
type Catalog struct {
	plugins map[string]*Plugin
	aliases map[string]string
}

// NewCatalog creates a [Catalog] from the given plugins.
func NewCatalog(plugins ...*Plugin) (*Catalog, error) {
	c := &Catalog{
		plugins: make(map[string]*Plugin, len(plugins)),
		aliases: map[string]string{},
	}

	for _, p := range plugins {
		err := c.add(p)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// LoadCatalog decodes every "*.yaml" file at the root of fsys as a [Plugin].
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}

	plugins := make([]*Plugin, 0, len(files))

	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", name, err)
		}

		p := &Plugin{}

		err = yaml.NewDecoder(bytes.NewReader(data)).Decode(p)
		if err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", path.Base(name), err)
		}

		plugins = append(plugins, p)
	}

	return NewCatalog(plugins...)
}

func (c *Catalog) add(p *Plugin) error {
	if p == nil || p.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPlugin)
	}

	if p.Module == "" && !p.Core {
		return fmt.Errorf("%w: %s: missing module", ErrInvalidPlugin, p.Name)
	}

	if _, ok := c.lookup(p.Name); ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.Name)
	}

	for _, alias := range p.Aliases {
		if _, ok := c.lookup(alias); ok {
			return fmt.Errorf("%w: alias %s of %s", ErrDuplicatePlugin, alias, p.Name)
		}

		c.aliases[alias] = p.Name
	}

	c.plugins[p.Name] = p.Clone()

	return nil
}

func (c *Catalog) lookup(name string) (*Plugin, bool) {
	if canonical, ok := c.aliases[name]; ok {
		name = canonical
	}

	p, ok := c.plugins[name]

	return p, ok
}

// Plugin returns a copy of the plugin with the given name or alias.
func (c *Catalog) Plugin(name string) (*Plugin, bool) {
	p, ok := c.lookup(name)
	if !ok {
		return nil, false
	}

	return p.Clone(), true
}

// Names returns the names of all plugins in lexicographic order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.plugins))
	for name := range c.plugins {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Groups returns the names of the optional plugin groups in lexicographic
// order.
func (c *Catalog) Groups() []string {
	var groups []string
	for _, p := range c.plugins {
		if p.Group != "" && !slices.Contains(groups, p.Group) {
			groups = append(groups, p.Group)
		}
	}

	slices.Sort(groups)

	return groups
}

// All returns a [Set] holding every plugin in the catalog.
func (c *Catalog) All() Set {
	return c.filter(func(*Plugin) bool { return true })
}

// DefaultSet returns the plugins that are not part of an optional group.
func (c *Catalog) DefaultSet() Set {
	return c.filter(func(p *Plugin) bool { return p.Group == "" })
}

// Group returns a [Loader] for the plugins of the named optional group.
// The loader fails with [ErrUnknownGroup] when the group has no plugins.
func (c *Catalog) Group(name string) Loader {
	return func(ctx context.Context) (Set, error) {
		err := ctx.Err()
		if err != nil {
			return nil, err //nolint:wrapcheck // Return the original error.
		}

		s := c.filter(func(p *Plugin) bool { return p.Group == name })
		if len(s) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
		}

		return s, nil
	}
}

// RuleKeys returns every qualified rule key in the catalog, in lexicographic
// order.
func (c *Catalog) RuleKeys() []string {
	return c.All().RuleKeys()
}

func (c *Catalog) filter(keep func(*Plugin) bool) Set {
	s := Set{}
	for name, p := range c.plugins {
		if keep(p) {
			s[name] = p.Clone()
		}
	}

	return s
}
