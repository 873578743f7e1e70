package crawl

import (
	"context"
)

const (
	DefaultMaxDepth = 1000 // Default maximum dependency depth
	DefaultWorkers  = 8    // Default concurrent registry fetches per level
)

// KindDev marks a development-only dependency.
const KindDev = "dev"

// Options configures a crawl.
type Options struct {
	MaxDepth   int                  // Maximum depth to expand; 0 = root only, negative = DefaultMaxDepth
	IncludeDev bool                 // Follow development dependencies
	Workers    int                  // Concurrent fetches per level (default: 8)
	Logger     func(string, ...any) // Progress/error callback (optional)
}

// WithDefaults returns a copy of Options with unset values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxDepth < 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Package is the registry metadata the crawler needs for one package.
type Package struct {
	Name       string // Package name
	Version    string // Latest version
	Repository string // Source repository URL (may be empty)
}

// Dependency is one declared dependency of a package version.
type Dependency struct {
	Name string // Dependency package name
	Kind string // "normal", "build" or "dev"
}

// Registry is the package registry the crawler reads from.
type Registry interface {
	// Package retrieves the latest metadata for name.
	Package(ctx context.Context, name string) (*Package, error)
	// Dependencies lists the declared dependencies of name at version.
	Dependencies(ctx context.Context, name, version string) ([]Dependency, error)
}

// Crawl discovers the dependency graph of root breadth-first, down to
// opts.MaxDepth levels below it.
//
// Packages that cannot be fetched are logged, reported by [Graph.Failed]
// and left out of the graph; their dependencies are not expanded. A root
// that cannot be fetched therefore yields an empty graph, not an error.
// The only error returned is ctx.Err() when the crawl is canceled, together
// with everything discovered so far.
func Crawl(ctx context.Context, reg Registry, root string, opts Options) (*Graph, error) {
	c := &crawler{
		reg:   reg,
		opts:  opts.WithDefaults(),
		graph: newGraph(root),
		seen:  make(map[string]bool),
	}
	err := c.run(ctx, root)
	return c.graph, err
}
