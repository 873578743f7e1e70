package crawl

import (
	"context"

	"github.com/matzehuels/fundamental/pkg/integrations/crates"
)

// Crates is a Registry backed by crates.io.
type Crates struct {
	client  *crates.Client
	refresh bool
}

// NewCrates wraps a crates.io client. With refresh set, cached responses
// are bypassed.
func NewCrates(client *crates.Client, refresh bool) *Crates {
	return &Crates{client: client, refresh: refresh}
}

// Package implements Registry.
func (c *Crates) Package(ctx context.Context, name string) (*Package, error) {
	info, err := c.client.FetchCrate(ctx, name, c.refresh)
	if err != nil {
		return nil, err
	}
	return &Package{Name: info.Name, Version: info.Version, Repository: info.Repository}, nil
}

// Dependencies implements Registry.
func (c *Crates) Dependencies(ctx context.Context, name, version string) ([]Dependency, error) {
	deps, err := c.client.FetchDependencies(ctx, name, version, c.refresh)
	if err != nil {
		return nil, err
	}
	out := make([]Dependency, len(deps))
	for i, d := range deps {
		out[i] = Dependency{Name: d.Name, Kind: d.Kind}
	}
	return out, nil
}

var _ Registry = (*Crates)(nil)
