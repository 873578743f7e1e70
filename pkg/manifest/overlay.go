package manifest

import (
	"context"

	"github.com/matzehuels/fundamental/pkg/crawl"
)

// Overlay is a crawl.Registry that answers for a local manifest's root and
// delegates every other name to a base registry.
type Overlay struct {
	manifest *Cargo
	base     crawl.Registry
}

// NewOverlay layers m over base.
func NewOverlay(m *Cargo, base crawl.Registry) *Overlay {
	return &Overlay{manifest: m, base: base}
}

// Package implements crawl.Registry.
func (o *Overlay) Package(ctx context.Context, name string) (*crawl.Package, error) {
	if name == o.manifest.Root() {
		return &crawl.Package{
			Name:       name,
			Version:    o.manifest.Version,
			Repository: o.manifest.Repository,
		}, nil
	}
	return o.base.Package(ctx, name)
}

// Dependencies implements crawl.Registry.
func (o *Overlay) Dependencies(ctx context.Context, name, version string) ([]crawl.Dependency, error) {
	if name == o.manifest.Root() {
		return o.manifest.Dependencies, nil
	}
	return o.base.Dependencies(ctx, name, version)
}

var _ crawl.Registry = (*Overlay)(nil)
