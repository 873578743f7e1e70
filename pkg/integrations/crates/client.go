package crates

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/matzehuels/fundamental/pkg/buildinfo"
	"github.com/matzehuels/fundamental/pkg/cache"
	"github.com/matzehuels/fundamental/pkg/integrations"
)

// DefaultRate is the request budget crates.io asks crawlers to respect.
const DefaultRate = 1.0

// Dependency kinds reported by crates.io.
const (
	KindNormal = "normal"
	KindBuild  = "build"
	KindDev    = "dev"
)

// CrateInfo holds metadata for a Rust crate from crates.io.
//
// The Version field contains the max_version (latest stable or highest version).
// This struct is safe for concurrent reads after construction.
type CrateInfo struct {
	Name        string `json:"name"`                  // Crate name (e.g., "serde")
	Version     string `json:"version"`               // Latest version (e.g., "1.0.193")
	Repository  string `json:"repository,omitempty"`  // Repository URL (may be empty)
	HomePage    string `json:"homepage,omitempty"`    // Homepage URL (may be empty)
	Description string `json:"description,omitempty"` // Crate description (may be empty)
}

// Dependency is one declared dependency of a crate version.
// Optional (feature-gated) dependencies are listed like any other.
type Dependency struct {
	Name string `json:"name"` // Dependency crate name
	Kind string `json:"kind"` // "normal", "build" or "dev"
}

// Client provides access to the crates.io package registry API.
// It handles HTTP requests with caching, rate limiting and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a crates.io client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for HTTP response caching (use cache.NewNullCache() for no caching)
//   - cacheTTL: How long responses are cached (typical: 1-24 hours)
//
// The client sends the User-Agent header required by crates.io and is
// limited to [DefaultRate] requests per second; use SetRateLimit to change it.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	headers := map[string]string{
		"User-Agent": buildinfo.UserAgent(),
	}
	c := &Client{
		Client:  integrations.NewClient(backend, "crates:", cacheTTL, headers),
		baseURL: "https://crates.io/api/v1",
	}
	c.SetRateLimit(DefaultRate)
	return c
}

// FetchCrate retrieves metadata for a Rust crate from crates.io.
//
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - CrateInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the crate doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) FetchCrate(ctx context.Context, crate string, refresh bool) (*CrateInfo, error) {
	var info CrateInfo
	err := c.Cached(ctx, "crate:"+crate, refresh, &info, func() error {
		return c.fetchCrate(ctx, crate, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// FetchDependencies retrieves the declared dependencies of one crate
// version, of every kind, in the order crates.io lists them.
func (c *Client) FetchDependencies(ctx context.Context, crate, version string, refresh bool) ([]Dependency, error) {
	var deps []Dependency
	err := c.Cached(ctx, "deps:"+crate+"@"+version, refresh, &deps, func() error {
		return c.fetchDeps(ctx, crate, version, &deps)
	})
	if err != nil {
		return nil, err
	}
	return deps, nil
}

func (c *Client) fetchCrate(ctx context.Context, crate string, info *CrateInfo) error {
	var data crateResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/crates/%s", c.baseURL, url.PathEscape(crate)), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: crate %s", err, crate)
		}
		return err
	}

	*info = CrateInfo{
		Name:        data.Crate.Name,
		Version:     data.Crate.MaxVersion,
		Description: data.Crate.Description,
		Repository:  data.Crate.Repository,
		HomePage:    data.Crate.HomePage,
	}
	return nil
}

func (c *Client) fetchDeps(ctx context.Context, crate, version string, deps *[]Dependency) error {
	u := fmt.Sprintf("%s/crates/%s/%s/dependencies", c.baseURL, url.PathEscape(crate), url.PathEscape(version))

	var data depsResponse
	if err := c.Get(ctx, u, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: crate %s@%s", err, crate, version)
		}
		return err
	}

	out := make([]Dependency, 0, len(data.Dependencies))
	for _, d := range data.Dependencies {
		out = append(out, Dependency{Name: d.CrateID, Kind: d.Kind})
	}
	*deps = out
	return nil
}

type crateResponse struct {
	Crate struct {
		Name        string `json:"name"`
		MaxVersion  string `json:"max_version"`
		Description string `json:"description"`
		Repository  string `json:"repository"`
		HomePage    string `json:"homepage"`
	} `json:"crate"`
}

type depsResponse struct {
	Dependencies []struct {
		CrateID string `json:"crate_id"`
		Kind    string `json:"kind"`
	} `json:"dependencies"`
}
