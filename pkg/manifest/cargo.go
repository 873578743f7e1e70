package manifest

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/fundamental/pkg/crawl"
	"github.com/matzehuels/fundamental/pkg/errors"
)

// ProjectRoot names the virtual root of a manifest without [package].name.
const ProjectRoot = "__project__"

// Cargo is a parsed Cargo.toml.
type Cargo struct {
	Name         string             // [package].name (may be empty for workspaces)
	Version      string             // [package].version
	Repository   string             // [package].repository
	Dependencies []crawl.Dependency // normal, then build, then dev; sorted by name within each kind
}

// Root returns the name of the crawl root the manifest stands for.
func (c *Cargo) Root() string {
	if c.Name != "" {
		return c.Name
	}
	return ProjectRoot
}

// LoadCargo reads and parses the Cargo.toml at path.
func LoadCargo(path string) (*Cargo, error) {
	if err := errors.ValidateManifestPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	return ParseCargo(data)
}

// ParseCargo parses Cargo.toml contents. Dependencies declared under
// target-specific tables are merged with the unconditional ones, and renamed
// dependencies (package = "...") are reported under their crates.io name.
func ParseCargo(data []byte) (*Cargo, error) {
	var f cargoFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse Cargo.toml")
	}

	normal := collect(f.Dependencies)
	build := collect(f.BuildDependencies)
	dev := collect(f.DevDependencies)
	for _, t := range f.Target {
		merge(normal, collect(t.Dependencies))
		merge(build, collect(t.BuildDependencies))
		merge(dev, collect(t.DevDependencies))
	}

	c := &Cargo{
		Name:       f.Package.Name,
		Version:    f.Package.Version,
		Repository: f.Package.Repository,
	}
	c.Dependencies = append(c.Dependencies, withKind(normal, "normal")...)
	c.Dependencies = append(c.Dependencies, withKind(build, "build")...)
	c.Dependencies = append(c.Dependencies, withKind(dev, crawl.KindDev)...)
	return c, nil
}

func collect(table map[string]any) map[string]bool {
	out := make(map[string]bool, len(table))
	for key, spec := range table {
		name := key
		if m, ok := spec.(map[string]any); ok {
			if pkg, ok := m["package"].(string); ok && pkg != "" {
				name = pkg
			}
		}
		out[name] = true
	}
	return out
}

func merge(dst, src map[string]bool) {
	for k := range src {
		dst[k] = true
	}
}

func withKind(names map[string]bool, kind string) []crawl.Dependency {
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	out := make([]crawl.Dependency, len(sorted))
	for i, n := range sorted {
		out[i] = crawl.Dependency{Name: n, Kind: kind}
	}
	return out
}

type cargoFile struct {
	Package struct {
		Name       string `toml:"name"`
		Version    string `toml:"version"`
		Repository string `toml:"repository"`
	} `toml:"package"`
	Dependencies      map[string]any         `toml:"dependencies"`
	DevDependencies   map[string]any         `toml:"dev-dependencies"`
	BuildDependencies map[string]any         `toml:"build-dependencies"`
	Target            map[string]targetTable `toml:"target"`
}

type targetTable struct {
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}
