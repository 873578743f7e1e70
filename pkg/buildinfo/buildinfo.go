// Package buildinfo exposes the version stamped into fundamental at build
// time.
//
// Values are injected with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/fundamental/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/fundamental/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" \
//	    ./cmd/fundamental
package buildinfo

import "fmt"

var (
	Version = "dev"     // Semantic version, e.g. "v0.3.0"
	Commit  = "none"    // Git commit SHA
	Date    = "unknown" // Build timestamp (RFC 3339)
)

// Homepage is advertised in the User-Agent sent to crates.io and GitHub.
const Homepage = "https://github.com/matzehuels/fundamental"

// String returns the multi-line version block printed by "fundamental version".
func String() string {
	return fmt.Sprintf("fundamental %s\ncommit: %s\nbuilt:  %s", Version, Commit, Date)
}

// Template returns the cobra --version template.
func Template() string {
	return "{{.Name}} " + Version + " (" + Commit + ")\n"
}

// UserAgent identifies this build to remote APIs. crates.io rejects
// requests without a descriptive agent.
func UserAgent() string {
	return fmt.Sprintf("fundamental/%s (%s)", Version, Homepage)
}
