package funding

import (
	"strings"

	"github.com/matzehuels/fundamental/pkg/integrations"
	"github.com/matzehuels/fundamental/pkg/integrations/github"
)

// githubHost is matched anywhere in a repository URL.
const githubHost = "github.com"

// Location is a repository URL classified by hosting platform.
type Location struct {
	URL    string // Normalized repository URL
	Hosted bool   // URL points at GitHub
	Owner  string // Second-to-last path segment
	Name   string // Last path segment
}

// Valid reports whether a hosted location names a usable owner/repository
// pair.
func (l Location) Valid() bool {
	return l.Hosted && github.ValidateRepoRef(l.Owner, l.Name) == nil
}

// String returns "owner/name".
func (l Location) String() string {
	return l.Owner + "/" + l.Name
}

// Locate classifies a free-text repository URL. URLs that do not mention
// github.com are not hosted. For hosted URLs the owner and name are the last
// two "/"-separated segments of the normalized URL; check [Location.Valid]
// before using them.
func Locate(rawURL string) Location {
	u := integrations.NormalizeRepoURL(rawURL)
	if u == "" || !strings.Contains(u, githubHost) {
		return Location{URL: u}
	}

	loc := Location{URL: u, Hosted: true}
	segs := strings.Split(u, "/")
	if len(segs) >= 2 {
		loc.Owner = segs[len(segs)-2]
		loc.Name = segs[len(segs)-1]
	}
	return loc
}
