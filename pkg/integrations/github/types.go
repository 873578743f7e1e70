package github

// Repository is the subset of GET /repos/{owner}/{repo} fundamental uses.
type Repository struct {
	FullName        string `json:"full_name"`
	HTMLURL         string `json:"html_url"`
	ContributorsURL string `json:"contributors_url"`
}

// Contributor is one entry of a repository's contributor list.
type Contributor struct {
	Login         string `json:"login"`
	Type          string `json:"type"` // "User", "Bot" or "Organization"
	Contributions int    `json:"contributions"`
}

// IsUser reports whether the contributor is a human account.
func (c Contributor) IsUser() bool { return c.Type == "User" }

// Sponsorship describes a user's GitHub Sponsors listing.
type Sponsorship struct {
	HasSponsorsListing bool `json:"has_sponsors_listing"`
	Sponsors           int  `json:"sponsors"`
}

// Sponsorable reports whether the user can receive sponsorships.
func (s Sponsorship) Sponsorable() bool { return s.HasSponsorsListing }
