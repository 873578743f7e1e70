package report

import (
	"time"

	"github.com/matzehuels/fundamental/pkg/crawl"
	"github.com/matzehuels/fundamental/pkg/funding"
)

// Report is the ranked output of one scan.
type Report struct {
	RunID        string                `json:"run_id"`
	Root         string                `json:"root"`
	GeneratedAt  time.Time             `json:"generated_at"`
	Sort         SortOptions           `json:"sort"`
	Repositories []Repository          `json:"repositories"`
	Contributors []funding.Contributor `json:"contributors"`
	Stats        Stats                 `json:"stats"`
}

// Repository is one fundable package.
type Repository struct {
	Package    string   `json:"package"`
	Repository string   `json:"repository"`
	Depth      int      `json:"depth"`
	Links      []string `json:"links"`
}

// Stats summarizes how much of the dependency graph could be examined.
type Stats struct {
	Crawled  int            `json:"crawled"`
	Failed   []string       `json:"failed,omitempty"`
	Hosted   int            `json:"hosted"`
	Resolved int            `json:"resolved"`
	Skipped  []funding.Skip `json:"skipped,omitempty"`
}

// Build ranks a resolved graph and leaderboard into a Report.
func Build(g *crawl.Graph, board *funding.Leaderboard, sum *funding.Summary, opts SortOptions) *Report {
	r := &Report{
		Root:         g.Root(),
		GeneratedAt:  time.Now().UTC(),
		Sort:         opts,
		Repositories: []Repository{},
		Contributors: RankContributors(board.Records(), opts),
		Stats: Stats{
			Crawled: g.Len(),
			Failed:  g.Failed(),
		},
	}
	if r.Contributors == nil {
		r.Contributors = []funding.Contributor{}
	}
	if sum != nil {
		r.Stats.Hosted = sum.Hosted
		r.Stats.Resolved = sum.Resolved
		r.Stats.Skipped = sum.Skipped
	}
	for _, n := range RankRepositories(g.Nodes()) {
		r.Repositories = append(r.Repositories, Repository{
			Package:    n.Name,
			Repository: n.Repository,
			Depth:      n.Depth,
			Links:      n.FundingLinks,
		})
	}
	return r
}
