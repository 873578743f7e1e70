package report

import (
	"context"
	"testing"

	"github.com/matzehuels/fundamental/pkg/crawl"
	"github.com/matzehuels/fundamental/pkg/funding"
)

type node struct {
	repo string
	deps []string
}

type registry map[string]node

func (r registry) Package(_ context.Context, name string) (*crawl.Package, error) {
	n := r[name]
	return &crawl.Package{Name: name, Version: "1.0.0", Repository: n.repo}, nil
}

func (r registry) Dependencies(_ context.Context, name, _ string) ([]crawl.Dependency, error) {
	var out []crawl.Dependency
	for _, d := range r[name].deps {
		out = append(out, crawl.Dependency{Name: d, Kind: "normal"})
	}
	return out, nil
}

// sampleGraph crawls app -> (serde -> serde_derive, tokio) and marks
// serde_derive and tokio as fundable.
func sampleGraph(t *testing.T) *crawl.Graph {
	t.Helper()
	reg := registry{
		"app":          {deps: []string{"serde", "tokio"}},
		"serde":        {repo: "https://github.com/serde-rs/serde", deps: []string{"serde_derive"}},
		"serde_derive": {repo: "https://github.com/serde-rs/serde"},
		"tokio":        {repo: "https://github.com/tokio-rs/tokio"},
	}
	g, err := crawl.Crawl(context.Background(), reg, "app", crawl.Options{MaxDepth: -1})
	if err != nil {
		t.Fatal(err)
	}
	g.SetFundingLinks("serde_derive", []string{"https://github.com/sponsors/dtolnay"})
	g.SetFundingLinks("tokio", []string{"https://opencollective.com/tokio"})
	return g
}

func sampleBoard() *funding.Leaderboard {
	b := funding.NewLeaderboard()
	b.Add(funding.Contributor{Login: "dtolnay", Contributions: 900, Sponsors: 120})
	b.Add(funding.Contributor{Login: "carllerche", Contributions: 400, Sponsors: 30})
	b.Add(funding.Contributor{Login: "darksonn", Contributions: 400, Sponsors: 5})
	return b
}
