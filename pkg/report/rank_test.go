package report

import (
	"fmt"
	"testing"

	"github.com/matzehuels/fundamental/pkg/crawl"
	"github.com/matzehuels/fundamental/pkg/errors"
	"github.com/matzehuels/fundamental/pkg/funding"
)

func logins(cs []funding.Contributor) string {
	var out []string
	for _, c := range cs {
		out = append(out, c.Login)
	}
	return fmt.Sprint(out)
}

func TestParseSortOptions(t *testing.T) {
	tests := []struct {
		field, order string
		want         SortOptions
		wantErr      bool
	}{
		{"", "", SortOptions{SortContributions, Descending}, false},
		{"contributions", "", SortOptions{SortContributions, Descending}, false},
		{"sponsors", "", SortOptions{SortSponsors, Ascending}, false},
		{"Sponsors", "desc", SortOptions{SortSponsors, Descending}, false},
		{"contributions", "ascending", SortOptions{SortContributions, Ascending}, false},
		{"stars", "", SortOptions{}, true},
		{"sponsors", "sideways", SortOptions{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.order, func(t *testing.T) {
			got, err := ParseSortOptions(tt.field, tt.order)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidSort) {
					t.Errorf("code = %v, want INVALID_SORT", errors.GetCode(err))
				}
				if !errors.IsFatal(err) {
					t.Error("invalid sort options must be fatal")
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRankContributorsDefaults(t *testing.T) {
	records := []funding.Contributor{
		{Login: "a", Contributions: 5, Sponsors: 9},
		{Login: "b", Contributions: 50, Sponsors: 1},
		{Login: "c", Contributions: 20, Sponsors: 4},
	}

	if got := logins(RankContributors(records, SortOptions{Field: SortSponsors})); got != "[b c a]" {
		t.Errorf("sponsors default = %s, want ascending [b c a]", got)
	}
	if got := logins(RankContributors(records, SortOptions{})); got != "[b c a]" {
		t.Errorf("contributions default = %s, want descending [b c a]", got)
	}
	if got := logins(RankContributors(records, SortOptions{SortContributions, Ascending})); got != "[a c b]" {
		t.Errorf("contributions ascending = %s", got)
	}
	if got := logins(RankContributors(records, SortOptions{SortSponsors, Descending})); got != "[a c b]" {
		t.Errorf("sponsors descending = %s", got)
	}
	if records[0].Login != "a" {
		t.Error("RankContributors must not reorder its input")
	}
}

func TestRankContributorsStable(t *testing.T) {
	records := []funding.Contributor{
		{Login: "first", Contributions: 3},
		{Login: "second", Contributions: 3},
		{Login: "top", Contributions: 10},
		{Login: "third", Contributions: 3},
	}
	for _, order := range []Order{Ascending, Descending} {
		got := logins(RankContributors(records, SortOptions{SortContributions, order}))
		want := "[top first second third]"
		if order == Ascending {
			want = "[first second third top]"
		}
		if got != want {
			t.Errorf("%s: got %s, want %s", order, got, want)
		}
	}
}

func TestRankRepositories(t *testing.T) {
	nodes := []*crawl.Node{
		{Name: "deep", Depth: 3, FundingLinks: []string{"x"}},
		{Name: "plain", Depth: 1},
		{Name: "mid-a", Depth: 2, FundingLinks: []string{"x"}},
		{Name: "shallow", Depth: 1, FundingLinks: []string{"x"}},
		{Name: "mid-b", Depth: 2, FundingLinks: []string{"x"}},
	}

	var names []string
	for _, n := range RankRepositories(nodes) {
		names = append(names, n.Name)
	}
	if got := fmt.Sprint(names); got != "[shallow mid-a mid-b deep]" {
		t.Errorf("RankRepositories = %s", got)
	}
}
