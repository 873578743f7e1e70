package report

import (
	"slices"
	"strings"

	"github.com/matzehuels/fundamental/pkg/crawl"
	"github.com/matzehuels/fundamental/pkg/errors"
	"github.com/matzehuels/fundamental/pkg/funding"
)

// SortField selects the contributor statistic to rank by.
type SortField string

// Order is a sort direction.
type Order string

const (
	SortContributions SortField = "contributions"
	SortSponsors      SortField = "sponsors"

	Ascending  Order = "ascending"
	Descending Order = "descending"
)

// SortOptions controls contributor ranking.
type SortOptions struct {
	Field SortField `json:"field"`
	Order Order     `json:"order"`
}

// DefaultOrder returns the direction used when none is given: most
// contributions first, least-sponsored people first.
func (f SortField) DefaultOrder() Order {
	if f == SortSponsors {
		return Ascending
	}
	return Descending
}

// ParseSortOptions validates user-supplied sort settings. An empty field
// means contributions; an empty order means the field's default order.
// "asc" and "desc" are accepted as abbreviations.
func ParseSortOptions(field, order string) (SortOptions, error) {
	var opts SortOptions
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "", string(SortContributions):
		opts.Field = SortContributions
	case string(SortSponsors):
		opts.Field = SortSponsors
	default:
		return SortOptions{}, errors.New(errors.ErrCodeInvalidSort,
			"unknown sort field %q (want contributions or sponsors)", field)
	}

	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
		opts.Order = opts.Field.DefaultOrder()
	case "ascending", "asc":
		opts.Order = Ascending
	case "descending", "desc":
		opts.Order = Descending
	default:
		return SortOptions{}, errors.New(errors.ErrCodeInvalidSort,
			"unknown sort order %q (want ascending or descending)", order)
	}
	return opts, nil
}

// RankRepositories returns the nodes that have at least one funding link,
// ordered by depth with ties kept in discovery order.
func RankRepositories(nodes []*crawl.Node) []*crawl.Node {
	var out []*crawl.Node
	for _, n := range nodes {
		if len(n.FundingLinks) > 0 {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b *crawl.Node) int {
		return a.Depth - b.Depth
	})
	return out
}

// RankContributors returns a sorted copy of records. The sort is stable, so
// equal values keep the input (first-appearance) order.
func RankContributors(records []funding.Contributor, opts SortOptions) []funding.Contributor {
	if opts.Field == "" {
		opts.Field = SortContributions
	}
	if opts.Order == "" {
		opts.Order = opts.Field.DefaultOrder()
	}

	key := func(c funding.Contributor) int { return c.Contributions }
	if opts.Field == SortSponsors {
		key = func(c funding.Contributor) int { return c.Sponsors }
	}

	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b funding.Contributor) int {
		if opts.Order == Descending {
			return key(b) - key(a)
		}
		return key(a) - key(b)
	})
	return out
}
