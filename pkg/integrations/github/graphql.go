package github

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/matzehuels/fundamental/pkg/integrations"
)

type fundingLinksQuery struct {
	Repository *struct {
		FundingLinks []struct {
			URL string `graphql:"url"`
		} `graphql:"fundingLinks"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type sponsorshipQuery struct {
	User *struct {
		HasSponsorsListing bool `graphql:"hasSponsorsListing"`
		Sponsors           struct {
			TotalCount int `graphql:"totalCount"`
		} `graphql:"sponsors"`
	} `graphql:"user(login: $login)"`
}

// FundingLinks returns the funding URLs a repository declares in its
// FUNDING.yml, in the order GitHub reports them.
func (c *Client) FundingLinks(ctx context.Context, owner, repo string) ([]string, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}

	var links []string
	err := c.Cached(ctx, "funding:"+owner+"/"+repo, c.Refresh, &links, func() error {
		var q fundingLinksQuery
		vars := map[string]any{
			"owner": githubv4.String(owner),
			"name":  githubv4.String(repo),
		}
		if err := c.query(ctx, &q, vars); err != nil {
			return fmt.Errorf("funding links for %s/%s: %w", owner, repo, err)
		}
		if q.Repository == nil {
			return fmt.Errorf("%w: github repo %s/%s", integrations.ErrNotFound, owner, repo)
		}
		links = make([]string, 0, len(q.Repository.FundingLinks))
		for _, l := range q.Repository.FundingLinks {
			links = append(links, l.URL)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// Sponsorship reports whether login has a GitHub Sponsors listing and how
// many sponsors they have.
func (c *Client) Sponsorship(ctx context.Context, login string) (*Sponsorship, error) {
	if err := ValidateOwner(login); err != nil {
		return nil, err
	}

	var s Sponsorship
	err := c.Cached(ctx, "sponsorship:"+login, c.Refresh, &s, func() error {
		var q sponsorshipQuery
		vars := map[string]any{"login": githubv4.String(login)}
		if err := c.query(ctx, &q, vars); err != nil {
			return fmt.Errorf("sponsorship for %s: %w", login, err)
		}
		if q.User == nil {
			return fmt.Errorf("%w: github user %s", integrations.ErrNotFound, login)
		}
		s = Sponsorship{
			HasSponsorsListing: q.User.HasSponsorsListing,
			Sponsors:           q.User.Sponsors.TotalCount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) query(ctx context.Context, q any, vars map[string]any) error {
	if err := c.Wait(ctx); err != nil {
		return err
	}
	if err := c.gql.Query(ctx, q, vars); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", integrations.ErrNetwork, err)
	}
	return nil
}
