package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/matzehuels/fundamental/pkg/buildinfo"
	"github.com/matzehuels/fundamental/pkg/cache"
	"github.com/matzehuels/fundamental/pkg/integrations"
)

// DefaultRate is the default client-side request budget per second, shared
// by REST and GraphQL calls.
const DefaultRate = 10.0

// contributorsPageSize is the largest page the contributors endpoint serves.
// Only the first page is read.
const contributorsPageSize = 100

// Client provides access to the GitHub REST and GraphQL APIs.
// It handles HTTP requests with caching, automatic retries and rate limiting.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	gql     *githubv4.Client

	// Refresh bypasses cached responses when set.
	Refresh bool
}

// NewClient creates a GitHub API client authenticated with token.
// REST calls go to https://api.github.com and GraphQL calls to its
// /graphql endpoint.
func NewClient(token string, backend cache.Cache, cacheTTL time.Duration) *Client {
	return newClient(token, backend, cacheTTL, "https://api.github.com")
}

func newClient(token string, backend cache.Cache, cacheTTL time.Duration, baseURL string) *Client {
	headers := map[string]string{
		"Accept":     "application/vnd.github+json",
		"User-Agent": buildinfo.UserAgent(),
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	httpClient := integrations.NewHTTPClient()
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	c := &Client{
		Client:  integrations.NewClient(backend, "github:", cacheTTL, headers),
		baseURL: baseURL,
		gql:     githubv4.NewEnterpriseClient(baseURL+"/graphql", httpClient),
	}
	c.SetRateLimit(DefaultRate)
	return c
}

// Repository fetches repository metadata (GET /repos/{owner}/{repo}).
func (c *Client) Repository(ctx context.Context, owner, repo string) (*Repository, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}

	var r Repository
	err := c.Cached(ctx, "repo:"+owner+"/"+repo, c.Refresh, &r, func() error {
		u := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
		if err := c.Get(ctx, u, &r); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Contributors fetches the first page of a repository's contributors from
// the contributors URL reported by [Client.Repository].
func (c *Client) Contributors(ctx context.Context, contributorsURL string) ([]Contributor, error) {
	u, err := url.Parse(contributorsURL)
	if err != nil {
		return nil, fmt.Errorf("contributors url: %w", err)
	}
	q := u.Query()
	q.Set("per_page", fmt.Sprint(contributorsPageSize))
	u.RawQuery = q.Encode()

	var out []Contributor
	err = c.Cached(ctx, "contributors:"+u.String(), c.Refresh, &out, func() error {
		return c.Get(ctx, u.String(), &out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
