// Package github provides a client for the GitHub REST and GraphQL APIs.
//
// # Overview
//
// fundamental needs four lookups per repository:
//
//   - [Client.Repository]: REST repository metadata, mainly the contributors URL
//   - [Client.Contributors]: REST contributor list (first 100 entries)
//   - [Client.FundingLinks]: GraphQL repository.fundingLinks
//   - [Client.Sponsorship]: GraphQL user.hasSponsorsListing and sponsor count
//
// # Usage
//
//	client := github.NewClient(token, backend, 24*time.Hour)
//
//	repo, err := client.Repository(ctx, "serde-rs", "serde")
//	if err != nil {
//	    return err
//	}
//	people, err := client.Contributors(ctx, repo.ContributorsURL)
//
// # Authentication
//
// The sponsorship fields are only visible to authenticated GraphQL callers,
// so a personal access token is required. REST calls send it as a bearer
// header; GraphQL calls go through an oauth2 transport.
//
// # Caching and rate limiting
//
// Every lookup is cached through the shared [integrations.Client] and all
// calls share one client-side rate limiter ([DefaultRate] per second).
// Set [Client.Refresh] to bypass the cache.
package github
