// Package integrations provides HTTP clients for the APIs fundamental talks to.
//
// # Overview
//
// Each remote service has its own subpackage:
//
//   - [crates]: crates.io registry (crate metadata and dependency lists)
//   - [github]: GitHub REST and GraphQL (contributors, funding links,
//     sponsorship listings)
//
// # Client Pattern
//
// Both clients follow a consistent pattern:
//
//	backend, _ := cache.Open(ctx, "", dir)
//	client := crates.NewClient(backend, 24*time.Hour)
//	pkg, err := client.FetchCrate(ctx, "serde", false) // false = use cache
//
// # Shared Infrastructure
//
// The [Client] type provides the shared HTTP layer:
//   - response caching through a [cache.Cache] backend, one key namespace
//     per service
//   - retries with backoff for transient failures (network errors, 5xx, 429)
//   - optional client-side rate limiting
//   - classification of failures as [ErrNotFound], [ErrNetwork],
//     [ErrUnauthorized] or [ErrRateLimited]
//
// [crates]: github.com/matzehuels/fundamental/pkg/integrations/crates
// [github]: github.com/matzehuels/fundamental/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/fundamental/pkg/cache.Cache
package integrations
