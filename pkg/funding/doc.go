// Package funding maps crawled packages to the people and projects that
// can be sponsored.
//
// # Components
//
//   - [Locate] classifies a repository URL and extracts owner/name.
//   - [Resolver] looks up, for every GitHub-hosted package, the repository's
//     funding links and its contributors with a GitHub Sponsors listing.
//   - [Leaderboard] merges per-repository contributor records into one
//     record per login.
//
// # Failure handling
//
// Lookups are all-or-nothing per repository: if any call for a repository
// fails (metadata, funding links, contributors, or one contributor's
// sponsorship), the package is logged and skipped with code FETCH_FAILED,
// and nothing about it reaches the graph or the leaderboard. A hosted URL
// without a usable owner/name is skipped with code DATA_SHAPE.
//
// # Ordering
//
// Repositories are fetched concurrently, but results are applied in crawl
// discovery order, so the leaderboard's first-appearance order and the
// "last merged" sponsor count are deterministic.
package funding
