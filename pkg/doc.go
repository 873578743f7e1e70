// Package pkg provides the libraries behind fundamental, which finds the
// projects and people a Rust crate depends on that can be funded.
//
// # Overview
//
// The pkg directory is organized leaf-first:
//
//  1. [integrations] - API clients for crates.io and GitHub (REST + GraphQL)
//  2. [crawl] - Breadth-first, depth-bounded dependency crawl
//  3. [manifest] - Cargo.toml roots layered over the registry
//  4. [funding] - Repository location, funding resolution, contributor leaderboard
//  5. [report] - Ranking and text/JSON/DOT/SVG output
//  6. [pipeline] - Orchestration (crawl → resolve → rank)
//
// Supporting packages: [cache] (file, Redis and MongoDB response caches),
// [errors] (coded errors), [observability] (hooks) and [buildinfo].
//
// # Architecture
//
//	crates.io / Cargo.toml
//	         ↓
//	    [crawl] (name → node map, depth fixed at first discovery)
//	         ↓
//	    [funding] (funding links + sponsorable contributors via GitHub)
//	         ↓
//	    [report] (repositories by depth, contributors by contributions or sponsors)
//
// # Quick Start
//
//	backend, _ := cache.Open(ctx, "", cacheDir)
//	reg := crawl.NewCrates(crates.NewClient(backend, 24*time.Hour), false)
//	host := github.NewClient(os.Getenv("GITHUB_API_TOKEN"), backend, 24*time.Hour)
//
//	result, err := pipeline.NewRunner(reg, host, logger).Execute(ctx, pipeline.Options{Root: "serde"})
//	if err != nil {
//	    return err
//	}
//	report.WriteText(os.Stdout, result.Report)
package pkg
