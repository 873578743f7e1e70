// Package crawl discovers the transitive dependency graph of a package.
//
// # Algorithm
//
// [Crawl] walks the registry breadth-first. Every package of one level is
// fetched (concurrently, by [Options.Workers] goroutines) before the next
// level starts, and results are handled in frontier order, so depths and
// discovery order are deterministic.
//
// A package name is enqueued at most once. Its depth is fixed when it is
// first enqueued, which with level-order processing is its shortest
// distance from the root. Cycles therefore terminate, and the graph never
// holds two nodes with the same name.
//
// Packages whose metadata or dependency list cannot be fetched are logged
// and skipped. They are not retried when another parent names them again.
//
// # Depth
//
// [Options.MaxDepth] bounds expansion: a package at depth MaxDepth is
// recorded but its dependencies are not enqueued. MaxDepth 0 crawls only
// the root.
//
// # Registries
//
// [Crates] adapts the crates.io client. Any other source of packages, such
// as a Cargo.toml overlay, implements [Registry].
package crawl
