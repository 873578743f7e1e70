// Package crates provides an HTTP client for the crates.io API.
//
// # Usage
//
//	client := crates.NewClient(backend, 24*time.Hour)
//
//	crate, err := client.FetchCrate(ctx, "serde", false)
//	if err != nil {
//	    return err
//	}
//	deps, err := client.FetchDependencies(ctx, crate.Name, crate.Version, false)
//
// # Dependencies
//
// [Client.FetchDependencies] returns every declared dependency of a version
// with its kind ("normal", "build" or "dev") and optional flag. Filtering is
// left to the caller.
//
// # Crawler policy
//
// crates.io asks automated clients to send a descriptive User-Agent and to
// stay at or below one request per second. The client does both by default.
// Responses are cached per crate and per crate version; pass refresh=true to
// bypass the cache.
package crates
