// Package manifest lets a local Cargo.toml act as the root of a crawl.
//
// [LoadCargo] parses the manifest; [NewOverlay] wraps a registry so that the
// manifest's package (or [ProjectRoot] for a virtual workspace manifest)
// resolves locally while everything below it comes from crates.io:
//
//	m, err := manifest.LoadCargo("Cargo.toml")
//	reg := manifest.NewOverlay(m, crawl.NewCrates(client, false))
//	g, err := crawl.Crawl(ctx, reg, m.Root(), opts)
package manifest
