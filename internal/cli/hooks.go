package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fundamental/pkg/observability"
)

// logHooks implements the observability hooks by writing debug logs.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnCrawlStart(_ context.Context, runID, root string) {
	h.logger.Debug("crawl started", "run", runID, "root", root)
}

func (h *logHooks) OnCrawlComplete(_ context.Context, runID, root string, nodes, failed int, d time.Duration) {
	h.logger.Debug("crawl complete", "run", runID, "root", root, "crates", nodes, "failed", failed, "duration", d)
}

func (h *logHooks) OnResolveStart(_ context.Context, runID string, packages int) {
	h.logger.Debug("resolve started", "run", runID, "crates", packages)
}

func (h *logHooks) OnResolveComplete(_ context.Context, runID string, repositories, contributors int, d time.Duration) {
	h.logger.Debug("resolve complete", "run", runID, "repositories", repositories, "contributors", contributors, "duration", d)
}

func (h *logHooks) OnPackageSkipped(_ context.Context, runID, pkg, reason string) {
	h.logger.Debug("package skipped", "run", runID, "crate", pkg, "reason", reason)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
	_ observability.HTTPHooks     = (*logHooks)(nil)
)
