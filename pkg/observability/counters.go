package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters counts pipeline, cache and HTTP events. Install it with
// [SetAll] to expose totals from a long-running server.
type Counters struct {
	scans       atomic.Int64
	skipped     atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	requests    atomic.Int64
	httpErrors  atomic.Int64
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Scans       int64 `json:"scans"`
	Skipped     int64 `json:"skipped_packages"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Requests    int64 `json:"http_requests"`
	HTTPErrors  int64 `json:"http_errors"`
}

// Snapshot returns the current totals.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Scans:       c.scans.Load(),
		Skipped:     c.skipped.Load(),
		CacheHits:   c.cacheHits.Load(),
		CacheMisses: c.cacheMisses.Load(),
		Requests:    c.requests.Load(),
		HTTPErrors:  c.httpErrors.Load(),
	}
}

func (c *Counters) OnCrawlStart(context.Context, string, string) {
	c.scans.Add(1)
}

func (c *Counters) OnPackageSkipped(context.Context, string, string, string) {
	c.skipped.Add(1)
}

func (c *Counters) OnCacheHit(context.Context, string) {
	c.cacheHits.Add(1)
}

func (c *Counters) OnCacheMiss(context.Context, string) {
	c.cacheMisses.Add(1)
}

func (c *Counters) OnRequest(context.Context, string, string, string) {
	c.requests.Add(1)
}

func (c *Counters) OnError(context.Context, string, string, string, error) {
	c.httpErrors.Add(1)
}

func (*Counters) OnCrawlComplete(context.Context, string, string, int, int, time.Duration) {}
func (*Counters) OnResolveStart(context.Context, string, int)                              {}
func (*Counters) OnResolveComplete(context.Context, string, int, int, time.Duration)       {}
func (*Counters) OnCacheSet(context.Context, string, int)                                  {}
func (*Counters) OnResponse(context.Context, string, string, string, int, time.Duration)   {}

// SetAll registers h for every hook kind.
func SetAll(h interface {
	PipelineHooks
	CacheHooks
	HTTPHooks
}) {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)
