package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/fundamental/pkg/crawl"
	"github.com/matzehuels/fundamental/pkg/funding"
	"github.com/matzehuels/fundamental/pkg/observability"
	"github.com/matzehuels/fundamental/pkg/report"
)

// Runner wires a package registry and a code host into a scan.
//
// The Runner holds no per-scan state; each Execute call gets its own run ID
// and its own memoizing resolver. Multiple goroutines can share a Runner.
type Runner struct {
	Registry crawl.Registry
	Host     funding.Host
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default().
func NewRunner(reg crawl.Registry, host funding.Host, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Registry: reg, Host: host, Logger: logger}
}

// Execute runs crawl → resolve → rank.
//
// Package-level failures never fail the scan; they are logged and listed in
// the report. The returned error is either an invalid option or the
// context's error after cancellation.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID[:8])
	opts.Logger = logger
	result := &Result{RunID: runID}

	crawlStart := time.Now()
	g, err := r.Crawl(ctx, runID, opts)
	if err != nil {
		return nil, fmt.Errorf("crawl: %w", err)
	}
	result.Graph = g
	result.Stats.CrawlTime = time.Since(crawlStart)

	logger.Info("crawled dependencies",
		"root", opts.Root,
		"crates", g.Len(),
		"failed", len(g.Failed()),
		"duration", result.Stats.CrawlTime)

	resolveStart := time.Now()
	board := funding.NewLeaderboard()
	sum, err := r.Resolve(ctx, runID, g, board, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Board = board
	result.Summary = sum
	result.Stats.ResolveTime = time.Since(resolveStart)

	logger.Info("resolved funding",
		"hosted", sum.Hosted,
		"resolved", sum.Resolved,
		"skipped", len(sum.Skipped),
		"contributors", board.Len(),
		"duration", result.Stats.ResolveTime)

	result.Report = report.Build(g, board, sum, opts.Sort)
	result.Report.RunID = runID
	return result, nil
}

// Crawl runs the dependency crawl stage.
func (r *Runner) Crawl(ctx context.Context, runID string, opts Options) (*crawl.Graph, error) {
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	hooks.OnCrawlStart(ctx, runID, opts.Root)
	start := time.Now()

	g, err := crawl.Crawl(ctx, r.Registry, opts.Root, crawl.Options{
		MaxDepth:   opts.MaxDepth,
		IncludeDev: opts.IncludeDev,
		Workers:    opts.Workers,
		Logger:     opts.Logger.Warnf,
	})
	if err != nil {
		return nil, err
	}

	hooks.OnCrawlComplete(ctx, runID, opts.Root, g.Len(), len(g.Failed()), time.Since(start))
	return g, nil
}

// Resolve runs the funding resolution stage over g, merging contributors
// into board.
func (r *Runner) Resolve(ctx context.Context, runID string, g *crawl.Graph, board *funding.Leaderboard, opts Options) (*funding.Summary, error) {
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, runID, g.Len())
	start := time.Now()

	resolver := funding.NewResolver(r.Host, funding.Options{
		Workers: opts.Workers,
		Logger:  opts.Logger.Warnf,
	})
	sum, err := resolver.Resolve(ctx, g, board)
	if err != nil {
		return nil, err
	}

	for _, s := range sum.Skipped {
		hooks.OnPackageSkipped(ctx, runID, s.Package, string(s.Code))
	}
	hooks.OnResolveComplete(ctx, runID, sum.Resolved, board.Len(), time.Since(start))
	return sum, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
}
