// Package pipeline runs a complete funding scan: crawl the dependency graph
// of a crate, resolve funding data for every GitHub-hosted dependency, and
// rank the result into a report.
//
// The CLI, the HTTP server and tests all go through the same [Runner], so
// every entry point applies the same defaults and emits the same
// observability events.
//
// # Usage
//
//	runner := pipeline.NewRunner(crawl.NewCrates(cratesClient, false), githubClient, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Root: "serde"})
//	if err != nil {
//	    return err
//	}
//	report.WriteText(os.Stdout, result.Report)
//
// Stages can also be run one at a time with [Runner.Crawl] and
// [Runner.Resolve].
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fundamental/pkg/crawl"
	"github.com/matzehuels/fundamental/pkg/errors"
	"github.com/matzehuels/fundamental/pkg/funding"
	"github.com/matzehuels/fundamental/pkg/report"
)

// Defaults shared by the CLI and the HTTP server.
const (
	DefaultMaxDepth = crawl.DefaultMaxDepth
	DefaultWorkers  = crawl.DefaultWorkers
)

// Options configures one scan.
type Options struct {
	Root       string             `json:"root"`
	MaxDepth   int                `json:"max_depth"` // Passed to the crawler as-is; 0 = root only, negative = default
	IncludeDev bool               `json:"dev,omitempty"`
	Workers    int                `json:"workers,omitempty"` // Crawl and resolve concurrency (default: 8)
	Sort       report.SortOptions `json:"sort"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Validate checks required fields and fills in defaults.
func (o *Options) Validate() error {
	o.Root = strings.TrimSpace(o.Root)
	if o.Root == "" {
		return errors.New(errors.ErrCodeInvalidInput, "a crate name or manifest is required")
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	sort, err := report.ParseSortOptions(string(o.Sort.Field), string(o.Sort.Order))
	if err != nil {
		return err
	}
	o.Sort = sort
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Result contains the outputs of a scan.
type Result struct {
	RunID   string
	Graph   *crawl.Graph
	Board   *funding.Leaderboard
	Summary *funding.Summary
	Report  *report.Report
	Stats   Stats
}

// Stats contains stage timings.
type Stats struct {
	CrawlTime   time.Duration
	ResolveTime time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("crawl %s, resolve %s",
		s.CrawlTime.Round(time.Millisecond), s.ResolveTime.Round(time.Millisecond))
}
