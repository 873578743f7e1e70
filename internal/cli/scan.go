package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fundamental/pkg/crawl"
	ferrors "github.com/matzehuels/fundamental/pkg/errors"
	"github.com/matzehuels/fundamental/pkg/manifest"
	"github.com/matzehuels/fundamental/pkg/observability"
	"github.com/matzehuels/fundamental/pkg/pipeline"
	"github.com/matzehuels/fundamental/pkg/report"
)

// Output formats for scan results.
const (
	formatText = "text"
	formatJSON = "json"
)

// scanOpts holds the command-line flags for the scan command.
type scanOpts struct {
	dev         bool   // follow dev-dependencies
	maxDepth    int    // maximum dependency depth
	workers     int    // concurrent fetches
	sort        string // contributions or sponsors
	order       string // ascending or descending
	format      string // text or json
	output      string // output file path (stdout if empty)
	graph       string // DOT/SVG export path
	interactive bool   // browse results in a TUI
	refresh     bool   // bypass HTTP cache
	noCache     bool   // disable the HTTP cache
	cache       string // cache URL override
}

// apply layers the flags the user set explicitly over cfg.
func (o *scanOpts) apply(cmd *cobra.Command, cfg Config) Config {
	changed := cmd.Flags().Changed
	if changed("dev") {
		cfg.Dev = o.dev
	}
	if changed("max-depth") {
		cfg.MaxDepth = o.maxDepth
	}
	if changed("workers") {
		cfg.Workers = o.workers
	}
	if changed("sort") {
		cfg.Sort = o.sort
	}
	if changed("order") {
		cfg.Order = o.order
	}
	if changed("cache") {
		cfg.Cache = o.cache
	}
	return cfg
}

// validate checks flag values that do not depend on the network.
func (o *scanOpts) validate() error {
	switch o.format {
	case formatText, formatJSON:
	default:
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "unknown format %q (want text or json)", o.format)
	}
	if o.graph != "" {
		if _, err := report.GraphFormat(o.graph); err != nil {
			return err
		}
	}
	if o.interactive && o.format == formatJSON {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "--interactive cannot be combined with --format json")
	}
	return nil
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	opts := scanOpts{
		maxDepth: pipeline.DefaultMaxDepth,
		workers:  pipeline.DefaultWorkers,
		format:   formatText,
	}

	cmd := &cobra.Command{
		Use:   "scan <crate|Cargo.toml>",
		Short: "Rank the fundable projects and people behind a crate's dependencies",
		Long: `Crawl the dependency graph of a crate (or a local Cargo.toml), look up every
dependency's GitHub repository, and list funding links and sponsorable
contributors.

Requires a GitHub token in GITHUB_API_TOKEN (or GITHUB_TOKEN).

Examples:
  fundamental scan serde                          # Crate from crates.io
  fundamental scan ./Cargo.toml --dev             # Local manifest, include dev-dependencies
  fundamental scan tokio --sort sponsors          # Least-sponsored contributors first
  fundamental scan tokio --format json -o out.json
  fundamental scan tokio --graph deps.svg         # Also export the dependency graph`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd.Context(), opts.apply(cmd, c.Config), &opts, args[0])
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.dev, "dev", false, "include dev-dependencies")
	f.IntVar(&opts.maxDepth, "max-depth", opts.maxDepth, "maximum dependency depth (0 = the crate itself)")
	f.IntVar(&opts.workers, "workers", opts.workers, "concurrent requests")
	f.StringVar(&opts.sort, "sort", "", "rank contributors by: contributions, sponsors")
	f.StringVar(&opts.order, "order", "", "ascending or descending (default depends on --sort)")
	f.StringVar(&opts.format, "format", opts.format, "output format: text, json")
	f.StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	f.StringVar(&opts.graph, "graph", "", "export the dependency graph (.dot or .svg)")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "browse results interactively")
	f.BoolVar(&opts.refresh, "refresh", false, "bypass cached API responses")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the HTTP response cache")
	f.StringVar(&opts.cache, "cache", "", "cache URL (file://, redis://, mongodb://, none)")

	_ = cmd.RegisterFlagCompletionFunc("sort", cobra.FixedCompletions(
		[]string{string(report.SortContributions), string(report.SortSponsors)}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("order", cobra.FixedCompletions(
		[]string{string(report.Ascending), string(report.Descending)}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{formatText, formatJSON}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runScan(ctx context.Context, cfg Config, opts *scanOpts, arg string) error {
	if err := opts.validate(); err != nil {
		return err
	}
	sort, err := report.ParseSortOptions(cfg.Sort, cfg.Order)
	if err != nil {
		return err
	}
	root, cargo, err := resolveInput(arg)
	if err != nil {
		return err
	}

	svc, err := c.newServices(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer svc.Close()

	var reg crawl.Registry = crawl.NewCrates(svc.crates, opts.refresh)
	if cargo != nil {
		reg = manifest.NewOverlay(cargo, reg)
	}
	runner := svc.runner(reg, c.Logger, opts.refresh)

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Crawling %s...", root))
	if !c.verbose {
		observability.SetPipelineHooks(spinner)
		defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})
		spinner.Start()
	}
	result, err := runner.Execute(ctx, pipeline.Options{
		Root:       root,
		MaxDepth:   cfg.MaxDepth,
		IncludeDev: cfg.Dev,
		Workers:    cfg.Workers,
		Sort:       sort,
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scanned %d crates, %d sponsorable contributors", result.Graph.Len(), result.Board.Len()))
	if n := len(result.Graph.Failed()); n > 0 {
		printWarning("%d crates could not be fetched and were skipped", n)
	}

	if opts.graph != "" {
		if err := writeGraph(ctx, opts.graph, result); err != nil {
			return err
		}
	}
	if opts.interactive {
		return browse(result.Report)
	}
	return writeReport(opts.output, opts.format, result.Report)
}

// resolveInput decides whether arg names a manifest or a crate. A directory
// containing Cargo.toml counts as a manifest.
func resolveInput(arg string) (string, *manifest.Cargo, error) {
	path, ok := manifestPath(arg)
	if !ok {
		if err := ferrors.ValidateCrateName(arg); err != nil {
			return "", nil, err
		}
		return arg, nil, nil
	}
	m, err := manifest.LoadCargo(path)
	if err != nil {
		return "", nil, err
	}
	return m.Root(), m, nil
}

func manifestPath(arg string) (string, bool) {
	info, err := os.Stat(arg)
	if err != nil {
		return arg, strings.HasSuffix(strings.ToLower(arg), ".toml")
	}
	if !info.IsDir() {
		return arg, true
	}
	p := filepath.Join(arg, "Cargo.toml")
	if _, err := os.Stat(p); err != nil {
		return arg, false
	}
	return p, true
}

func writeGraph(ctx context.Context, path string, result *pipeline.Result) error {
	format, err := report.GraphFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := report.WriteGraph(ctx, f, result.Graph, format); err != nil {
		f.Close()
		return fmt.Errorf("write graph: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	printFile(path)
	return nil
}

func writeReport(path, format string, r *report.Report) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	var err error
	if format == formatJSON {
		err = report.WriteJSON(w, r)
	} else {
		err = report.WriteText(w, r)
	}
	if err != nil {
		return err
	}
	if path != "" {
		printFile(path)
	}
	return nil
}
