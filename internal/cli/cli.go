// Package cli implements the fundamental command-line interface.
//
// # Commands
//
//   - scan: crawl a crate's dependencies and rank who to fund
//   - serve: expose scans over an HTTP API
//   - cache: manage the HTTP response cache
//   - completion: generate shell completion scripts
//
// All commands support --verbose (-v) for debug-level logging, which also
// installs observability hooks that log every HTTP request and cache event.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fundamental/pkg/buildinfo"
	"github.com/matzehuels/fundamental/pkg/cache"
	"github.com/matzehuels/fundamental/pkg/crawl"
	"github.com/matzehuels/fundamental/pkg/integrations/crates"
	"github.com/matzehuels/fundamental/pkg/integrations/github"
	"github.com/matzehuels/fundamental/pkg/observability"
	"github.com/matzehuels/fundamental/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "fundamental"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configFile string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Find the people and projects behind a crate's dependencies that you can fund",
		Long: `fundamental crawls the dependency graph of a Rust crate on crates.io, looks up
every dependency's GitHub repository, and ranks the funding links and
sponsorable contributors it finds.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default ~/.config/fundamental/config.toml)")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and applies the log level. Subcommand flags are
// applied on top of c.Config by the commands themselves.
func (c *CLI) setup() error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		installLogHooks(c.Logger)
	}

	path := c.configFile
	if path == "" {
		var err error
		if path, err = configPath(); err != nil {
			c.Logger.Debug("no config path", "error", err)
		}
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache, "max_depth", cfg.MaxDepth)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// services bundles the clients one command needs.
type services struct {
	cache  cache.Cache
	crates *crates.Client
	github *github.Client
}

// Close releases the cache backend.
func (s *services) Close() error {
	return s.cache.Close()
}

// newServices opens the cache backend and builds the API clients. The
// GitHub token must be set.
func (c *CLI) newServices(ctx context.Context, cfg Config, noCache bool) (*services, error) {
	if err := cfg.requireToken(); err != nil {
		return nil, err
	}

	url := cfg.Cache
	if noCache {
		url = "none"
	}
	dir, err := cacheDir()
	if err != nil && url == "" {
		c.Logger.Warn("caching disabled", "error", err)
		url = "none"
	}
	backend, err := cache.Open(ctx, url, dir)
	if err != nil {
		return nil, err
	}

	cc := crates.NewClient(backend, cfg.CacheTTL.Duration)
	cc.SetRateLimit(cfg.CratesRate)
	gh := github.NewClient(cfg.Token, backend, cfg.CacheTTL.Duration)
	gh.SetRateLimit(cfg.GitHubRate)

	return &services{cache: backend, crates: cc, github: gh}, nil
}

// runner creates a pipeline runner over reg. refresh bypasses cached
// responses from both APIs.
func (s *services) runner(reg crawl.Registry, logger *log.Logger, refresh bool) *pipeline.Runner {
	s.github.Refresh = refresh
	return pipeline.NewRunner(reg, s.github, logger)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/fundamental/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// installLogHooks logs HTTP, cache and pipeline events at debug level.
func installLogHooks(logger *log.Logger) {
	observability.SetAll(&logHooks{logger: logger})
}
