package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	ferrors "github.com/matzehuels/fundamental/pkg/errors"
	"github.com/matzehuels/fundamental/pkg/integrations/crates"
	"github.com/matzehuels/fundamental/pkg/integrations/github"
	"github.com/matzehuels/fundamental/pkg/pipeline"
)

// Environment variables read at startup.
const (
	envToken         = "GITHUB_API_TOKEN"
	envTokenFallback = "GITHUB_TOKEN"
	envCache         = "FUNDAMENTAL_CACHE"
	envConfig        = "FUNDAMENTAL_CONFIG"
)

const defaultCacheTTL = 24 * time.Hour

// Config holds settings shared by every command. Values are layered:
// built-in defaults, then the TOML config file, then the environment, then
// command-line flags.
type Config struct {
	MaxDepth   int      `toml:"max_depth"`
	Dev        bool     `toml:"dev"`
	Workers    int      `toml:"workers"`
	Sort       string   `toml:"sort"`
	Order      string   `toml:"order"`
	Cache      string   `toml:"cache"` // Cache URL; empty = file cache, "none" disables caching
	CacheTTL   duration `toml:"cache_ttl"`
	CratesRate float64  `toml:"crates_rate"` // crates.io requests per second
	GitHubRate float64  `toml:"github_rate"` // GitHub requests per second
	Listen     string   `toml:"listen"`      // serve address

	// Token is never read from the config file.
	Token string `toml:"-"`
}

// duration decodes TOML strings such as "12h" into a time.Duration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		MaxDepth:   pipeline.DefaultMaxDepth,
		Workers:    pipeline.DefaultWorkers,
		CacheTTL:   duration{defaultCacheTTL},
		CratesRate: crates.DefaultRate,
		GitHubRate: github.DefaultRate,
		Listen:     "127.0.0.1:8080",
	}
}

// configPath returns the config file location: $FUNDAMENTAL_CONFIG, or
// config.toml under the XDG config directory (~/.config/fundamental/).
func configPath() (string, error) {
	if p := os.Getenv(envConfig); p != "" {
		return p, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig builds the effective configuration. A missing config file or
// .env file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, ferrors.Wrap(ferrors.ErrCodeConfig, err, "read config %s", path)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, ferrors.Wrap(ferrors.ErrCodeConfig, err, "read .env")
	}
	if v := os.Getenv(envCache); v != "" {
		cfg.Cache = v
	}
	cfg.Token = os.Getenv(envToken)
	if cfg.Token == "" {
		cfg.Token = os.Getenv(envTokenFallback)
	}
	return cfg, nil
}

// requireToken reports a configuration failure when no GitHub token is set.
func (c Config) requireToken() error {
	if c.Token == "" {
		return ferrors.New(ferrors.ErrCodeConfig,
			"%s is not set; create a GitHub token and export it or add it to .env", envToken)
	}
	return nil
}
