package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	ferrors "github.com/matzehuels/fundamental/pkg/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envToken, envTokenFallback, envCache} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing config file should not fail: %v", err)
	}
	if cfg.MaxDepth != 1000 || cfg.Workers != 8 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.CacheTTL.Duration != defaultCacheTTL {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL.Duration)
	}
	if err := cfg.requireToken(); !ferrors.Is(err, ferrors.ErrCodeConfig) {
		t.Errorf("missing token error = %v, want CONFIG", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
max_depth = 3
dev = true
sort = "sponsors"
cache = "redis://localhost:6379/0"
cache_ttl = "2h"
github_rate = 2.5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxDepth != 3 || !cfg.Dev || cfg.Sort != "sponsors" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Cache != "redis://localhost:6379/0" || cfg.CacheTTL.Duration != 2*time.Hour {
		t.Errorf("cache settings = %q %v", cfg.Cache, cfg.CacheTTL.Duration)
	}
	if cfg.GitHubRate != 2.5 || cfg.CratesRate != 1.0 {
		t.Errorf("rates = %v %v", cfg.GitHubRate, cfg.CratesRate)
	}
	if cfg.Workers != 8 {
		t.Errorf("unset keys should keep defaults, workers = %d", cfg.Workers)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`cache_ttl = "soon"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); !ferrors.Is(err, ferrors.ErrCodeConfig) {
		t.Errorf("error = %v, want CONFIG", err)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(envCache, "none")
	t.Setenv(envTokenFallback, "fallback-token")
	t.Chdir(t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache != "none" {
		t.Errorf("Cache = %q, want env override", cfg.Cache)
	}
	if cfg.Token != "fallback-token" {
		t.Errorf("Token = %q, want GITHUB_TOKEN fallback", cfg.Token)
	}

	t.Setenv(envToken, "primary-token")
	cfg, _ = loadConfig("")
	if cfg.Token != "primary-token" {
		t.Errorf("Token = %q, GITHUB_API_TOKEN should win", cfg.Token)
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GITHUB_API_TOKEN=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv(envToken) })

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Token != "from-dotenv" {
		t.Errorf("Token = %q, want value from .env", cfg.Token)
	}
	if err := cfg.requireToken(); err != nil {
		t.Error(err)
	}
}
