// Package config loads reviewregistry configuration from flags, environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults for optional settings.
const (
	DefaultReviewsRepo  = "neurodesk/neurodeskedu-reviews"
	DefaultOutPath      = "books/_static/reviews.json"
	DefaultDocsRoot     = "books"
	DefaultEnvFile      = ".env"
	DefaultListenAddr   = "127.0.0.1:8080"
	DefaultFetchTimeout = 60 * time.Second
	DefaultGitTimeout   = 30 * time.Second
)

// Config holds the resolved configuration for one CLI invocation.
type Config struct {
	ReviewsRepo  string
	OutPath      string
	FixturePath  string
	RepoDir      string
	DocsRoot     string
	HistoryDB    string
	ListenAddr   string
	GitHubToken  string
	LogLevel     slog.Level
	FetchTimeout time.Duration
	GitTimeout   time.Duration
}

// HasGitHubToken reports whether an API token was configured.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// StalenessEnabled reports whether a checkout directory was given.
func (c *Config) StalenessEnabled() bool {
	return c.RepoDir != ""
}

// setting ties a viper key to its environment variables and CLI flag.
type setting struct {
	key  string
	envs []string
	flag string
}

var settings = []setting{
	{key: "reviews_repo", envs: []string{"ND_REVIEWS_REPO"}, flag: "reviews-repo"},
	{key: "out", envs: []string{"ND_REVIEWS_OUT"}, flag: "out"},
	{key: "fixture", envs: []string{"ND_FIXTURE"}, flag: "fixture"},
	{key: "repo_dir", envs: []string{"ND_REPO_DIR"}, flag: "repo-dir"},
	{key: "docs_root", envs: []string{"ND_DOCS_ROOT"}, flag: "docs-root"},
	{key: "history_db", envs: []string{"ND_HISTORY_DB"}, flag: "history-db"},
	{key: "listen_addr", envs: []string{"ND_LISTEN_ADDR"}, flag: "listen"},
	{key: "github_token", envs: []string{"GITHUB_TOKEN", "GH_TOKEN"}},
	{key: "log_level", envs: []string{"ND_LOG_LEVEL"}, flag: "log-level"},
	{key: "fetch_timeout", envs: []string{"ND_FETCH_TIMEOUT"}},
	{key: "git_timeout", envs: []string{"ND_GIT_TIMEOUT"}},
}

// Load resolves configuration. Precedence is: flags explicitly set on flags,
// then environment variables, then values from the .env file named by
// ND_ENV_FILE (default .env), then built-in defaults. The .env file never
// overrides variables already present in the environment. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	for _, s := range settings {
		if err := v.BindEnv(append([]string{s.key}, s.envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", s.key, err)
		}
		if flags == nil || s.flag == "" {
			continue
		}
		if f := flags.Lookup(s.flag); f != nil {
			if err := v.BindPFlag(s.key, f); err != nil {
				return nil, fmt.Errorf("binding --%s: %w", s.flag, err)
			}
		}
	}

	cfg := &Config{
		ReviewsRepo: strings.TrimSpace(v.GetString("reviews_repo")),
		OutPath:     v.GetString("out"),
		FixturePath: v.GetString("fixture"),
		RepoDir:     v.GetString("repo_dir"),
		DocsRoot:    v.GetString("docs_root"),
		HistoryDB:   v.GetString("history_db"),
		ListenAddr:  v.GetString("listen_addr"),
		GitHubToken: strings.TrimSpace(v.GetString("github_token")),
	}

	if cfg.ReviewsRepo == "" {
		return nil, errors.New("ND_REVIEWS_REPO must not be empty")
	}
	if cfg.OutPath == "" {
		return nil, errors.New("ND_REVIEWS_OUT must not be empty")
	}

	raw := v.GetString("log_level")
	if err := cfg.LogLevel.UnmarshalText([]byte(raw)); err != nil {
		return nil, fmt.Errorf("ND_LOG_LEVEL has invalid level %q: %w", raw, err)
	}

	var err error
	if cfg.FetchTimeout, err = parseTimeout(v, "fetch_timeout", "ND_FETCH_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.GitTimeout, err = parseTimeout(v, "git_timeout", "ND_GIT_TIMEOUT"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("reviews_repo", DefaultReviewsRepo)
	v.SetDefault("out", DefaultOutPath)
	v.SetDefault("docs_root", DefaultDocsRoot)
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("log_level", "info")
	v.SetDefault("fetch_timeout", DefaultFetchTimeout.String())
	v.SetDefault("git_timeout", DefaultGitTimeout.String())
}

// loadEnvFile applies the .env file without overriding existing variables.
// A missing default file is not an error; a missing explicit one is.
func loadEnvFile() error {
	path := os.Getenv("ND_ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	return fmt.Errorf("loading env file %s: %w", path, err)
}

func parseTimeout(v *viper.Viper, key, env string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", env, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", env, d)
	}
	return d, nil
}
