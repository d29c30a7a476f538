package config

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"keyword-trends/engine"
	"keyword-trends/scoring"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// ErrInvalidConfig is wrapped by every validation failure so callers can
// reject a run before any scoring starts.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	envConfigPath = "KEYWORD_TRENDS_CONFIG"
	envDBPath     = "KEYWORD_TRENDS_DB"
	appName       = "keyword-trends"
)

type Scoring struct {
	Weights           scoring.Weights `yaml:"weights"`
	TrailingDays      int             `yaml:"trailing_days"`
	SnippetWindow     int             `yaml:"snippet_window"`
	MaxMentions       int             `yaml:"max_mentions"`
	MaxContentIDs     int             `yaml:"max_content_ids"`
	EmergingThreshold float64         `yaml:"emerging_threshold"`
	TrendTolerance    float64         `yaml:"trend_tolerance"`
}

type Embedding struct {
	Dimension int `yaml:"dimension"`
	CacheSize int `yaml:"cache_size"`
}

type Config struct {
	DBPath        string                     `yaml:"db_path"`
	LogLevel      string                     `yaml:"log_level"`
	HTTPAddr      string                     `yaml:"http_addr"`
	Schedule      string                     `yaml:"schedule"`
	Timezone      string                     `yaml:"timezone"`
	InboxDir      string                     `yaml:"inbox_dir"`
	RetentionDays int                        `yaml:"retention_days"`
	Workers       int                        `yaml:"workers"`
	Scoring       Scoring                    `yaml:"scoring"`
	Embedding     Embedding                  `yaml:"embedding"`
	LexiconPath   string                     `yaml:"lexicon_path"`
	Retry         engine.RetryPolicy         `yaml:"retry"`
	GroupWeights  map[string]scoring.Weights `yaml:"group_weights"`
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, appName, appName+".db")
}

// Defaults returns the embedded configuration.
func Defaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	cfg.DBPath = DefaultDBPath()
	return &cfg, nil
}

// Load reads the YAML file at path over the embedded defaults. An empty
// path falls back to $KEYWORD_TRENDS_CONFIG and then to the XDG config
// location; a missing file at the XDG location is not an error.
// $KEYWORD_TRENDS_DB overrides db_path.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	explicit := true
	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path == "" {
		path = DefaultConfigPath()
		explicit = false
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if envDB := os.Getenv(envDBPath); envDB != "" {
		cfg.DBPath = envDB
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks weights, bounds, schedule and timezone.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path is required", ErrInvalidConfig)
	}
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: scoring.weights: %w", ErrInvalidConfig, err)
	}
	for group, w := range c.GroupWeights {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%w: group_weights.%s: %w", ErrInvalidConfig, group, err)
		}
	}

	positive := []struct {
		name  string
		value int
	}{
		{"scoring.trailing_days", c.Scoring.TrailingDays},
		{"scoring.snippet_window", c.Scoring.SnippetWindow},
		{"scoring.max_mentions", c.Scoring.MaxMentions},
		{"scoring.max_content_ids", c.Scoring.MaxContentIDs},
		{"embedding.dimension", c.Embedding.Dimension},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, p.name, p.value)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("%w: retention_days must not be negative", ErrInvalidConfig)
	}
	if c.Scoring.TrendTolerance < 0 {
		return fmt.Errorf("%w: scoring.trend_tolerance must not be negative", ErrInvalidConfig)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("%w: retry.max_attempts must not be negative", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: invalid timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("%w: invalid schedule %q: %w", ErrInvalidConfig, c.Schedule, err)
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}

// EngineOptions converts the scoring section into engine options.
func (c *Config) EngineOptions() engine.Options {
	workers := c.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return engine.Options{
		Weights:           c.Scoring.Weights,
		GroupWeights:      c.GroupWeights,
		TrailingDays:      c.Scoring.TrailingDays,
		SnippetWindow:     c.Scoring.SnippetWindow,
		MaxMentions:       c.Scoring.MaxMentions,
		MaxContentIDs:     c.Scoring.MaxContentIDs,
		EmergingThreshold: c.Scoring.EmergingThreshold,
		TrendTolerance:    c.Scoring.TrendTolerance,
		Workers:           workers,
		Retry:             c.Retry,
	}
}

// ModelOptions describes the shared models to load at startup.
func (c *Config) ModelOptions() engine.ModelOptions {
	return engine.ModelOptions{
		LexiconPath:        c.LexiconPath,
		EmbeddingDimension: c.Embedding.Dimension,
		EmbeddingCacheSize: c.Embedding.CacheSize,
	}
}
