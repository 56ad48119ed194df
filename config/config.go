// Package config loads harvester settings from an optional YAML file plus
// environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"ecbpress/category"

	"gopkg.in/yaml.v3"
)

// Source modes accepted by the scraper.
const (
	ModeHTML = "html"
	ModeRSS  = "rss"
)

// SourceConfig controls listing discovery.
type SourceConfig struct {
	URL           string        `yaml:"url"`
	Mode          string        `yaml:"mode"` // html | rss
	MaxReports    int           `yaml:"max_reports"`
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	FetchCreators bool          `yaml:"fetch_creators"`
}

// DownloadConfig controls PDF retrieval and local persistence.
type DownloadConfig struct {
	OutputDir string        `yaml:"output_dir"`
	Timeout   time.Duration `yaml:"timeout"`
	Skip      bool          `yaml:"skip"`
}

// CategoryConfig overrides the built-in taxonomy rule table.
type CategoryConfig struct {
	Rules    []category.Rule `yaml:"rules"`
	Fallback string          `yaml:"fallback"`
}

// DedupConfig bounds the in-run seen-URL store and the optional Redis
// history TTL.
type DedupConfig struct {
	MaxKeys int           `yaml:"max_keys"`
	TTL     time.Duration `yaml:"ttl"`
}

// Config is the full harvester configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Download DownloadConfig `yaml:"download"`
	Category CategoryConfig `yaml:"category"`
	Dedup    DedupConfig    `yaml:"dedup"`
}

// Defaults returns the configuration used when no file is supplied.
func Defaults() *Config {
	return &Config{
		Source: SourceConfig{
			Mode:       ModeHTML,
			MaxReports: 100,
			Timeout:    60 * time.Second,
			UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		},
		Download: DownloadConfig{
			OutputDir: "downloads",
			Timeout:   5 * time.Minute,
		},
		Dedup: DedupConfig{
			MaxKeys: 10000,
			TTL:     24 * time.Hour,
		},
	}
}

// Load reads the YAML config at path, applying defaults for anything left
// unset. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Source.Mode == "" {
		cfg.Source.Mode = ModeHTML
	}
	if cfg.Source.Timeout <= 0 {
		cfg.Source.Timeout = 60 * time.Second
	}
	if cfg.Download.Timeout <= 0 {
		cfg.Download.Timeout = 5 * time.Minute
	}
	if cfg.Download.OutputDir == "" {
		cfg.Download.OutputDir = "downloads"
	}
	if cfg.Dedup.MaxKeys <= 0 {
		cfg.Dedup.MaxKeys = 10000
	}
	if cfg.Dedup.TTL <= 0 {
		cfg.Dedup.TTL = 24 * time.Hour
	}
	return cfg, nil
}

// GetEnvOrDefault returns the environment value for key, or def when unset
// or blank.
func GetEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
