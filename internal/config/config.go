// Package config loads saucereport settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/umangabuddhiniw/playwright-saucedemo/internal/artifact"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/pipeline"
	"github.com/umangabuddhiniw/playwright-saucedemo/internal/report"
)

// Config is the on-disk configuration. Command-line flags override it.
type Config struct {
	ArtifactsDir  string   `yaml:"artifacts_dir"`
	ReportsDir    string   `yaml:"reports_dir"`
	Database      string   `yaml:"database"`
	Manifest      string   `yaml:"manifest"`
	ReportPrefix  string   `yaml:"report_prefix"`
	Retention     int      `yaml:"retention"`
	CacheCapacity int      `yaml:"cache_capacity"`
	Extensions    []string `yaml:"extensions"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ArtifactsDir:  "test-results/screenshots",
		ReportsDir:    "test-results/reports",
		Database:      "test-results/saucereport.db",
		ReportPrefix:  report.DefaultPrefix,
		Retention:     report.DefaultRetention,
		CacheCapacity: artifact.DefaultCacheCapacity,
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.Retention < 1 {
		return fmt.Errorf("config: retention must be at least 1, got %d", c.Retention)
	}
	if c.CacheCapacity < 1 {
		return fmt.Errorf("config: cache_capacity must be at least 1, got %d", c.CacheCapacity)
	}
	if c.ArtifactsDir == "" {
		return errors.New("config: artifacts_dir is required")
	}
	if c.ReportsDir == "" {
		return errors.New("config: reports_dir is required")
	}
	return nil
}

// Settings converts the configuration into pipeline settings.
func (c Config) Settings() pipeline.Settings {
	return pipeline.Settings{
		ArtifactsDir:  c.ArtifactsDir,
		ReportsDir:    c.ReportsDir,
		ReportPrefix:  c.ReportPrefix,
		Retention:     c.Retention,
		CacheCapacity: c.CacheCapacity,
		Extensions:    c.Extensions,
	}
}
