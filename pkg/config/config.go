// Package config loads lumen configuration from TOML, YAML, or JSON files,
// with programmatic defaults when no file is present. The fraud rule set
// lives here so graders can ban constructs per course without rebuilding.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/graderd/lumen/pkg/analyzer/fraud"
	"github.com/graderd/lumen/pkg/pipeline"
)

// Config holds all configuration options for lumen.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Fraud detection rules
	Fraud FraudConfig `koanf:"fraud" toml:"fraud"`

	// Thresholds for suggestions and evidence
	Thresholds ThresholdConfig `koanf:"thresholds" toml:"thresholds"`

	// Batch-mode file exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// AnalysisConfig controls which passes run.
type AnalysisConfig struct {
	Complexity bool `koanf:"complexity" toml:"complexity"`
	Fraud      bool `koanf:"fraud" toml:"fraud"`
	Summary    bool `koanf:"summary" toml:"summary"`
}

// FraudConfig holds the forbidden-construct rule set and print-call
// overrides for the fraud pass.
type FraudConfig struct {
	Rules        []fraud.Rule `koanf:"rules" toml:"rules"`
	PrintCallees []string     `koanf:"print_callees" toml:"print_callees"`
}

// ThresholdConfig tunes suggestion and evidence limits.
type ThresholdConfig struct {
	NestingLimit int `koanf:"nesting_limit" toml:"nesting_limit"`
	MaxEvidence  int `koanf:"max_evidence" toml:"max_evidence"`
}

// ExcludeConfig defines file exclusion patterns for batch analysis.
type ExcludeConfig struct {
	Patterns []string `koanf:"patterns" toml:"patterns"`
	Dirs     []string `koanf:"dirs" toml:"dirs"`
}

// CacheConfig controls report caching in batch mode.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown, yaml, toon
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults, including a
// starter forbidden-construct rule set for graded submissions.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Complexity: true,
			Fraud:      true,
			Summary:    true,
		},
		Fraud: FraudConfig{
			Rules: []fraud.Rule{
				{Pattern: "Runtime.exec", Reason: "submissions must not spawn processes"},
				{Pattern: "ProcessBuilder", Reason: "submissions must not spawn processes"},
				{Pattern: "System.exit", Reason: "submissions must not terminate the grader"},
				{Pattern: "reflect", Reason: "reflection bypasses grading checks"},
			},
		},
		Thresholds: ThresholdConfig{
			NestingLimit: 3,
			MaxEvidence:  0,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{"*.class", "*.jar"},
			Dirs:     []string{".git", ".lumen", "build", "out"},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".lumen/cache",
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// PipelineOptions converts the config into per-invocation pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Rules:        c.Fraud.Rules,
		PrintCallees: c.Fraud.PrintCallees,
		NestingLimit: c.Thresholds.NestingLimit,
		MaxEvidence:  c.Thresholds.MaxEvidence,
	}
}

// Load loads configuration from a file, layered over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns
// defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"lumen.toml",
		"lumen.yaml",
		"lumen.yml",
		"lumen.json",
		".lumen.toml",
		".lumen.yaml",
		".lumen.yml",
		".lumen.json",
	}
	searchDirs := []string{".", ".lumen"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				if cfg, err := Load(path); err == nil {
					return cfg
				}
			}
		}
	}
	return DefaultConfig()
}

// ShouldExclude checks if a path should be skipped during batch analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
