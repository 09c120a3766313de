package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if !cfg.Analysis.Complexity {
		t.Error("Analysis.Complexity should be true by default")
	}
	if !cfg.Analysis.Fraud {
		t.Error("Analysis.Fraud should be true by default")
	}
	if !cfg.Analysis.Summary {
		t.Error("Analysis.Summary should be true by default")
	}

	if len(cfg.Fraud.Rules) == 0 {
		t.Error("Fraud.Rules should have default entries")
	}
	for _, r := range cfg.Fraud.Rules {
		if r.Pattern == "" || r.Reason == "" {
			t.Errorf("default rule %+v missing pattern or reason", r)
		}
	}

	if cfg.Thresholds.NestingLimit != 3 {
		t.Errorf("Thresholds.NestingLimit = %d, want 3", cfg.Thresholds.NestingLimit)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "lumen.toml")

	content := `
[analysis]
fraud = false

[thresholds]
nesting_limit = 5

[[fraud.rules]]
pattern = "Thread"
reason = "no threads in intro courses"

[output]
format = "json"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Analysis.Fraud {
		t.Error("Analysis.Fraud should be false from file")
	}
	if !cfg.Analysis.Complexity {
		t.Error("Analysis.Complexity should keep its default")
	}
	if cfg.Thresholds.NestingLimit != 5 {
		t.Errorf("Thresholds.NestingLimit = %d, want 5", cfg.Thresholds.NestingLimit)
	}
	if len(cfg.Fraud.Rules) != 1 || cfg.Fraud.Rules[0].Pattern != "Thread" {
		t.Errorf("Fraud.Rules = %+v, want the single Thread rule", cfg.Fraud.Rules)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "lumen.yaml")

	content := `
output:
  format: yaml
  color: false
thresholds:
  nesting_limit: 2
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Output.Format = %s, want yaml", cfg.Output.Format)
	}
	if cfg.Output.Color {
		t.Error("Output.Color should be false from file")
	}
	if cfg.Thresholds.NestingLimit != 2 {
		t.Errorf("Thresholds.NestingLimit = %d, want 2", cfg.Thresholds.NestingLimit)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds.NestingLimit = 4
	cfg.Thresholds.MaxEvidence = 5

	opts := cfg.PipelineOptions()
	if len(opts.Rules) != len(cfg.Fraud.Rules) {
		t.Errorf("Rules not carried through: %d vs %d", len(opts.Rules), len(cfg.Fraud.Rules))
	}
	if opts.NestingLimit != 4 {
		t.Errorf("NestingLimit = %d, want 4", opts.NestingLimit)
	}
	if opts.MaxEvidence != 5 {
		t.Errorf("MaxEvidence = %d, want 5", opts.MaxEvidence)
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		path string
		want bool
	}{
		{"Main.java", false},
		{"Main.class", true},
		{"submissions/Main.java", false},
		{"build/Main.java", true},
		{filepath.Join("a", ".git", "hook.java"), true},
	}
	for _, tc := range cases {
		if got := cfg.ShouldExclude(tc.path); got != tc.want {
			t.Errorf("ShouldExclude(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
