package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/graderd/lumen/pkg/config"
	"github.com/graderd/lumen/pkg/pipeline"
	"github.com/graderd/lumen/pkg/report"
	"github.com/graderd/lumen/pkg/token"
)

func TestSpanLoc(t *testing.T) {
	s := token.Span{Start: token.Position{Line: 3, Column: 7, Offset: 42}}
	if got := spanLoc(s); got != "3:7" {
		t.Errorf("spanLoc = %q, want 3:7", got)
	}
}

func TestPipelineRule(t *testing.T) {
	r := pipelineRule("Thread")
	if r.Pattern != "Thread" || r.Reason == "" {
		t.Errorf("unexpected rule: %+v", r)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	content, err := generateDefaultConfig()
	if err != nil {
		t.Fatalf("generateDefaultConfig: %v", err)
	}
	if !strings.HasPrefix(content, "# Lumen configuration") {
		t.Error("missing header comment")
	}
	for _, want := range []string{"[analysis]", "[fraud]", "[thresholds]", "Runtime.exec"} {
		if !strings.Contains(content, want) {
			t.Errorf("generated config missing %q", want)
		}
	}

	// The generated file must load back through the config loader.
	path := filepath.Join(t.TempDir(), "lumen.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if !cfg.Analysis.Complexity {
		t.Error("round-tripped config lost analysis.complexity")
	}
	if len(cfg.Fraud.Rules) == 0 {
		t.Error("round-tripped config lost fraud rules")
	}
}

func TestCollectSubmissions(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel, content string) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("a/Main.java", "class Main {}")
	mustWrite("b/Solution.java", "class Solution {}")
	mustWrite("b/notes.txt", "not java")
	mustWrite("build/Gen.java", "class Gen {}")

	cfg := config.DefaultConfig()
	files, err := collectSubmissions([]string{dir}, cfg.ShouldExclude)
	if err != nil {
		t.Fatalf("collectSubmissions: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
	// Sorted, excluded dirs skipped, non-java skipped.
	if !strings.HasSuffix(files[0], "a/Main.java") || !strings.HasSuffix(files[1], "b/Solution.java") {
		t.Errorf("unexpected files: %v", files)
	}
}

func TestCollectSubmissionsExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Main.java")
	if err := os.WriteFile(path, []byte("class Main {}"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, err := collectSubmissions([]string{path, path}, nil)
	if err != nil {
		t.Fatalf("collectSubmissions: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("duplicate path not deduplicated: %v", files)
	}
}

func TestCollectSubmissionsMissingPath(t *testing.T) {
	if _, err := collectSubmissions([]string{"/nonexistent/submissions"}, nil); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestAggregateBatch(t *testing.T) {
	linear := pipeline.Analyze(`class A {
    void f(int n) {
        for (int i = 0; i < n; i++) { int x = i; }
    }
}`, pipeline.Options{})
	broken := pipeline.Analyze(`class B { void g( { } }`, pipeline.Options{})

	stats := aggregateBatch([]batchResult{
		{Path: "a.java", Report: linear},
		{Path: "b.java", Cached: true, Report: broken},
	})

	if stats.Submissions != 2 {
		t.Errorf("submissions = %d", stats.Submissions)
	}
	if stats.Cached != 1 {
		t.Errorf("cached = %d", stats.Cached)
	}
	if stats.ByClass[string(report.ClassLinear)] != 1 {
		t.Errorf("ByClass = %v", stats.ByClass)
	}
	if stats.WithDiagsCount != 1 {
		t.Errorf("WithDiagsCount = %d", stats.WithDiagsCount)
	}
	if stats.MeanDiags <= 0 {
		t.Errorf("MeanDiags = %f, want > 0", stats.MeanDiags)
	}
	if stats.StdDevDiags <= 0 {
		t.Errorf("StdDevDiags = %f, want > 0", stats.StdDevDiags)
	}
}

func TestAggregateBatchEmpty(t *testing.T) {
	stats := aggregateBatch(nil)
	if stats.Submissions != 0 || stats.MeanDiags != 0 || stats.StdDevDiags != 0 {
		t.Errorf("unexpected stats for empty batch: %+v", stats)
	}
}

func TestComplexityTableFooter(t *testing.T) {
	est := report.ComplexityEstimate{
		Class: report.ClassQuadratic,
		Methods: []report.MethodEstimate{
			{Class: "A", Method: "f", Estimate: report.ClassQuadratic},
		},
	}
	table := complexityTable(est, false)
	if table.Footer[0] != "Overall: O(n^2)" {
		t.Errorf("footer = %q", table.Footer[0])
	}
	if table.Rows[0][0] != "A.f" {
		t.Errorf("row method = %q", table.Rows[0][0])
	}
}

func TestRiskStringUncolored(t *testing.T) {
	if got := riskString(report.RiskHigh, false); got != "high" {
		t.Errorf("riskString = %q", got)
	}
}

func TestSummarySection(t *testing.T) {
	sec := summarySection(report.Summary{
		Points:      []string{"one class"},
		Suggestions: []string{"add error handling"},
	})
	if !strings.Contains(sec.Content, "- one class") {
		t.Errorf("content = %q", sec.Content)
	}
	if len(sec.Sections) != 1 || !strings.Contains(sec.Sections[0].Content, "add error handling") {
		t.Errorf("suggestions section missing: %+v", sec.Sections)
	}
}
