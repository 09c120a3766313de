package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/graderd/lumen/internal/cache"
	"github.com/graderd/lumen/internal/fileproc"
	"github.com/graderd/lumen/internal/output"
	"github.com/graderd/lumen/internal/progress"
	"github.com/graderd/lumen/pkg/pipeline"
	"github.com/graderd/lumen/pkg/report"
)

func batchCmd() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Analyze a directory of submissions concurrently",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Worker count (0 = 2x CPU count)",
			},
			&cli.BoolFlag{
				Name:  "fail-on-high-risk",
				Usage: "Exit non-zero if any submission has high fraud risk",
			},
		},
		Action: runBatchCmd,
	}
}

// batchResult pairs a submission path with its report.
type batchResult struct {
	Path   string                `json:"path" toon:"path"`
	Cached bool                  `json:"cached" toon:"cached"`
	Report report.AnalysisReport `json:"report" toon:"report"`
}

// batchStats aggregates reports across a batch run.
type batchStats struct {
	Submissions    int            `json:"submissions" toon:"submissions"`
	Cached         int            `json:"cached" toon:"cached"`
	ByClass        map[string]int `json:"by_class" toon:"by_class"`
	ByRisk         map[string]int `json:"by_risk" toon:"by_risk"`
	MeanDiags      float64        `json:"mean_diagnostics" toon:"mean_diagnostics"`
	StdDevDiags    float64        `json:"stddev_diagnostics" toon:"stddev_diagnostics"`
	HighRiskCount  int            `json:"high_risk" toon:"high_risk"`
	WithDiagsCount int            `json:"with_diagnostics" toon:"with_diagnostics"`
}

func runBatchCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := collectSubmissions(paths, cfg.ShouldExclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No Java submissions found")
		return nil
	}

	cacheEnabled := cfg.Cache.Enabled && !c.Bool("no-cache")
	store, err := cache.New(cfg.Cache.Dir, cacheEnabled)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	opts := cfg.PipelineOptions()
	var skipped fileproc.ProcessingErrors
	tracker := progress.NewTracker("Analyzing submissions...", len(files))
	results := fileproc.ForEachFileN(files, c.Int("workers"), func(path string) (batchResult, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return batchResult{}, err
		}

		key := cache.HashSource(data)
		if rep, ok := store.Get(key); ok {
			return batchResult{Path: path, Cached: true, Report: *rep}, nil
		}

		rep := pipeline.Analyze(string(data), opts)
		if err := store.Put(key, &rep); err != nil {
			return batchResult{}, err
		}
		return batchResult{Path: path, Report: rep}, nil
	}, tracker.Tick, skipped.Add)
	tracker.FinishSuccess()

	for _, pe := range skipped.Errors {
		formatter.Warning("skipped %s: %v", pe.Path, pe.Err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	stats := aggregateBatch(results)

	colored := formatter.Colored()
	var rows [][]string
	for _, r := range results {
		classStr := string(r.Report.Complexity.Class)
		if colored && r.Report.Complexity.Class.AtLeast(report.ClassQuadratic) {
			classStr = color.RedString(classStr)
		}
		rows = append(rows, []string{
			r.Path,
			classStr,
			riskString(r.Report.Fraud.Risk, colored),
			fmt.Sprintf("%d", len(r.Report.Diagnostics)),
			r.Report.Fingerprint,
		})
	}

	table := output.NewTable(
		fmt.Sprintf("Batch Analysis (%d submissions)", stats.Submissions),
		[]string{"Submission", "Complexity", "Risk", "Diagnostics", "Fingerprint"},
		rows,
		[]string{
			fmt.Sprintf("High risk: %d", stats.HighRiskCount),
			fmt.Sprintf("With diagnostics: %d", stats.WithDiagsCount),
			fmt.Sprintf("Diags mean: %.1f (sd %.1f)", stats.MeanDiags, stats.StdDevDiags),
			fmt.Sprintf("Cached: %d", stats.Cached),
			"",
		},
		struct {
			Results []batchResult `json:"results" toon:"results"`
			Stats   batchStats    `json:"stats" toon:"stats"`
		}{results, stats},
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	if c.Bool("fail-on-high-risk") && stats.HighRiskCount > 0 {
		return fmt.Errorf("%d submission(s) with high fraud risk", stats.HighRiskCount)
	}
	return nil
}

// collectSubmissions expands paths into the set of .java files to analyze.
func collectSubmissions(paths []string, exclude func(string) bool) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if exclude != nil && exclude(p) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(p, ".java") {
				return nil
			}
			if exclude != nil && exclude(p) {
				return nil
			}
			add(p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func aggregateBatch(results []batchResult) batchStats {
	stats := batchStats{
		Submissions: len(results),
		ByClass:     make(map[string]int),
		ByRisk:      make(map[string]int),
	}

	diagCounts := make([]float64, 0, len(results))
	for _, r := range results {
		stats.ByClass[string(r.Report.Complexity.Class)]++
		stats.ByRisk[string(r.Report.Fraud.Risk)]++
		if r.Cached {
			stats.Cached++
		}
		if r.Report.Fraud.Risk == report.RiskHigh {
			stats.HighRiskCount++
		}
		if len(r.Report.Diagnostics) > 0 {
			stats.WithDiagsCount++
		}
		diagCounts = append(diagCounts, float64(len(r.Report.Diagnostics)))
	}

	if len(diagCounts) > 0 {
		stats.MeanDiags = stat.Mean(diagCounts, nil)
	}
	if len(diagCounts) > 1 {
		stats.StdDevDiags = stat.StdDev(diagCounts, nil)
	}
	return stats
}
