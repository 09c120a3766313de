package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/graderd/lumen/internal/output"
	"github.com/graderd/lumen/pkg/pipeline"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"all"},
		Usage:     "Run the full pipeline: diagnostics, complexity, fraud, summary",
		ArgsUsage: "<file.java>",
		Action:    runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	path, source, err := readSubmission(c)
	if err != nil {
		return err
	}

	rep := pipeline.Analyze(source, cfg.PipelineOptions())

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	colored := formatter.Colored()
	full := &output.Report{
		Title: fmt.Sprintf("Analysis: %s (fingerprint %s)", path, rep.Fingerprint),
		Data:  rep,
	}
	if len(rep.Diagnostics) > 0 {
		full.Sections = append(full.Sections, diagnosticsTable(rep.Diagnostics, colored))
	}
	if cfg.Analysis.Complexity {
		full.Sections = append(full.Sections, complexityTable(rep.Complexity, colored))
	}
	if cfg.Analysis.Fraud {
		full.Sections = append(full.Sections, fraudTable(rep.Fraud, colored))
	}
	if cfg.Analysis.Summary {
		full.Sections = append(full.Sections, summarySection(rep.Summary))
	}
	if c.Bool("verbose") || cfg.Output.Verbose {
		full.Sections = append(full.Sections,
			&output.Section{
				Title:   "Tokens",
				Content: fmt.Sprintf("%d tokens across %d kinds", rep.Tokens.Total, len(rep.Tokens.ByKind)),
				Data:    rep.Tokens,
			},
			timingsSection(rep.Timings),
		)
	}

	return formatter.Output(full)
}
