package main

import (
	"github.com/urfave/cli/v2"

	"github.com/graderd/lumen/pkg/pipeline"
)

func complexityCmd() *cli.Command {
	return &cli.Command{
		Name:      "complexity",
		Aliases:   []string{"cx"},
		Usage:     "Estimate asymptotic time complexity from loop and recursion structure",
		ArgsUsage: "<file.java>",
		Action:    runComplexityCmd,
	}
}

func runComplexityCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	_, source, err := readSubmission(c)
	if err != nil {
		return err
	}

	rep := pipeline.Analyze(source, cfg.PipelineOptions())

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(complexityTable(rep.Complexity, formatter.Colored()))
}

func fraudCmd() *cli.Command {
	return &cli.Command{
		Name:      "fraud",
		Usage:     "Detect hardcoded output, forbidden constructs, and invalid tokens",
		ArgsUsage: "<file.java>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "forbid",
				Usage: "Additional forbidden pattern (repeatable)",
			},
		},
		Action: runFraudCmd,
	}
}

func runFraudCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	_, source, err := readSubmission(c)
	if err != nil {
		return err
	}

	opts := cfg.PipelineOptions()
	for _, p := range c.StringSlice("forbid") {
		opts.Rules = append(opts.Rules, pipelineRule(p))
	}

	rep := pipeline.Analyze(source, opts)

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(fraudTable(rep.Fraud, formatter.Colored()))
}

func summaryCmd() *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Usage:     "Summarize submission structure with improvement suggestions",
		ArgsUsage: "<file.java>",
		Action:    runSummaryCmd,
	}
}

func runSummaryCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	_, source, err := readSubmission(c)
	if err != nil {
		return err
	}

	rep := pipeline.Analyze(source, cfg.PipelineOptions())

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(summarySection(rep.Summary))
}
