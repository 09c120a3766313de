package main

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/graderd/lumen/internal/output"
	"github.com/graderd/lumen/pkg/pipeline"
)

func tokensCmd() *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "Show token statistics for a submission",
		ArgsUsage: "<file.java>",
		Action:    runTokensCmd,
	}
}

func runTokensCmd(c *cli.Context) error {
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

	kinds := make([]string, 0, len(rep.Tokens.ByKind))
	for k := range rep.Tokens.ByKind {
		kinds = append(kinds, k)
	}
	// Highest count first, name as tiebreak.
	sort.Slice(kinds, func(i, j int) bool {
		ci, cj := rep.Tokens.ByKind[kinds[i]], rep.Tokens.ByKind[kinds[j]]
		if ci != cj {
			return ci > cj
		}
		return kinds[i] < kinds[j]
	})

	var rows [][]string
	for _, k := range kinds {
		rows = append(rows, []string{k, fmt.Sprintf("%d", rep.Tokens.ByKind[k])})
	}

	table := output.NewTable(
		"Token Statistics",
		[]string{"Kind", "Count"},
		rows,
		[]string{fmt.Sprintf("Total: %d", rep.Tokens.Total), ""},
		rep.Tokens,
	)
	return formatter.Output(table)
}
