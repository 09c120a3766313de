package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/graderd/lumen/pkg/pipeline"
)

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Aliases:   []string{"ast"},
		Usage:     "Export the parsed AST as a DOT or Mermaid graph",
		ArgsUsage: "<file.java>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "syntax",
				Value: "dot",
				Usage: "Graph syntax: dot, mermaid",
			},
		},
		Action: runGraphCmd,
	}
}

func runGraphCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	_, source, err := readSubmission(c)
	if err != nil {
		return err
	}

	rep := pipeline.Analyze(source, cfg.PipelineOptions())
	g := rep.Graph

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	switch c.String("syntax") {
	case "mermaid":
		fmt.Fprint(formatter.Writer(), g.ToMermaid())
	case "dot":
		fmt.Fprint(formatter.Writer(), g.ToDOT())
	default:
		return fmt.Errorf("unknown graph syntax %q (want dot or mermaid)", c.String("syntax"))
	}
	return nil
}
