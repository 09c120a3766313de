package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	app := &cli.App{
		Name:    "lumen",
		Usage:   "Static analysis for Java student submissions",
		Version: version,
		Description: `Lumen analyzes Java submissions for time complexity, suspicious
patterns (hardcoded output, forbidden constructs), and structure. It never
executes the submitted code, and malformed input produces diagnostics
rather than failures.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"LUMEN_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, yaml, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable report caching in batch mode",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Include per-stage timings and token statistics",
			},
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			complexityCmd(),
			fraudCmd(),
			summaryCmd(),
			graphCmd(),
			tokensCmd(),
			batchCmd(),
			initCmd(),
			mcpCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
