package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/graderd/lumen/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes lumen's analysis
passes as tools LLMs can invoke. This lets AI assistants grade and review
Java submissions without executing them.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "lumen": {
        "command": "lumen",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_submission     Full pipeline: diagnostics, complexity, fraud, summary
  - estimate_complexity    Asymptotic complexity with evidence
  - detect_fraud           Hardcoded output, forbidden constructs, invalid tokens
  - summarize_submission   Structural summary and suggestions
  - export_graph           AST as DOT or Mermaid`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "Print the MCP server manifest (server.json) and exit",
			},
		},
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	if c.Bool("manifest") {
		data, err := mcpserver.GenerateManifest(version)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	server := mcpserver.NewServer(version)
	return server.Run(context.Background())
}
