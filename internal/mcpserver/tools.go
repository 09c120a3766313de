package mcpserver

import (
	"context"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/graderd/lumen/internal/output"
	"github.com/graderd/lumen/pkg/analyzer/fraud"
	"github.com/graderd/lumen/pkg/config"
	"github.com/graderd/lumen/pkg/pipeline"
)

// Common input structures for tools

// SubmissionInput is the base input for all analysis tools. Exactly one of
// Source or Path should be set; Source wins when both are.
type SubmissionInput struct {
	Source string `json:"source,omitempty" jsonschema:"Java source text to analyze."`
	Path   string `json:"path,omitempty" jsonschema:"Path to a Java source file to analyze. Ignored when source is set."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// RuleInput is one forbidden-construct rule.
type RuleInput struct {
	Pattern string `json:"pattern" jsonschema:"Substring matched against identifiers, call chains, and comments."`
	Reason  string `json:"reason,omitempty" jsonschema:"Explanation attached to findings for this rule."`
}

// FraudInput adds fraud-specific options.
type FraudInput struct {
	SubmissionInput
	Rules []RuleInput `json:"rules,omitempty" jsonschema:"Forbidden-construct rules. Defaults to the built-in ban list when empty."`
}

// GraphInput adds graph-specific options.
type GraphInput struct {
	SubmissionInput
	Syntax string `json:"syntax,omitempty" jsonschema:"Graph syntax: dot (default) or mermaid."`
}

// Helper functions

func getSource(input SubmissionInput) (string, error) {
	if input.Source != "" {
		return input.Source, nil
	}
	data, err := os.ReadFile(input.Path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func getFormat(input SubmissionInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	if format == output.FormatMarkdown {
		return "```\n" + string(out) + "\n```", nil
	}
	return string(out), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func toRules(in []RuleInput) []fraud.Rule {
	rules := make([]fraud.Rule, 0, len(in))
	for _, r := range in {
		rules = append(rules, fraud.Rule{Pattern: r.Pattern, Reason: r.Reason})
	}
	return rules
}

// Tool handlers

func handleAnalyzeSubmission(ctx context.Context, req *mcp.CallToolRequest, input SubmissionInput) (*mcp.CallToolResult, any, error) {
	src, err := getSource(input)
	if err != nil {
		return toolError(err.Error())
	}
	rep := pipeline.Analyze(src, pipeline.Options{})
	return toolResult(rep, getFormat(input))
}

func handleEstimateComplexity(ctx context.Context, req *mcp.CallToolRequest, input SubmissionInput) (*mcp.CallToolResult, any, error) {
	src, err := getSource(input)
	if err != nil {
		return toolError(err.Error())
	}
	rep := pipeline.Analyze(src, pipeline.Options{})
	return toolResult(rep.Complexity, getFormat(input))
}

func handleDetectFraud(ctx context.Context, req *mcp.CallToolRequest, input FraudInput) (*mcp.CallToolResult, any, error) {
	src, err := getSource(input.SubmissionInput)
	if err != nil {
		return toolError(err.Error())
	}
	rules := toRules(input.Rules)
	if len(rules) == 0 {
		rules = config.DefaultConfig().Fraud.Rules
	}
	rep := pipeline.Analyze(src, pipeline.Options{Rules: rules})
	return toolResult(rep.Fraud, getFormat(input.SubmissionInput))
}

func handleSummarizeSubmission(ctx context.Context, req *mcp.CallToolRequest, input SubmissionInput) (*mcp.CallToolResult, any, error) {
	src, err := getSource(input)
	if err != nil {
		return toolError(err.Error())
	}
	rep := pipeline.Analyze(src, pipeline.Options{})
	return toolResult(rep.Summary, getFormat(input))
}

func handleExportGraph(ctx context.Context, req *mcp.CallToolRequest, input GraphInput) (*mcp.CallToolResult, any, error) {
	src, err := getSource(input.SubmissionInput)
	if err != nil {
		return toolError(err.Error())
	}

	rep := pipeline.Analyze(src, pipeline.Options{})
	g := rep.Graph

	var text string
	switch input.Syntax {
	case "mermaid":
		text = g.ToMermaid()
	default:
		text = g.ToDOT()
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}
