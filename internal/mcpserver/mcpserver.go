// Package mcpserver exposes lumen's analysis passes as MCP tools over
// stdio, so assistants grading submissions can call them directly.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers all lumen analysis tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with all lumen tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "lumen",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds all lumen analyzer tools to the server.
func (s *Server) registerTools() {
	// Full pipeline: diagnostics, complexity, fraud, summary
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_submission",
		Description: describeAnalyze(),
	}, handleAnalyzeSubmission)

	// Complexity estimate only
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "estimate_complexity",
		Description: describeComplexity(),
	}, handleEstimateComplexity)

	// Fraud verdict only
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detect_fraud",
		Description: describeFraud(),
	}, handleDetectFraud)

	// Structural summary and suggestions
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize_submission",
		Description: describeSummary(),
	}, handleSummarizeSubmission)

	// AST export as DOT or Mermaid
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_graph",
		Description: describeGraph(),
	}, handleExportGraph)
}
