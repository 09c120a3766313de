package mcpserver

import (
	"context"
	"embed"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

// Prompt files ship inside the binary so every grader gets the same guided
// workflows regardless of install location.
//
//go:embed prompts/*.md
var promptFS embed.FS

type promptMeta struct {
	Description string `yaml:"description"`
}

// registerPrompts registers every embedded prompt file under its basename.
func (s *Server) registerPrompts() {
	entries, err := promptFS.ReadDir("prompts")
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		raw, err := promptFS.ReadFile("prompts/" + e.Name())
		if err != nil {
			continue
		}
		desc, body := parseFrontmatter(raw)
		s.server.AddPrompt(&mcp.Prompt{
			Name:        strings.TrimSuffix(e.Name(), ".md"),
			Description: desc,
		}, staticPrompt(desc, body))
	}
}

// parseFrontmatter splits a prompt file into its YAML description block and
// the prompt body. Files without frontmatter are returned whole.
func parseFrontmatter(raw []byte) (description, body string) {
	text := string(raw)
	rest, ok := strings.CutPrefix(text, "---\n")
	if !ok {
		return "", text
	}
	head, tail, ok := strings.Cut(rest, "\n---\n")
	if !ok {
		return "", text
	}
	var meta promptMeta
	if err := yaml.Unmarshal([]byte(head), &meta); err != nil {
		return "", text
	}
	return meta.Description, strings.TrimPrefix(tail, "\n")
}

// staticPrompt serves a fixed prompt body as a single user message.
func staticPrompt(description, body string) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: description,
			Messages: []*mcp.PromptMessage{
				{Role: "user", Content: &mcp.TextContent{Text: body}},
			},
		}, nil
	}
}
