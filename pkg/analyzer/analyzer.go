// Package analyzer holds the shared plumbing for the analysis passes.
// Each pass is a pure function over a parsed submission: same input,
// same output, no shared state.
package analyzer

import (
	"github.com/graderd/lumen/pkg/ast"
	"github.com/graderd/lumen/pkg/report"
	"github.com/graderd/lumen/pkg/token"
)

// Input is the parsed form of one submission, built once by the pipeline
// and shared read-only by every pass.
type Input struct {
	Program     *ast.Program
	Tokens      []token.Token
	Comments    []token.Token
	Diagnostics []report.Diagnostic
}

// HasInvalidTokens reports whether the lexer produced any invalid tokens.
func (in *Input) HasInvalidTokens() bool {
	for _, t := range in.Tokens {
		if t.Type == token.Invalid {
			return true
		}
	}
	return false
}
