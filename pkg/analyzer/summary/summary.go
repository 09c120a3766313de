// Package summary produces a structural prose description of a submission
// and improvement suggestions. It walks the syntax tree, never the raw
// source text, so commented-out code and string contents do not skew it.
package summary

import (
	"fmt"
	"strings"

	"github.com/graderd/lumen/pkg/analyzer"
	"github.com/graderd/lumen/pkg/ast"
	"github.com/graderd/lumen/pkg/report"
	"github.com/graderd/lumen/pkg/token"
)

// Analyzer builds summaries.
type Analyzer struct {
	nestingLimit int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithNestingLimit sets the control-flow depth above which a suggestion is
// emitted. Default is 3.
func WithNestingLimit(n int) Option {
	return func(a *Analyzer) {
		a.nestingLimit = n
	}
}

// New creates a new summary analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{nestingLimit: 3}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// riskyCallees are call chains that throw at runtime and usually deserve
// exception handling around them.
var riskyCallees = []string{
	"Integer.parseInt",
	"Double.parseDouble",
	"Long.parseLong",
	"Scanner",
	"FileReader",
	"FileWriter",
}

// Analyze summarizes the submission's structure.
func (a *Analyzer) Analyze(in *analyzer.Input) report.Summary {
	prog := in.Program
	if prog == nil {
		return report.Summary{}
	}

	facts := gatherFacts(prog)
	var s report.Summary

	for _, c := range prog.Classes {
		s.Points = append(s.Points, fmt.Sprintf("defines class %s with %d method(s) and %d field(s)",
			c.Name, len(c.Methods), len(c.Fields)))
	}
	if len(prog.Orphans) > 0 {
		s.Points = append(s.Points, fmt.Sprintf("contains %d statement(s) outside any class", len(prog.Orphans)))
	}
	if facts.hasMain {
		s.Points = append(s.Points, "has a main method entry point")
	}
	if facts.variables > 0 {
		s.Points = append(s.Points, fmt.Sprintf("declares %d variable(s)", facts.variables))
	}
	if facts.loops > 0 {
		s.Points = append(s.Points, fmt.Sprintf("uses %d loop(s)", facts.loops))
	}
	if facts.conditionals > 0 {
		s.Points = append(s.Points, fmt.Sprintf("uses %d conditional(s)", facts.conditionals))
	}
	if facts.prints > 0 {
		s.Points = append(s.Points, fmt.Sprintf("produces output via %d print call(s)", facts.prints))
	}

	if facts.maxNesting > a.nestingLimit {
		s.Suggestions = append(s.Suggestions, fmt.Sprintf(
			"control flow nests %d levels deep; consider extracting helper methods", facts.maxNesting))
	}
	if facts.concatInLoop {
		s.Suggestions = append(s.Suggestions,
			"string concatenation inside a loop; consider building the string once outside or using StringBuilder")
	}
	if facts.riskyCalls && !hasTryToken(in.Tokens) {
		s.Suggestions = append(s.Suggestions,
			"calls that can fail at runtime have no exception handling; consider try/catch around them")
	}
	return s
}

type facts struct {
	hasMain      bool
	variables    int
	loops        int
	conditionals int
	prints       int
	maxNesting   int
	concatInLoop bool
	riskyCalls   bool
}

func gatherFacts(prog *ast.Program) facts {
	var f facts
	for _, c := range prog.Classes {
		for _, m := range c.Methods {
			if m.Name == "main" {
				f.hasMain = true
			}
		}
	}

	ast.Walk(prog, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.VariableDecl:
			f.variables++
		case *ast.WhileStmt, *ast.ForStmt:
			f.loops++
		case *ast.IfStmt:
			f.conditionals++
		case *ast.CallExpr:
			name := ast.CalleeName(node.Callee)
			if isPrintChain(name) {
				f.prints++
			}
			for _, risky := range riskyCallees {
				if name == risky || strings.HasPrefix(name, risky+".") {
					f.riskyCalls = true
				}
			}
		}
		return true
	})

	for _, c := range prog.Classes {
		for _, m := range c.Methods {
			if m.Body != nil {
				f.maxNesting = max(f.maxNesting, nestingDepth(m.Body, 0))
				if concatsInLoop(m.Body, false) {
					f.concatInLoop = true
				}
			}
		}
	}
	for _, s := range prog.Orphans {
		f.maxNesting = max(f.maxNesting, nestingDepth(s, 0))
		if concatsInLoop(s, false) {
			f.concatInLoop = true
		}
	}
	return f
}

func isPrintChain(name string) bool {
	return strings.HasPrefix(name, "System.out.") || strings.HasPrefix(name, "System.err.")
}

// nestingDepth measures the deepest if/while/for nesting under s. Blocks
// are transparent: they group statements without adding depth.
func nestingDepth(s ast.Stmt, depth int) int {
	switch n := s.(type) {
	case *ast.Block:
		deepest := depth
		for _, child := range n.Stmts {
			deepest = max(deepest, nestingDepth(child, depth))
		}
		return deepest
	case *ast.IfStmt:
		deepest := nestingDepth(n.Then, depth+1)
		if n.Else != nil {
			deepest = max(deepest, nestingDepth(n.Else, depth+1))
		}
		return deepest
	case *ast.WhileStmt:
		return nestingDepth(n.Body, depth+1)
	case *ast.ForStmt:
		return nestingDepth(n.Body, depth+1)
	default:
		return depth
	}
}

// concatsInLoop reports whether a += or x = x + ... with a string literal
// operand occurs inside a loop body.
func concatsInLoop(s ast.Stmt, inLoop bool) bool {
	found := false
	ast.Walk(s, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.WhileStmt:
			if concatsInLoop(node.Body, true) {
				found = true
			}
			return false
		case *ast.ForStmt:
			if concatsInLoop(node.Body, true) {
				found = true
			}
			return false
		case *ast.AssignExpr:
			if inLoop && isStringConcat(node) {
				found = true
				return false
			}
		}
		return !found
	})
	return found
}

func isStringConcat(as *ast.AssignExpr) bool {
	if as.Op == token.PlusEq {
		return containsStringLit(as.Value)
	}
	if as.Op != token.Assign {
		return false
	}
	bin, ok := as.Value.(*ast.BinaryExpr)
	return ok && bin.Op == token.Plus && containsStringLit(bin)
}

func containsStringLit(e ast.Expr) bool {
	found := false
	ast.Walk(e, func(n ast.Node) bool {
		if lit, ok := n.(*ast.Literal); ok && lit.Type == token.StringLit {
			found = true
			return false
		}
		return !found
	})
	return found
}

func hasTryToken(toks []token.Token) bool {
	for _, t := range toks {
		if t.Type == token.Ident && (t.Lexeme == "try" || t.Lexeme == "catch") {
			return true
		}
	}
	return false
}
