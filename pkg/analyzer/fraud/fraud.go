// Package fraud flags submissions that fake their results: printing
// hardcoded answers instead of computing them, smuggling in invalid
// source, or reaching for banned constructs. Every finding carries the
// flagged span and an explanation; the verdict is never a bare boolean.
package fraud

import (
	"fmt"
	"sort"
	"strings"

	"github.com/graderd/lumen/pkg/analyzer"
	"github.com/graderd/lumen/pkg/ast"
	"github.com/graderd/lumen/pkg/report"
	"github.com/graderd/lumen/pkg/token"
)

// Analyzer runs the fraud checks over a parsed submission.
type Analyzer struct {
	rules        []Rule
	printCallees []string
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithRules sets the forbidden-construct rule set for this invocation.
func WithRules(rules []Rule) Option {
	return func(a *Analyzer) {
		a.rules = rules
	}
}

// WithPrintCallees overrides the call chains treated as program output.
func WithPrintCallees(names ...string) Option {
	return func(a *Analyzer) {
		a.printCallees = names
	}
}

// New creates a new fraud analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{printCallees: DefaultPrintCallees()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs all checks and derives the risk level. Findings are sorted
// by source position and the result is deterministic for a given input.
func (a *Analyzer) Analyze(in *analyzer.Input) report.FraudVerdict {
	var findings []report.Finding
	findings = append(findings, a.hardcodedOutput(in.Program)...)
	findings = append(findings, invalidTokens(in.Tokens)...)
	// Unterminated block comments surface as Invalid tokens on the comment
	// channel, not the parser stream.
	findings = append(findings, invalidTokens(in.Comments)...)
	findings = append(findings, a.forbiddenConstructs(in)...)

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Span.Start.Offset != findings[j].Span.Start.Offset {
			return findings[i].Span.Start.Before(findings[j].Span.Start)
		}
		return findings[i].Kind < findings[j].Kind
	})

	return report.FraudVerdict{Risk: riskOf(findings), Findings: findings}
}

// riskOf maps findings to a risk level: hardcoded output or a forbidden
// construct is high on its own, invalid tokens alone are low, and any mix
// of kinds is high.
func riskOf(findings []report.Finding) report.RiskLevel {
	if len(findings) == 0 {
		return report.RiskNone
	}
	kinds := make(map[report.FindingKind]bool)
	for _, f := range findings {
		kinds[f.Kind] = true
	}
	if kinds[report.FindingHardcodedOutput] || kinds[report.FindingForbiddenConstruct] || len(kinds) > 1 {
		return report.RiskHigh
	}
	return report.RiskLow
}

// hardcodedOutput finds print-like calls whose arguments contain no
// identifier and no computation beyond combining literals.
func (a *Analyzer) hardcodedOutput(prog *ast.Program) []report.Finding {
	var findings []report.Finding
	ast.Walk(prog, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if !a.isPrintCall(call) || len(call.Args) == 0 {
			return true
		}
		for _, arg := range call.Args {
			if !literalOnly(arg) {
				return true
			}
		}
		findings = append(findings, report.Finding{
			Kind:        report.FindingHardcodedOutput,
			Span:        call.Loc,
			Description: "print call emits only literal values, output may be hardcoded",
		})
		return true
	})
	return findings
}

func (a *Analyzer) isPrintCall(call *ast.CallExpr) bool {
	name := ast.CalleeName(call.Callee)
	if name == "" {
		return false
	}
	for _, p := range a.printCallees {
		if name == p {
			return true
		}
	}
	return false
}

// literalOnly reports whether e is built from literals alone: literal
// leaves combined by unary or binary operators, nothing that reads state.
func literalOnly(e ast.Expr) bool {
	pure := true
	ast.Walk(e, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.Literal, *ast.BinaryExpr, *ast.UnaryExpr:
			return true
		default:
			pure = false
			return false
		}
	})
	return pure
}

func invalidTokens(toks []token.Token) []report.Finding {
	var findings []report.Finding
	for _, t := range toks {
		if t.Type != token.Invalid {
			continue
		}
		findings = append(findings, report.Finding{
			Kind:        report.FindingInvalidToken,
			Span:        t.Span(),
			Description: fmt.Sprintf("invalid token %q in source", t.Lexeme),
		})
	}
	return findings
}

// forbiddenConstructs matches each rule against dotted call chains, raw
// token text, and comment text. Comments are checked so commented-out
// violations still surface.
func (a *Analyzer) forbiddenConstructs(in *analyzer.Input) []report.Finding {
	var findings []report.Finding
	add := func(rule Rule, span token.Span, where string) {
		findings = append(findings, report.Finding{
			Kind:        report.FindingForbiddenConstruct,
			Span:        span,
			Description: fmt.Sprintf("forbidden construct %q (%s): %s", rule.Pattern, where, rule.Reason),
		})
	}

	for _, rule := range a.rules {
		if rule.Pattern == "" {
			continue
		}

		var matched []token.Span // call spans already reported
		ast.Walk(in.Program, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			name := ast.CalleeName(call.Callee)
			if name != "" && strings.Contains(name, rule.Pattern) {
				add(rule, call.Loc, "call")
				matched = append(matched, call.Loc)
			}
			return true
		})

		for _, t := range in.Tokens {
			if t.Kind != token.KindIdentifier && t.Kind != token.KindKeyword {
				continue
			}
			if insideAny(t.Pos, matched) {
				continue
			}
			if strings.Contains(t.Lexeme, rule.Pattern) {
				add(rule, t.Span(), "token")
			}
		}

		for _, c := range in.Comments {
			if strings.Contains(c.Lexeme, rule.Pattern) {
				add(rule, c.Span(), "comment")
			}
		}
	}
	return findings
}

func insideAny(pos token.Position, spans []token.Span) bool {
	for _, s := range spans {
		if pos.Offset >= s.Start.Offset && pos.Offset < s.End.Offset {
			return true
		}
	}
	return false
}
