// Package complexity estimates asymptotic running time per method from
// control-flow shape alone: data-dependent loop nesting, structurally
// evident halving loops, and recursion cycles in the call graph. It never
// inspects what the code computes, only how it iterates.
package complexity

import (
	"fmt"
	"sort"

	"github.com/graderd/lumen/pkg/analyzer"
	"github.com/graderd/lumen/pkg/ast"
	"github.com/graderd/lumen/pkg/report"
	"github.com/graderd/lumen/pkg/token"
)

// Analyzer estimates a complexity class per method and submission-wide.
type Analyzer struct {
	maxEvidence int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithMaxEvidence caps evidence entries per method (0 = no cap).
func WithMaxEvidence(n int) Option {
	return func(a *Analyzer) {
		a.maxEvidence = n
	}
}

// New creates a new complexity analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze estimates complexity for every method in the submission and
// returns the worst class across methods. It never fails: ambiguous
// control flow degrades to ClassUnknown with the ambiguous node as
// evidence.
func (a *Analyzer) Analyze(in *analyzer.Input) report.ComplexityEstimate {
	methods := collectMethods(in.Program)
	recursion := analyzeRecursion(methods)

	est := report.ComplexityEstimate{Class: report.ClassConstant}
	for i, m := range methods {
		me := a.analyzeMethod(m, recursion[i])
		est.Methods = append(est.Methods, me)
		if !est.Class.AtLeast(me.Estimate) {
			est.Class = me.Estimate
			est.Evidence = me.Evidence
		}
	}
	if len(methods) == 0 {
		// Fragment submissions: treat orphan statements as one implicit method.
		if in.Program != nil && len(in.Program.Orphans) > 0 {
			body := &ast.Block{Stmts: in.Program.Orphans, Loc: in.Program.Loc}
			me := a.analyzeMethod(namedMethod{decl: &ast.MethodDecl{Name: "<toplevel>", Body: body, Loc: in.Program.Loc}}, recursionInfo{})
			est.Methods = append(est.Methods, me)
			est.Class = me.Estimate
			est.Evidence = me.Evidence
		}
	}
	return est
}

// cost is a symbolic running-time factor: n^lin * (log n)^log, possibly
// unresolved.
type cost struct {
	lin     int
	log     int
	unknown bool
}

func (c cost) worse(d cost) cost {
	if d.rank() > c.rank() {
		return d
	}
	return c
}

func (c cost) rank() int {
	if c.unknown {
		return 1 << 20
	}
	return c.lin<<10 + c.log
}

func (c cost) plus(d cost) cost {
	return cost{lin: c.lin + d.lin, log: c.log + d.log, unknown: c.unknown || d.unknown}
}

func (a *Analyzer) analyzeMethod(m namedMethod, rec recursionInfo) report.MethodEstimate {
	me := report.MethodEstimate{Class: m.class, Method: m.decl.Name}

	var body cost
	if m.decl.Body != nil {
		var ev []report.Evidence
		body = stmtCost(m.decl.Body, &ev)
		me.Evidence = ev
	}

	switch {
	case rec.exponential:
		me.Evidence = append(me.Evidence, report.Evidence{
			Span:   m.decl.Loc,
			Reason: fmt.Sprintf("method %q recurses at %d call sites, branching recursion", m.decl.Name, rec.sites),
		})
	case rec.linear:
		me.Evidence = append(me.Evidence, report.Evidence{
			Span:   m.decl.Loc,
			Reason: fmt.Sprintf("method %q recurses at one call site, linear recursion depth", m.decl.Name),
		})
		body.lin++
	}

	sort.SliceStable(me.Evidence, func(i, j int) bool {
		return me.Evidence[i].Span.Start.Before(me.Evidence[j].Span.Start)
	})
	if a.maxEvidence > 0 && len(me.Evidence) > a.maxEvidence {
		me.Evidence = me.Evidence[:a.maxEvidence]
	}

	me.Estimate = classify(body, rec.exponential)
	return me
}

// classify maps a symbolic cost to a growth class. Unknown dominates even
// exponential: an unresolvable loop means no honest bound exists.
func classify(c cost, exponential bool) report.ComplexityClass {
	switch {
	case c.unknown:
		return report.ClassUnknown
	case exponential:
		return report.ClassExponential
	case c.lin == 0 && c.log == 0:
		return report.ClassConstant
	case c.lin == 0:
		return report.ClassLogarithmic
	case c.lin == 1 && c.log == 0:
		return report.ClassLinear
	case c.lin == 1:
		return report.ClassLinearithmic
	case c.lin == 2 && c.log == 0:
		return report.ClassQuadratic
	case c.lin == 3 && c.log == 0:
		return report.ClassCubic
	default:
		return report.ComplexityClass(fmt.Sprintf("O(n^%d)", c.lin))
	}
}

// stmtCost computes the worst symbolic cost reachable from s. Sibling
// statements take the max, nested loops compose by multiplication (sum of
// exponents).
func stmtCost(s ast.Stmt, ev *[]report.Evidence) cost {
	switch n := s.(type) {
	case *ast.Block:
		var worst cost
		for _, child := range n.Stmts {
			worst = worst.worse(stmtCost(child, ev))
		}
		return worst
	case *ast.IfStmt:
		worst := stmtCost(n.Then, ev)
		if n.Else != nil {
			worst = worst.worse(stmtCost(n.Else, ev))
		}
		return worst
	case *ast.WhileStmt:
		return loopCost(whileFactor(n, ev), n.Body, ev)
	case *ast.ForStmt:
		return loopCost(forFactor(n, ev), n.Body, ev)
	default:
		return cost{}
	}
}

func loopCost(factor cost, body ast.Stmt, ev *[]report.Evidence) cost {
	return factor.plus(stmtCost(body, ev))
}

// forFactor classifies one for loop: halving update => log, literal bounds
// => constant, data-dependent bound => linear, no condition => treated
// like while(true).
func forFactor(n *ast.ForStmt, ev *[]report.Evidence) cost {
	if n.Post != nil && isHalvingUpdate(n.Post, "") {
		*ev = append(*ev, report.Evidence{Span: n.Loc, Reason: "loop variable halves or doubles each iteration"})
		return cost{log: 1}
	}
	if n.Cond == nil {
		return unboundedLoop(n.Body, n.Loc, ev)
	}
	if hasConstantBound(n) {
		return cost{}
	}
	*ev = append(*ev, report.Evidence{Span: n.Loc, Reason: "loop bound depends on input data"})
	return cost{lin: 1}
}

// whileFactor classifies one while loop.
func whileFactor(n *ast.WhileStmt, ev *[]report.Evidence) cost {
	if isLiteralTrue(n.Cond) {
		return unboundedLoop(n.Body, n.Loc, ev)
	}
	for _, name := range condVariables(n.Cond) {
		if bodyHalves(n.Body, name) {
			*ev = append(*ev, report.Evidence{Span: n.Loc, Reason: "loop variable halves or doubles each iteration"})
			return cost{log: 1}
		}
	}
	*ev = append(*ev, report.Evidence{Span: n.Loc, Reason: "loop bound depends on input data"})
	return cost{lin: 1}
}

// unboundedLoop handles while(true) and for(;;): an explicit break or
// return makes it a data-dependent loop, otherwise no bound can be stated.
func unboundedLoop(body ast.Stmt, loc token.Span, ev *[]report.Evidence) cost {
	if hasLoopExit(body) {
		*ev = append(*ev, report.Evidence{Span: loc, Reason: "unconditional loop exits only through break or return"})
		return cost{lin: 1}
	}
	*ev = append(*ev, report.Evidence{Span: loc, Reason: "unconditional loop with no reachable exit"})
	return cost{unknown: true}
}

// hasConstantBound reports whether a for loop runs a literal number of
// times: literal initializer and a comparison against a literal.
func hasConstantBound(n *ast.ForStmt) bool {
	init, ok := n.Init.(*ast.VariableDecl)
	if !ok || init.Init == nil {
		return false
	}
	if _, lit := init.Init.(*ast.Literal); !lit {
		return false
	}
	cmp, ok := n.Cond.(*ast.BinaryExpr)
	if !ok {
		return false
	}
	_, leftLit := cmp.Left.(*ast.Literal)
	_, rightLit := cmp.Right.(*ast.Literal)
	return leftLit || rightLit
}

// isHalvingUpdate matches i *= 2, i /= 2, i = i * 2, i = i / 2. When
// varName is non-empty the updated variable must match it.
func isHalvingUpdate(e ast.Expr, varName string) bool {
	as, ok := e.(*ast.AssignExpr)
	if !ok {
		return false
	}
	target, ok := as.Target.(*ast.Identifier)
	if !ok || (varName != "" && target.Name != varName) {
		return false
	}
	switch as.Op {
	case token.StarEq, token.SlashEq:
		_, lit := as.Value.(*ast.Literal)
		return lit
	case token.Assign:
		bin, ok := as.Value.(*ast.BinaryExpr)
		if !ok || (bin.Op != token.Star && bin.Op != token.Slash) {
			return false
		}
		id, ok := bin.Left.(*ast.Identifier)
		if !ok || id.Name != target.Name {
			return false
		}
		_, lit := bin.Right.(*ast.Literal)
		return lit
	}
	return false
}

// bodyHalves reports whether the loop body applies a halving update to the
// named condition variable.
func bodyHalves(body ast.Stmt, name string) bool {
	found := false
	ast.Walk(body, func(n ast.Node) bool {
		if es, ok := n.(*ast.ExprStmt); ok && isHalvingUpdate(es.X, name) {
			found = true
			return false
		}
		return !found
	})
	return found
}

func isLiteralTrue(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Type == token.True
}

// condVariables collects identifier names referenced by a loop condition.
func condVariables(e ast.Expr) []string {
	var names []string
	ast.Walk(e, func(n ast.Node) bool {
		if id, ok := n.(*ast.Identifier); ok {
			names = append(names, id.Name)
		}
		return true
	})
	return names
}

// hasLoopExit reports whether body contains a break or return that is not
// inside a nested loop.
func hasLoopExit(body ast.Stmt) bool {
	found := false
	ast.Walk(body, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.BreakStmt, *ast.ReturnStmt:
			found = true
			return false
		case *ast.WhileStmt, *ast.ForStmt:
			return false // exits inside a nested loop do not exit this one
		}
		return !found
	})
	return found
}
