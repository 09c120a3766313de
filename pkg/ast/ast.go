// Package ast defines the syntax tree produced by the parser and consumed
// by the analysis passes. The tree is a pure tagged variant: exclusive
// parent-to-child ownership, no back-references, no cycles. Passes dispatch
// with exhaustive type switches so a new node kind fails to compile until
// every pass handles it.
package ast

import "github.com/graderd/lumen/pkg/token"

// Node is the common interface of every tree node. Each node carries the
// source span it was derived from.
type Node interface {
	Span() token.Span
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Program is the root node. Every node in the tree is reachable from it.
type Program struct {
	Classes []*ClassDecl
	// Orphans holds top-level statements outside any class, plus error
	// placeholders for unparseable top-level regions. Student submissions
	// are frequently fragments, so these are kept rather than dropped.
	Orphans []Stmt
	Loc     token.Span
}

func (p *Program) Span() token.Span { return p.Loc }

// ClassDecl is a class declaration.
type ClassDecl struct {
	Name    string
	Methods []*MethodDecl
	Fields  []*VariableDecl
	Loc     token.Span
}

func (c *ClassDecl) Span() token.Span { return c.Loc }

// MethodDecl is a method declaration with its body.
type MethodDecl struct {
	Name       string
	ReturnType string
	Params     []Param
	Body       *Block
	Loc        token.Span
}

func (m *MethodDecl) Span() token.Span { return m.Loc }

// Param is a single method parameter.
type Param struct {
	Type string
	Name string
}

// VariableDecl declares (and optionally initializes) a variable.
type VariableDecl struct {
	Type string
	Name string
	Init Expr // nil when declared without initializer
	Loc  token.Span
}

func (v *VariableDecl) Span() token.Span { return v.Loc }
func (v *VariableDecl) stmtNode()        {}

// Block is a brace-delimited statement list.
type Block struct {
	Stmts []Stmt
	Loc   token.Span
}

func (b *Block) Span() token.Span { return b.Loc }
func (b *Block) stmtNode()        {}

// IfStmt is an if statement with optional else branch. A dangling else
// binds to the nearest preceding unmatched if; the parser resolves this
// during construction, so the tree itself is unambiguous.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
	Loc  token.Span
}

func (s *IfStmt) Span() token.Span { return s.Loc }
func (s *IfStmt) stmtNode()        {}

// WhileStmt is a while loop.
type WhileStmt struct {
	Cond Expr
	Body Stmt
	Loc  token.Span
}

func (s *WhileStmt) Span() token.Span { return s.Loc }
func (s *WhileStmt) stmtNode()        {}

// ForStmt is a C-style for loop. Init, Cond, and Post may each be nil.
type ForStmt struct {
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
	Loc  token.Span
}

func (s *ForStmt) Span() token.Span { return s.Loc }
func (s *ForStmt) stmtNode()        {}

// ReturnStmt is a return statement with optional value.
type ReturnStmt struct {
	Value Expr // nil for bare return
	Loc   token.Span
}

func (s *ReturnStmt) Span() token.Span { return s.Loc }
func (s *ReturnStmt) stmtNode()        {}

// BreakStmt is a break statement.
type BreakStmt struct {
	Loc token.Span
}

func (s *BreakStmt) Span() token.Span { return s.Loc }
func (s *BreakStmt) stmtNode()        {}

// ContinueStmt is a continue statement.
type ContinueStmt struct {
	Loc token.Span
}

func (s *ContinueStmt) Span() token.Span { return s.Loc }
func (s *ContinueStmt) stmtNode()        {}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	X   Expr
	Loc token.Span
}

func (s *ExprStmt) Span() token.Span { return s.Loc }
func (s *ExprStmt) stmtNode()        {}

// ErrorNode marks an unparseable region. Its children are never further
// parsed: the parser records the raw span and moves to the next
// resynchronization point, so one malformed statement cannot poison its
// neighbors.
type ErrorNode struct {
	Message string
	Loc     token.Span
}

func (e *ErrorNode) Span() token.Span { return e.Loc }
func (e *ErrorNode) stmtNode()        {}
func (e *ErrorNode) exprNode()        {}

// BinaryExpr is an infix expression.
type BinaryExpr struct {
	Op    token.Type
	Left  Expr
	Right Expr
	Loc   token.Span
}

func (e *BinaryExpr) Span() token.Span { return e.Loc }
func (e *BinaryExpr) exprNode()        {}

// UnaryExpr is a prefix or postfix unary expression.
type UnaryExpr struct {
	Op      token.Type
	X       Expr
	Postfix bool // i++ vs ++i
	Loc     token.Span
}

func (e *UnaryExpr) Span() token.Span { return e.Loc }
func (e *UnaryExpr) exprNode()        {}

// AssignExpr is an assignment, including compound forms. Assignment is
// right-associative and binds loosest.
type AssignExpr struct {
	Op     token.Type // =, +=, -=, *=, /=
	Target Expr
	Value  Expr
	Loc    token.Span
}

func (e *AssignExpr) Span() token.Span { return e.Loc }
func (e *AssignExpr) exprNode()        {}

// CallExpr is a call. Callee is the full dotted chain, e.g. an Identifier
// or a SelectorExpr such as System.out.println.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Loc    token.Span
}

func (e *CallExpr) Span() token.Span { return e.Loc }
func (e *CallExpr) exprNode()        {}

// SelectorExpr is a dotted member access, X.Name.
type SelectorExpr struct {
	X    Expr
	Name string
	Loc  token.Span
}

func (e *SelectorExpr) Span() token.Span { return e.Loc }
func (e *SelectorExpr) exprNode()        {}

// IndexExpr is an array subscript, X[Index].
type IndexExpr struct {
	X     Expr
	Index Expr
	Loc   token.Span
}

func (e *IndexExpr) Span() token.Span { return e.Loc }
func (e *IndexExpr) exprNode()        {}

// Literal is an int, float, string, char, boolean, or null literal. Value
// is the verbatim lexeme.
type Literal struct {
	Type  token.Type
	Value string
	Loc   token.Span
}

func (e *Literal) Span() token.Span { return e.Loc }
func (e *Literal) exprNode()        {}

// Identifier is a name reference.
type Identifier struct {
	Name string
	Loc  token.Span
}

func (e *Identifier) Span() token.Span { return e.Loc }
func (e *Identifier) exprNode()        {}

// Walk calls fn for node and every node reachable from it, parents before
// children, in source order. fn returning false prunes the subtree.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		for _, c := range n.Classes {
			Walk(c, fn)
		}
		for _, s := range n.Orphans {
			Walk(s, fn)
		}
	case *ClassDecl:
		for _, f := range n.Fields {
			Walk(f, fn)
		}
		for _, m := range n.Methods {
			Walk(m, fn)
		}
	case *MethodDecl:
		if n.Body != nil {
			Walk(n.Body, fn)
		}
	case *VariableDecl:
		if n.Init != nil {
			Walk(n.Init, fn)
		}
	case *Block:
		for _, s := range n.Stmts {
			Walk(s, fn)
		}
	case *IfStmt:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		if n.Else != nil {
			Walk(n.Else, fn)
		}
	case *WhileStmt:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)
	case *ForStmt:
		if n.Init != nil {
			Walk(n.Init, fn)
		}
		if n.Cond != nil {
			Walk(n.Cond, fn)
		}
		if n.Post != nil {
			Walk(n.Post, fn)
		}
		Walk(n.Body, fn)
	case *ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, fn)
		}
	case *BreakStmt, *ContinueStmt, *ErrorNode, *Literal, *Identifier:
		// leaves
	case *ExprStmt:
		Walk(n.X, fn)
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *UnaryExpr:
		Walk(n.X, fn)
	case *AssignExpr:
		Walk(n.Target, fn)
		Walk(n.Value, fn)
	case *CallExpr:
		Walk(n.Callee, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *SelectorExpr:
		Walk(n.X, fn)
	case *IndexExpr:
		Walk(n.X, fn)
		Walk(n.Index, fn)
	}
}

// CalleeName flattens a call's callee chain into its dotted source form,
// e.g. "System.out.println". Returns "" for callees that are not plain
// identifier chains.
func CalleeName(e Expr) string {
	switch c := e.(type) {
	case *Identifier:
		return c.Name
	case *SelectorExpr:
		base := CalleeName(c.X)
		if base == "" {
			return ""
		}
		return base + "." + c.Name
	default:
		return ""
	}
}
