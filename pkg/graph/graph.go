// Package graph exports a parsed submission as a node-and-edge list for
// external renderers, with DOT and Mermaid serializations. No drawing
// happens here; the structure is the product.
package graph

import (
	"fmt"
	"strings"

	"github.com/graderd/lumen/pkg/ast"
	"github.com/graderd/lumen/pkg/token"
)

// NodeKind classifies a graph node.
type NodeKind string

const (
	NodeProgram    NodeKind = "program"
	NodeClass      NodeKind = "class"
	NodeMethod     NodeKind = "method"
	NodeStatement  NodeKind = "statement"
	NodeExpression NodeKind = "expression"
	NodeError      NodeKind = "error"
)

// EdgeKind classifies a graph edge.
type EdgeKind string

const (
	EdgeChild EdgeKind = "child"
	EdgeCall  EdgeKind = "call"
)

// Node is one syntax-tree node in exportable form.
type Node struct {
	ID    string   `json:"id" toon:"id"`
	Label string   `json:"label" toon:"label"`
	Kind  NodeKind `json:"kind" toon:"kind"`
	Line  int      `json:"line,omitempty" toon:"line,omitempty"`
}

// Edge connects a parent node to a child, or a call site to its target
// method.
type Edge struct {
	From string   `json:"from" toon:"from"`
	To   string   `json:"to" toon:"to"`
	Kind EdgeKind `json:"kind" toon:"kind"`
}

// Graph is the full exportable structure.
type Graph struct {
	Nodes []Node `json:"nodes" toon:"nodes"`
	Edges []Edge `json:"edges" toon:"edges"`
}

// FromProgram flattens the syntax tree into a graph. Node IDs are assigned
// in pre-order, so output is deterministic for a given tree. Call edges
// connect call expressions to methods defined in the same submission.
func FromProgram(prog *ast.Program) *Graph {
	b := &builder{
		g:       &Graph{Nodes: make([]Node, 0), Edges: make([]Edge, 0)},
		methods: make(map[string]string),
	}
	if prog == nil {
		return b.g
	}

	root := b.add(NodeProgram, "program", prog.Span())
	for _, c := range prog.Classes {
		cid := b.add(NodeClass, "class "+c.Name, c.Span())
		b.link(root, cid, EdgeChild)
		for _, f := range c.Fields {
			fid := b.add(NodeStatement, "field "+f.Name, f.Span())
			b.link(cid, fid, EdgeChild)
			if f.Init != nil {
				b.expr(fid, f.Init)
			}
		}
		for _, m := range c.Methods {
			mid := b.add(NodeMethod, "method "+m.Name, m.Span())
			b.methods[m.Name] = mid
			b.link(cid, mid, EdgeChild)
			if m.Body != nil {
				for _, s := range m.Body.Stmts {
					b.stmt(mid, s)
				}
			}
		}
	}
	for _, s := range prog.Orphans {
		b.stmt(root, s)
	}
	b.resolveCalls()
	return b.g
}

type builder struct {
	g       *Graph
	methods map[string]string // method name -> node id
	calls   []pendingCall
}

type pendingCall struct {
	fromID string
	callee string
}

func (b *builder) add(kind NodeKind, label string, span token.Span) string {
	id := fmt.Sprintf("n%d", len(b.g.Nodes))
	b.g.Nodes = append(b.g.Nodes, Node{ID: id, Label: label, Kind: kind, Line: span.Start.Line})
	return id
}

func (b *builder) link(from, to string, kind EdgeKind) {
	b.g.Edges = append(b.g.Edges, Edge{From: from, To: to, Kind: kind})
}

func (b *builder) stmt(parent string, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		id := b.add(NodeStatement, "block", n.Span())
		b.link(parent, id, EdgeChild)
		for _, child := range n.Stmts {
			b.stmt(id, child)
		}
	case *ast.VariableDecl:
		id := b.add(NodeStatement, fmt.Sprintf("declare %s %s", n.Type, n.Name), n.Span())
		b.link(parent, id, EdgeChild)
		if n.Init != nil {
			b.expr(id, n.Init)
		}
	case *ast.IfStmt:
		id := b.add(NodeStatement, "if", n.Span())
		b.link(parent, id, EdgeChild)
		b.expr(id, n.Cond)
		b.stmt(id, n.Then)
		if n.Else != nil {
			b.stmt(id, n.Else)
		}
	case *ast.WhileStmt:
		id := b.add(NodeStatement, "while", n.Span())
		b.link(parent, id, EdgeChild)
		b.expr(id, n.Cond)
		b.stmt(id, n.Body)
	case *ast.ForStmt:
		id := b.add(NodeStatement, "for", n.Span())
		b.link(parent, id, EdgeChild)
		if n.Init != nil {
			b.stmt(id, n.Init)
		}
		if n.Cond != nil {
			b.expr(id, n.Cond)
		}
		if n.Post != nil {
			b.expr(id, n.Post)
		}
		b.stmt(id, n.Body)
	case *ast.ReturnStmt:
		id := b.add(NodeStatement, "return", n.Span())
		b.link(parent, id, EdgeChild)
		if n.Value != nil {
			b.expr(id, n.Value)
		}
	case *ast.BreakStmt:
		b.link(parent, b.add(NodeStatement, "break", n.Span()), EdgeChild)
	case *ast.ContinueStmt:
		b.link(parent, b.add(NodeStatement, "continue", n.Span()), EdgeChild)
	case *ast.ExprStmt:
		b.expr(parent, n.X)
	case *ast.ErrorNode:
		b.link(parent, b.add(NodeError, "error: "+n.Message, n.Span()), EdgeChild)
	}
}

func (b *builder) expr(parent string, e ast.Expr) {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		id := b.add(NodeExpression, n.Op.String(), n.Span())
		b.link(parent, id, EdgeChild)
		b.expr(id, n.Left)
		b.expr(id, n.Right)
	case *ast.UnaryExpr:
		id := b.add(NodeExpression, n.Op.String(), n.Span())
		b.link(parent, id, EdgeChild)
		b.expr(id, n.X)
	case *ast.AssignExpr:
		id := b.add(NodeExpression, n.Op.String(), n.Span())
		b.link(parent, id, EdgeChild)
		b.expr(id, n.Target)
		b.expr(id, n.Value)
	case *ast.CallExpr:
		name := ast.CalleeName(n.Callee)
		if name == "" {
			name = "call"
		}
		id := b.add(NodeExpression, "call "+name, n.Span())
		b.link(parent, id, EdgeChild)
		if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
			name = name[dot+1:]
		}
		b.calls = append(b.calls, pendingCall{fromID: id, callee: name})
		for _, a := range n.Args {
			b.expr(id, a)
		}
	case *ast.SelectorExpr:
		id := b.add(NodeExpression, "."+n.Name, n.Span())
		b.link(parent, id, EdgeChild)
		b.expr(id, n.X)
	case *ast.IndexExpr:
		id := b.add(NodeExpression, "index", n.Span())
		b.link(parent, id, EdgeChild)
		b.expr(id, n.X)
		b.expr(id, n.Index)
	case *ast.Literal:
		b.link(parent, b.add(NodeExpression, n.Value, n.Span()), EdgeChild)
	case *ast.Identifier:
		b.link(parent, b.add(NodeExpression, n.Name, n.Span()), EdgeChild)
	case *ast.ErrorNode:
		b.link(parent, b.add(NodeError, "error: "+n.Message, n.Span()), EdgeChild)
	}
}

// resolveCalls adds call edges for callees that name a method in the
// submission. Runs after the walk so forward references resolve.
func (b *builder) resolveCalls() {
	for _, c := range b.calls {
		if target, ok := b.methods[c.callee]; ok {
			b.link(c.fromID, target, EdgeCall)
		}
	}
}

// ToDOT renders the graph in Graphviz DOT syntax.
func (g *Graph) ToDOT() string {
	var sb strings.Builder
	sb.WriteString("digraph ast {\n")
	sb.WriteString("    node [shape=box];\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&sb, "    %s [label=%q];\n", n.ID, n.Label)
	}
	for _, e := range g.Edges {
		if e.Kind == EdgeCall {
			fmt.Fprintf(&sb, "    %s -> %s [style=dashed, label=\"calls\"];\n", e.From, e.To)
		} else {
			fmt.Fprintf(&sb, "    %s -> %s;\n", e.From, e.To)
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// ToMermaid renders the graph in Mermaid flowchart syntax.
func (g *Graph) ToMermaid() string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&sb, "    %s[%q]\n", n.ID, sanitizeMermaidLabel(n.Label))
	}
	for _, e := range g.Edges {
		arrow := "-->"
		if e.Kind == EdgeCall {
			arrow = "-.->|calls|"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", e.From, arrow, e.To)
	}
	return sb.String()
}

func sanitizeMermaidLabel(label string) string {
	return strings.NewReplacer("\"", "'", "[", "(", "]", ")").Replace(label)
}
