package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graderd/lumen/pkg/graph"
	"github.com/graderd/lumen/pkg/lexer"
	"github.com/graderd/lumen/pkg/parser"
)

func buildGraph(t *testing.T, src string) *graph.Graph {
	t.Helper()
	toks, _, _ := lexer.Tokenize(src)
	prog, _ := parser.Parse(toks)
	require.NotNil(t, prog)
	return graph.FromProgram(prog)
}

const src = `
public class Main {
    public static void main(String[] args) {
        int n = 5;
        System.out.println(fact(n));
    }

    public static int fact(int n) {
        if (n <= 1) {
            return 1;
        }
        return n * fact(n - 1);
    }
}`

func TestGraphStructure(t *testing.T) {
	g := buildGraph(t, src)
	require.NotEmpty(t, g.Nodes)
	assert.Equal(t, graph.NodeProgram, g.Nodes[0].Kind)

	var classes, methods int
	for _, n := range g.Nodes {
		switch n.Kind {
		case graph.NodeClass:
			classes++
		case graph.NodeMethod:
			methods++
		}
	}
	assert.Equal(t, 1, classes)
	assert.Equal(t, 2, methods)
}

func TestCallEdgesResolveToMethods(t *testing.T) {
	g := buildGraph(t, src)

	var callEdges int
	for _, e := range g.Edges {
		if e.Kind == graph.EdgeCall {
			callEdges++
		}
	}
	// main -> fact and fact -> fact; System.out.println has no target here.
	assert.Equal(t, 2, callEdges)
}

func TestDeterministicIDs(t *testing.T) {
	first := buildGraph(t, src)
	second := buildGraph(t, src)
	assert.Equal(t, first, second)
}

func TestToDOT(t *testing.T) {
	out := buildGraph(t, src).ToDOT()
	assert.True(t, strings.HasPrefix(out, "digraph ast {"))
	assert.Contains(t, out, "class Main")
	assert.Contains(t, out, "method fact")
	assert.Contains(t, out, "style=dashed")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestToMermaid(t *testing.T) {
	out := buildGraph(t, src).ToMermaid()
	assert.True(t, strings.HasPrefix(out, "graph TD"))
	assert.Contains(t, out, "-.->|calls|")
	assert.NotContains(t, out, "[\"[")
}

func TestErrorNodesExported(t *testing.T) {
	g := buildGraph(t, "int x = + ;")
	var errs int
	for _, n := range g.Nodes {
		if n.Kind == graph.NodeError {
			errs++
		}
	}
	assert.Equal(t, 1, errs)
}

func TestNilProgram(t *testing.T) {
	g := graph.FromProgram(nil)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestStatementLabels(t *testing.T) {
	g := buildGraph(t, "for (int i = 0; i < 3; i++) { System.out.println(i); }")
	labels := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		labels = append(labels, n.Label)
	}
	assert.Contains(t, labels, "for")
	assert.Contains(t, labels, "declare int i")
	assert.Contains(t, labels, "call System.out.println")
}
