package complexity

import (
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/graderd/lumen/pkg/ast"
)

// namedMethod pairs a method with its enclosing class name.
type namedMethod struct {
	class string
	decl  *ast.MethodDecl
}

// recursionInfo summarizes how a method participates in call-graph cycles.
type recursionInfo struct {
	linear      bool
	exponential bool
	sites       int
}

func collectMethods(prog *ast.Program) []namedMethod {
	if prog == nil {
		return nil
	}
	var methods []namedMethod
	for _, c := range prog.Classes {
		for _, m := range c.Methods {
			methods = append(methods, namedMethod{class: c.Name, decl: m})
		}
	}
	return methods
}

// analyzeRecursion builds the intra-submission call graph and classifies
// each method's recursion via Tarjan's strongly connected components.
// Direct self-calls are tracked outside the graph because simple directed
// graphs reject self-edges. A method with one recursive call site recurses
// linearly; two or more sites branch, which is the exponential shape.
func analyzeRecursion(methods []namedMethod) []recursionInfo {
	infos := make([]recursionInfo, len(methods))
	if len(methods) == 0 {
		return infos
	}

	byName := make(map[string][]int)
	for i, m := range methods {
		byName[m.decl.Name] = append(byName[m.decl.Name], i)
	}

	g := simple.NewDirectedGraph()
	for i := range methods {
		g.AddNode(simple.Node(i))
	}

	callSites := make([][]int, len(methods)) // target indexes per call site
	for i, m := range methods {
		if m.decl.Body == nil {
			continue
		}
		ast.Walk(m.decl.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			name := ast.CalleeName(call.Callee)
			if name == "" {
				return true
			}
			if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
				name = name[dot+1:]
			}
			targets := byName[name]
			if len(targets) == 0 {
				return true
			}
			callSites[i] = append(callSites[i], targets...)
			for _, j := range targets {
				if j != i {
					g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
				}
			}
			return true
		})
	}

	sccID := make([]int, len(methods))
	for id, component := range topo.TarjanSCC(g) {
		for _, node := range component {
			sccID[node.ID()] = id
		}
	}

	sizes := sccSizes(sccID)
	inCycle := make([]bool, len(methods))
	for i := range methods {
		inCycle[i] = sizes[sccID[i]] > 1
	}

	for i := range methods {
		for _, j := range callSites[i] {
			if j == i || (inCycle[i] && sccID[j] == sccID[i]) {
				infos[i].sites++
			}
		}
		infos[i].linear = infos[i].sites == 1
		infos[i].exponential = infos[i].sites >= 2
	}
	return infos
}

func sccSizes(sccID []int) map[int]int {
	sizes := make(map[int]int, len(sccID))
	for _, id := range sccID {
		sizes[id]++
	}
	return sizes
}
