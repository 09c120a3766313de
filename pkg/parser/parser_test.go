package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graderd/lumen/pkg/ast"
	"github.com/graderd/lumen/pkg/lexer"
	"github.com/graderd/lumen/pkg/report"
	"github.com/graderd/lumen/pkg/token"
)

func parseSource(t *testing.T, src string) (*ast.Program, []report.Diagnostic) {
	t.Helper()
	toks, _, lexDiags := lexer.Tokenize(src)
	prog, parseDiags := Parse(toks)
	require.NotNil(t, prog)
	return prog, append(lexDiags, parseDiags...)
}

func countErrorNodes(root ast.Node) int {
	n := 0
	ast.Walk(root, func(node ast.Node) bool {
		if _, ok := node.(*ast.ErrorNode); ok {
			n++
		}
		return true
	})
	return n
}

func TestParseWellFormedClass(t *testing.T) {
	src := `
public class Main {
    private int count;

    public static void main(String[] args) {
        int sum = 0;
        for (int i = 0; i < 10; i++) {
            sum += i;
        }
        System.out.println(sum);
    }
}`
	prog, diags := parseSource(t, src)
	assert.Empty(t, diags)
	require.Len(t, prog.Classes, 1)

	class := prog.Classes[0]
	assert.Equal(t, "Main", class.Name)
	require.Len(t, class.Fields, 1)
	assert.Equal(t, "count", class.Fields[0].Name)
	assert.Equal(t, "int", class.Fields[0].Type)

	require.Len(t, class.Methods, 1)
	main := class.Methods[0]
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, "void", main.ReturnType)
	require.Len(t, main.Params, 1)
	assert.Equal(t, "String[]", main.Params[0].Type)
	assert.Equal(t, "args", main.Params[0].Name)
	require.NotNil(t, main.Body)
	assert.Len(t, main.Body.Stmts, 3)
	assert.Zero(t, countErrorNodes(prog))
}

func TestParseOrphanStatements(t *testing.T) {
	prog, diags := parseSource(t, "int x = 5;\nx = x + 1;")
	assert.Empty(t, diags)
	assert.Empty(t, prog.Classes)
	require.Len(t, prog.Orphans, 2)

	decl, ok := prog.Orphans[0].(*ast.VariableDecl)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	require.NotNil(t, decl.Init)
}

func TestOperatorPrecedence(t *testing.T) {
	prog, diags := parseSource(t, "int r = a + b * c;")
	require.Empty(t, diags)

	decl := prog.Orphans[0].(*ast.VariableDecl)
	add, ok := decl.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.Plus, add.Op)

	mul, ok := add.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.Star, mul.Op)
}

func TestLogicalPrecedenceAndAssociativity(t *testing.T) {
	prog, diags := parseSource(t, "boolean b = x < 1 || y < 2 && z == 3;")
	require.Empty(t, diags)

	decl := prog.Orphans[0].(*ast.VariableDecl)
	or, ok := decl.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.OrOr, or.Op)

	// && binds tighter than ||.
	and, ok := or.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.AndAnd, and.Op)
}

func TestDanglingElseBindsNearestIf(t *testing.T) {
	src := `
if (a < 1)
    if (b < 2)
        x = 1;
    else
        x = 2;
`
	prog, diags := parseSource(t, src)
	require.Empty(t, diags)
	require.Len(t, prog.Orphans, 1)

	outer, ok := prog.Orphans[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.Nil(t, outer.Else)

	inner, ok := outer.Then.(*ast.IfStmt)
	require.True(t, ok)
	assert.NotNil(t, inner.Else)
}

func TestRecoveryIsolatesMalformedStatement(t *testing.T) {
	src := `
public class Main {
    public void run() {
        int a = 1;
        int b = + ;
        int c = 3;
    }
}`
	prog, diags := parseSource(t, src)
	require.NotEmpty(t, diags)
	require.Len(t, prog.Classes, 1)
	require.Len(t, prog.Classes[0].Methods, 1)

	body := prog.Classes[0].Methods[0].Body
	require.NotNil(t, body)
	require.Len(t, body.Stmts, 3)

	// Only the middle statement degrades to an error node.
	_, ok := body.Stmts[0].(*ast.VariableDecl)
	assert.True(t, ok)
	_, ok = body.Stmts[1].(*ast.ErrorNode)
	assert.True(t, ok)
	last, ok := body.Stmts[2].(*ast.VariableDecl)
	require.True(t, ok)
	assert.Equal(t, "c", last.Name)
}

func TestUnterminatedStringRecovery(t *testing.T) {
	src := `
public class Main {
    public void run() {
        System.out.println("oops);
        int after = 1;
    }
}`
	toks, _, lexDiags := lexer.Tokenize(src)
	require.Len(t, lexDiags, 1)
	assert.Equal(t, "lex", lexDiags[0].Stage)

	prog, _ := Parse(toks)
	require.Len(t, prog.Classes, 1)
	body := prog.Classes[0].Methods[0].Body
	require.NotNil(t, body)

	// The statement after the bad literal still parses cleanly.
	decl, ok := body.Stmts[len(body.Stmts)-1].(*ast.VariableDecl)
	require.True(t, ok)
	assert.Equal(t, "after", decl.Name)
	assert.Equal(t, 1, countErrorNodes(prog))
}

func TestMissingSemicolonRecovery(t *testing.T) {
	src := `
public class Main {
    public void run() {
        int a = 1
        int b = 2;
    }
}`
	prog, diags := parseSource(t, src)
	require.NotEmpty(t, diags)

	body := prog.Classes[0].Methods[0].Body
	require.NotNil(t, body)

	names := []string{}
	ast.Walk(body, func(n ast.Node) bool {
		if d, ok := n.(*ast.VariableDecl); ok {
			names = append(names, d.Name)
		}
		return true
	})
	assert.Contains(t, names, "b")
}

func TestForLoopVariants(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"full", "for (int i = 0; i < n; i++) { x = x + 1; }"},
		{"no init", "for (; i < n; i++) { }"},
		{"no cond", "for (int i = 0; ; i++) { break; }"},
		{"bare", "for (;;) { break; }"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prog, diags := parseSource(t, tc.src)
			assert.Empty(t, diags)
			require.Len(t, prog.Orphans, 1)
			_, ok := prog.Orphans[0].(*ast.ForStmt)
			assert.True(t, ok)
		})
	}
}

func TestWhileAndNestedLoops(t *testing.T) {
	src := `
public class M {
    public int sum(int n) {
        int total = 0;
        int i = 0;
        while (i < n) {
            for (int j = 0; j < n; j++) {
                total += 1;
            }
            i++;
        }
        return total;
    }
}`
	prog, diags := parseSource(t, src)
	require.Empty(t, diags)

	var whiles, fors int
	ast.Walk(prog, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.WhileStmt:
			whiles++
		case *ast.ForStmt:
			fors++
		}
		return true
	})
	assert.Equal(t, 1, whiles)
	assert.Equal(t, 1, fors)
}

func TestNewExpressions(t *testing.T) {
	prog, diags := parseSource(t, "int[] arr = new int[10];\nScanner in = new Scanner(x);")
	require.Empty(t, diags)
	require.Len(t, prog.Orphans, 2)

	arr := prog.Orphans[0].(*ast.VariableDecl)
	alloc, ok := arr.Init.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "int", ast.CalleeName(alloc.Callee))

	sc := prog.Orphans[1].(*ast.VariableDecl)
	ctor, ok := sc.Init.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "Scanner", ast.CalleeName(ctor.Callee))
}

func TestSelectorChainCallee(t *testing.T) {
	prog, diags := parseSource(t, `System.out.println("hi");`)
	require.Empty(t, diags)

	stmt := prog.Orphans[0].(*ast.ExprStmt)
	call, ok := stmt.X.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "System.out.println", ast.CalleeName(call.Callee))
	require.Len(t, call.Args, 1)
}

func TestMethodWithConstructorShape(t *testing.T) {
	src := `
public class Point {
    private int x;
    public Point(int x) {
        this.x = x;
    }
}`
	// "this" lexes as a plain identifier in this subset.
	prog, diags := parseSource(t, src)
	require.Empty(t, diags)
	require.Len(t, prog.Classes[0].Methods, 1)
	assert.Equal(t, "Point", prog.Classes[0].Methods[0].Name)
	assert.Equal(t, "", prog.Classes[0].Methods[0].ReturnType)
}

func TestGarbageInputTerminates(t *testing.T) {
	src := ") } ; ] @ # class { ( ( ( int int int"
	prog, diags := parseSource(t, src)
	require.NotNil(t, prog)
	assert.NotEmpty(t, diags)
}

func TestEmptyInput(t *testing.T) {
	prog, diags := parseSource(t, "")
	assert.Empty(t, diags)
	assert.Empty(t, prog.Classes)
	assert.Empty(t, prog.Orphans)
}

func TestDiagnosticSpansAreOrderedAndPositioned(t *testing.T) {
	src := "int a = ;\nint b = ;"
	_, diags := parseSource(t, src)
	require.Len(t, diags, 2)
	assert.Equal(t, 1, diags[0].Span.Start.Line)
	assert.Equal(t, 2, diags[1].Span.Start.Line)
}
