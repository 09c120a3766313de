package fraud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graderd/lumen/pkg/analyzer"
	"github.com/graderd/lumen/pkg/lexer"
	"github.com/graderd/lumen/pkg/parser"
	"github.com/graderd/lumen/pkg/report"
)

func inputFor(t *testing.T, src string) *analyzer.Input {
	t.Helper()
	toks, comments, lexDiags := lexer.Tokenize(src)
	prog, _ := parser.Parse(toks)
	require.NotNil(t, prog)
	return &analyzer.Input{Program: prog, Tokens: toks, Comments: comments, Diagnostics: lexDiags}
}

func TestCleanSubmissionHasNoRisk(t *testing.T) {
	verdict := New().Analyze(inputFor(t, `
public class M {
    public void run(int n) {
        int sum = 0;
        for (int i = 0; i < n; i++) {
            sum += i;
        }
        System.out.println(sum);
    }
}`))
	assert.Equal(t, report.RiskNone, verdict.Risk)
	assert.Empty(t, verdict.Findings)
}

func TestHardcodedPrintIsHighRisk(t *testing.T) {
	verdict := New().Analyze(inputFor(t, `
public class M {
    public void run() {
        System.out.println("the answer is 42");
    }
}`))
	assert.Equal(t, report.RiskHigh, verdict.Risk)
	require.Len(t, verdict.Findings, 1)
	assert.Equal(t, report.FindingHardcodedOutput, verdict.Findings[0].Kind)
	assert.Contains(t, verdict.Findings[0].Description, "hardcoded")
}

func TestLiteralConcatenationIsStillHardcoded(t *testing.T) {
	verdict := New().Analyze(inputFor(t, `
public class M {
    public void run() {
        System.out.println("result: " + 42);
    }
}`))
	assert.Equal(t, report.RiskHigh, verdict.Risk)
	require.Len(t, verdict.Findings, 1)
	assert.Equal(t, report.FindingHardcodedOutput, verdict.Findings[0].Kind)
}

func TestComputedPrintIsNotFlagged(t *testing.T) {
	verdict := New().Analyze(inputFor(t, `
public class M {
    public void run(int x) {
        System.out.println("result: " + x);
        System.out.println(x * 2);
    }
}`))
	assert.Equal(t, report.RiskNone, verdict.Risk)
	assert.Empty(t, verdict.Findings)
}

func TestEmptyPrintIsNotFlagged(t *testing.T) {
	verdict := New().Analyze(inputFor(t, `
public class M {
    public void run() {
        System.out.println();
    }
}`))
	assert.Equal(t, report.RiskNone, verdict.Risk)
}

func TestInvalidTokensAloneAreLowRisk(t *testing.T) {
	verdict := New().Analyze(inputFor(t, "int x = 1;\nint y = x @ 2;"))
	assert.Equal(t, report.RiskLow, verdict.Risk)
	require.NotEmpty(t, verdict.Findings)
	assert.Equal(t, report.FindingInvalidToken, verdict.Findings[0].Kind)
}

func TestUnterminatedBlockCommentIsLowRisk(t *testing.T) {
	verdict := New().Analyze(inputFor(t, "int x = 1;\n/* oops"))
	assert.Equal(t, report.RiskLow, verdict.Risk)
	require.Len(t, verdict.Findings, 1)
	assert.Equal(t, report.FindingInvalidToken, verdict.Findings[0].Kind)
	assert.Equal(t, 2, verdict.Findings[0].Span.Start.Line)
}

func TestMixedKindsAreHighRisk(t *testing.T) {
	verdict := New().Analyze(inputFor(t, `
public class M {
    public void run() {
        System.out.println("hardcoded");
        int x = 1 @ 2;
    }
}`))
	assert.Equal(t, report.RiskHigh, verdict.Risk)

	kinds := make(map[report.FindingKind]bool)
	for _, f := range verdict.Findings {
		kinds[f.Kind] = true
	}
	assert.True(t, kinds[report.FindingHardcodedOutput])
	assert.True(t, kinds[report.FindingInvalidToken])
}

func TestForbiddenCallChain(t *testing.T) {
	a := New(WithRules([]Rule{
		{Pattern: "Runtime.exec", Reason: "process execution is banned"},
	}))
	verdict := a.Analyze(inputFor(t, `
public class M {
    public void run(String cmd) {
        Runtime.exec(cmd);
    }
}`))
	assert.Equal(t, report.RiskHigh, verdict.Risk)
	require.Len(t, verdict.Findings, 1)
	assert.Equal(t, report.FindingForbiddenConstruct, verdict.Findings[0].Kind)
	assert.Contains(t, verdict.Findings[0].Description, "process execution is banned")
	assert.Contains(t, verdict.Findings[0].Description, "call")
}

func TestForbiddenPatternInComment(t *testing.T) {
	a := New(WithRules([]Rule{
		{Pattern: "Runtime.exec", Reason: "process execution is banned"},
	}))
	verdict := a.Analyze(inputFor(t, `
public class M {
    public void run() {
        // Runtime.exec("rm -rf /") used to live here
        int x = 0;
    }
}`))
	assert.Equal(t, report.RiskHigh, verdict.Risk)
	require.Len(t, verdict.Findings, 1)
	assert.Contains(t, verdict.Findings[0].Description, "comment")
}

func TestForbiddenTokenMatch(t *testing.T) {
	a := New(WithRules([]Rule{
		{Pattern: "Unsafe", Reason: "direct memory access is banned"},
	}))
	verdict := a.Analyze(inputFor(t, "Unsafe u = theUnsafe;"))
	assert.Equal(t, report.RiskHigh, verdict.Risk)
	assert.Len(t, verdict.Findings, 2)
}

func TestNoRulesMeansNoForbiddenFindings(t *testing.T) {
	verdict := New().Analyze(inputFor(t, `
public class M {
    public void run(String cmd) {
        Runtime.exec(cmd);
    }
}`))
	assert.Equal(t, report.RiskNone, verdict.Risk)
}

func TestFindingsOrderedBySourcePosition(t *testing.T) {
	verdict := New().Analyze(inputFor(t, `
public class M {
    public void a() { System.out.println("one"); }
    public void b() { System.out.println("two"); }
}`))
	require.Len(t, verdict.Findings, 2)
	assert.True(t, verdict.Findings[0].Span.Start.Before(verdict.Findings[1].Span.Start))
}

func TestCustomPrintCallees(t *testing.T) {
	a := New(WithPrintCallees("out.write"))
	verdict := a.Analyze(inputFor(t, `
public class M {
    public void run() {
        out.write("fixed");
        System.out.println("fixed");
    }
}`))
	require.Len(t, verdict.Findings, 1)
	assert.Contains(t, verdict.Findings[0].Description, "hardcoded")
}
