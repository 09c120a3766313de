package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graderd/lumen/pkg/analyzer/fraud"
	"github.com/graderd/lumen/pkg/report"
)

const sample = `
public class Main {
    public static void main(String[] args) {
        int n = 25;
        int sum = 0;
        for (int i = 0; i < n; i++) {
            for (int j = 0; j < n; j++) {
                sum += i * j;
            }
        }
        System.out.println(sum);
    }
}`

func TestAnalyzeProducesFullReport(t *testing.T) {
	rep := Analyze(sample, Options{})

	assert.Empty(t, rep.Diagnostics)
	assert.Equal(t, report.ClassQuadratic, rep.Complexity.Class)
	assert.Equal(t, report.RiskNone, rep.Fraud.Risk)
	assert.NotEmpty(t, rep.Summary.Points)
	assert.NotEmpty(t, rep.Fingerprint)
	assert.Positive(t, rep.Tokens.Total)
	assert.Positive(t, rep.Tokens.ByKind["keyword"])

	require.NotNil(t, rep.Graph)
	assert.NotEmpty(t, rep.Graph.Nodes)
	assert.Contains(t, rep.Graph.ToDOT(), "digraph")
}

func TestMaxEvidenceCapsComplexityEvidence(t *testing.T) {
	capped := Analyze(sample, Options{MaxEvidence: 1})
	uncapped := Analyze(sample, Options{})

	require.Len(t, capped.Complexity.Methods, 1)
	assert.Len(t, capped.Complexity.Methods[0].Evidence, 1)
	assert.Greater(t, len(uncapped.Complexity.Methods[0].Evidence), 1)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	first := Analyze(sample, Options{})
	second := Analyze(sample, Options{})

	// Timings vary run to run; everything else must be identical.
	second.Timings = first.Timings
	assert.Equal(t, first, second)
}

func TestFingerprintStableAndDistinct(t *testing.T) {
	a := Fingerprint("int x = 1;")
	b := Fingerprint("int x = 1;")
	c := Fingerprint("int x = 2;")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestAnalyzeNeverFails(t *testing.T) {
	cases := []string{
		"",
		"@#$%^",
		"class",
		"public class M { public void f( {",
		`System.out.println("unterminated`,
	}
	for _, src := range cases {
		rep := Analyze(src, Options{})
		assert.NotEmpty(t, rep.Fingerprint)
	}
}

func TestDiagnosticsSortedByPosition(t *testing.T) {
	rep := Analyze("int a = ;\nint b = @;", Options{})
	require.GreaterOrEqual(t, len(rep.Diagnostics), 2)
	for i := 1; i < len(rep.Diagnostics); i++ {
		prev, cur := rep.Diagnostics[i-1], rep.Diagnostics[i]
		assert.LessOrEqual(t, prev.Span.Start.Offset, cur.Span.Start.Offset)
	}
}

func TestRulesThreadedThrough(t *testing.T) {
	rep := Analyze(`
public class M {
    public void run(String cmd) {
        Runtime.exec(cmd);
    }
}`, Options{Rules: []fraud.Rule{{Pattern: "Runtime.exec", Reason: "banned"}}})
	assert.Equal(t, report.RiskHigh, rep.Fraud.Risk)
}

func TestConcurrentAnalyzeIsSafe(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]report.AnalysisReport, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Analyze(sample, Options{})
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		assert.Equal(t, results[0].Fingerprint, results[i].Fingerprint)
		assert.Equal(t, results[0].Complexity, results[i].Complexity)
	}
}
