// Package report defines the analysis result model shared by every pipeline
// stage, and assembles the per-stage outputs into one AnalysisReport.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/graderd/lumen/pkg/graph"
	"github.com/graderd/lumen/pkg/token"
)

// Severity of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// String implements fmt.Stringer for toon serialization.
func (s Severity) String() string { return string(s) }

// Diagnostic is a recovered lexical or syntactic problem. Diagnostics are
// accumulated and reported, never thrown past the pipeline boundary.
type Diagnostic struct {
	Severity Severity   `json:"severity" toon:"severity"`
	Message  string     `json:"message" toon:"message"`
	Span     token.Span `json:"span" toon:"span"`
	Stage    string     `json:"stage" toon:"stage"` // "lex" or "parse"
}

// ComplexityClass is an asymptotic growth category. Unknown is a valid,
// honest terminal result, not an error.
type ComplexityClass string

const (
	ClassConstant     ComplexityClass = "O(1)"
	ClassLogarithmic  ComplexityClass = "O(log n)"
	ClassLinear       ComplexityClass = "O(n)"
	ClassLinearithmic ComplexityClass = "O(n log n)"
	ClassQuadratic    ComplexityClass = "O(n^2)"
	ClassCubic        ComplexityClass = "O(n^3)"
	ClassExponential  ComplexityClass = "O(2^n)"
	ClassUnknown      ComplexityClass = "unknown"
)

// String implements fmt.Stringer for toon serialization.
func (c ComplexityClass) String() string { return string(c) }

// rank orders classes from cheapest to most expensive. Polynomial classes
// rank by their degree so O(n^5) outranks O(n^4). Unknown ranks above every
// concrete class so an unresolved method dominates the verdict.
func (c ComplexityClass) rank() int {
	switch c {
	case ClassConstant:
		return 0
	case ClassLogarithmic:
		return 1
	case ClassLinear:
		return 10
	case ClassLinearithmic:
		return 11
	case ClassQuadratic:
		return 20
	case ClassCubic:
		return 30
	case ClassExponential:
		return 1 << 30
	case ClassUnknown:
		return 1<<30 + 1
	default:
		if k, ok := polyDegree(c); ok {
			return 10 * k
		}
		// Unrecognized spellings rank with unknown.
		return 1<<30 + 1
	}
}

// polyDegree extracts k from an O(n^k) class string.
func polyDegree(c ComplexityClass) (int, bool) {
	var k int
	if _, err := fmt.Sscanf(string(c), "O(n^%d)", &k); err != nil {
		return 0, false
	}
	return k, true
}

// AtLeast reports whether c is as expensive as d or more so.
func (c ComplexityClass) AtLeast(d ComplexityClass) bool {
	return c.rank() >= d.rank()
}

// Worse returns the more expensive of two classes.
func (c ComplexityClass) Worse(d ComplexityClass) ComplexityClass {
	if d.rank() > c.rank() {
		return d
	}
	return c
}

// Evidence ties a complexity conclusion to the AST region that produced it.
type Evidence struct {
	Span   token.Span `json:"span" toon:"span"`
	Reason string     `json:"reason" toon:"reason"`
}

// MethodEstimate is the per-method complexity result.
type MethodEstimate struct {
	Class    string          `json:"class,omitempty" toon:"class,omitempty"` // enclosing class name
	Method   string          `json:"method" toon:"method"`
	Estimate ComplexityClass `json:"estimate" toon:"estimate"`
	Evidence []Evidence      `json:"evidence,omitempty" toon:"evidence,omitempty"`
}

// ComplexityEstimate is the submission-wide complexity result: the worst
// class across all methods, with ordered supporting evidence.
type ComplexityEstimate struct {
	Class    ComplexityClass  `json:"class" toon:"class"`
	Evidence []Evidence       `json:"evidence,omitempty" toon:"evidence,omitempty"`
	Methods  []MethodEstimate `json:"methods,omitempty" toon:"methods,omitempty"`
}

// RiskLevel of a fraud verdict.
type RiskLevel string

const (
	RiskNone RiskLevel = "none"
	RiskLow  RiskLevel = "low"
	RiskHigh RiskLevel = "high"
)

// String implements fmt.Stringer for toon serialization.
func (r RiskLevel) String() string { return string(r) }

// Weight returns a numeric weight for ordering risk levels.
func (r RiskLevel) Weight() int {
	switch r {
	case RiskHigh:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// FindingKind classifies a single fraud finding.
type FindingKind string

const (
	FindingHardcodedOutput   FindingKind = "hardcoded-output"
	FindingInvalidToken      FindingKind = "invalid-token"
	FindingForbiddenConstruct FindingKind = "forbidden-construct"
)

// String implements fmt.Stringer for toon serialization.
func (k FindingKind) String() string { return string(k) }

// Finding is one flagged location. Findings are always explained, never a
// bare boolean.
type Finding struct {
	Kind        FindingKind `json:"kind" toon:"kind"`
	Span        token.Span  `json:"span" toon:"span"`
	Description string      `json:"description" toon:"description"`
}

// FraudVerdict is the fraud-pass result.
type FraudVerdict struct {
	Risk     RiskLevel `json:"risk" toon:"risk"`
	Findings []Finding `json:"findings,omitempty" toon:"findings,omitempty"`
}

// Summary is the structural prose summary of a submission, with improvement
// suggestions.
type Summary struct {
	Points      []string `json:"points,omitempty" toon:"points,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" toon:"suggestions,omitempty"`
}

// Timings records wall-clock duration of each pipeline stage.
type Timings struct {
	Lex        time.Duration `json:"lex_ns" toon:"lex_ns"`
	Parse      time.Duration `json:"parse_ns" toon:"parse_ns"`
	Complexity time.Duration `json:"complexity_ns" toon:"complexity_ns"`
	Fraud      time.Duration `json:"fraud_ns" toon:"fraud_ns"`
	Summary    time.Duration `json:"summary_ns" toon:"summary_ns"`
}

// TokenStats counts tokens by coarse kind.
type TokenStats struct {
	Total   int                `json:"total" toon:"total"`
	ByKind  map[string]int     `json:"by_kind,omitempty" toon:"by_kind,omitempty"`
}

// AnalysisReport is the sole return value of the pipeline. It is immutable
// once constructed: the pipeline hands it to the caller and retains nothing.
type AnalysisReport struct {
	Fingerprint string             `json:"fingerprint" toon:"fingerprint"` // xxhash of the source text
	Diagnostics []Diagnostic       `json:"diagnostics,omitempty" toon:"diagnostics,omitempty"`
	Graph       *graph.Graph       `json:"graph,omitempty" toon:"graph,omitempty"`
	Complexity  ComplexityEstimate `json:"complexity" toon:"complexity"`
	Fraud       FraudVerdict       `json:"fraud" toon:"fraud"`
	Summary     Summary            `json:"summary" toon:"summary"`
	Tokens      TokenStats         `json:"tokens" toon:"tokens"`
	Timings     Timings            `json:"timings" toon:"timings"`
}

// Assemble merges per-stage outputs into a report. Pure aggregation: it
// sorts diagnostics by source position (errors before warnings at the same
// position) so repeated runs on identical input are byte-identical. The
// graph is the exportable form of the syntax tree and may be nil when the
// caller did not build one.
func Assemble(diags []Diagnostic, g *graph.Graph, complexity ComplexityEstimate, fraud FraudVerdict, summary Summary) AnalysisReport {
	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i].Span.Start, sorted[j].Span.Start
		if pi.Offset != pj.Offset {
			return pi.Offset < pj.Offset
		}
		return sorted[i].Severity == SeverityError && sorted[j].Severity == SeverityWarning
	})

	return AnalysisReport{
		Diagnostics: sorted,
		Graph:       g,
		Complexity:  complexity,
		Fraud:       fraud,
		Summary:     summary,
	}
}

// CountTokens builds token statistics from a lexed stream, excluding the
// EOF sentinel.
func CountTokens(kinds []token.Kind) TokenStats {
	stats := TokenStats{ByKind: make(map[string]int)}
	for _, k := range kinds {
		if k == token.KindEOF {
			continue
		}
		stats.Total++
		stats.ByKind[string(k)]++
	}
	return stats
}
