// Package pipeline runs the full analysis chain on one submission:
// text, tokens, tree, passes, report. Analyze is a pure function of its
// arguments and is safe to call from any number of goroutines; callers
// that need deadlines can wrap the call and abandon the result.
package pipeline

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/graderd/lumen/pkg/analyzer"
	"github.com/graderd/lumen/pkg/analyzer/complexity"
	"github.com/graderd/lumen/pkg/analyzer/fraud"
	"github.com/graderd/lumen/pkg/analyzer/summary"
	"github.com/graderd/lumen/pkg/graph"
	"github.com/graderd/lumen/pkg/lexer"
	"github.com/graderd/lumen/pkg/parser"
	"github.com/graderd/lumen/pkg/report"
	"github.com/graderd/lumen/pkg/token"
)

// Options configures one analysis invocation. The zero value runs every
// pass with defaults and no forbidden-construct rules.
type Options struct {
	// Rules is the forbidden-construct set for the fraud pass.
	Rules []fraud.Rule
	// PrintCallees overrides the call chains treated as program output.
	PrintCallees []string
	// NestingLimit is the depth above which the summary pass suggests
	// refactoring (0 = default).
	NestingLimit int
	// MaxEvidence caps evidence entries per method in the complexity
	// estimate (0 = no cap).
	MaxEvidence int
}

// Analyze runs the pipeline on source and assembles the report.
func Analyze(source string, opts Options) report.AnalysisReport {
	var timings report.Timings

	start := time.Now()
	toks, comments, lexDiags := lexer.Tokenize(source)
	timings.Lex = time.Since(start)

	start = time.Now()
	prog, parseDiags := parser.Parse(toks)
	timings.Parse = time.Since(start)

	in := &analyzer.Input{
		Program:     prog,
		Tokens:      toks,
		Comments:    comments,
		Diagnostics: lexDiags,
	}

	var cxOpts []complexity.Option
	if opts.MaxEvidence > 0 {
		cxOpts = append(cxOpts, complexity.WithMaxEvidence(opts.MaxEvidence))
	}
	start = time.Now()
	est := complexity.New(cxOpts...).Analyze(in)
	timings.Complexity = time.Since(start)

	var fraudOpts []fraud.Option
	if len(opts.Rules) > 0 {
		fraudOpts = append(fraudOpts, fraud.WithRules(opts.Rules))
	}
	if len(opts.PrintCallees) > 0 {
		fraudOpts = append(fraudOpts, fraud.WithPrintCallees(opts.PrintCallees...))
	}
	start = time.Now()
	verdict := fraud.New(fraudOpts...).Analyze(in)
	timings.Fraud = time.Since(start)

	var sumOpts []summary.Option
	if opts.NestingLimit > 0 {
		sumOpts = append(sumOpts, summary.WithNestingLimit(opts.NestingLimit))
	}
	start = time.Now()
	sum := summary.New(sumOpts...).Analyze(in)
	timings.Summary = time.Since(start)

	rep := report.Assemble(append(lexDiags, parseDiags...), graph.FromProgram(prog), est, verdict, sum)
	rep.Fingerprint = Fingerprint(source)
	rep.Tokens = report.CountTokens(tokenKinds(toks))
	rep.Timings = timings
	return rep
}

// Fingerprint returns the stable identity of a source text.
func Fingerprint(source string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(source))
}

func tokenKinds(toks []token.Token) []token.Kind {
	kinds := make([]token.Kind, len(toks))
	for i, t := range toks {
		kinds[i] = t.Kind
	}
	return kinds
}
