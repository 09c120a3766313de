package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// and how to interpret results.

func describeAnalyze() string {
	return `Runs the full analysis pipeline on a Java submission: lexing, parsing with error recovery, complexity estimation, fraud detection, and a structural summary.

USE WHEN:
- Grading or reviewing a student submission end to end
- You need diagnostics, complexity, fraud risk, and suggestions in one call

INTERPRETING RESULTS:
- diagnostics: syntax problems with line/column positions; the pipeline never fails on malformed input, it recovers and reports
- complexity.class: worst estimated growth class across all methods (O(1) through O(2^n), or "unknown" for loops with no provable exit)
- fraud.risk: none, low, or high; see detect_fraud for detail
- summary: plain-language description of the code structure plus improvement suggestions
- fingerprint: stable hash of the source, usable as a cache key
- timings: per-stage wall-clock durations

RESULTS RETURNED:
- Full report: fingerprint, diagnostics, complexity, fraud, summary, token stats, timings`
}

func describeComplexity() string {
	return `Estimates the asymptotic time complexity of a Java submission from loop structure and recursion.

USE WHEN:
- Checking whether a submission meets a complexity requirement
- Explaining to a student why their solution is quadratic

INTERPRETING RESULTS:
- class: worst growth class across methods (O(1), O(log n), O(n), O(n log n), O(n^2), O(n^3), O(n^k), O(2^n), unknown)
- "unknown" means a loop with no provable exit was found; it dominates every other class
- Nested data-dependent loops multiply; sibling loops do not
- Loops that halve their counter contribute a log factor
- Recursion with multiple call sites is treated as exponential; a single self-call is linear
- evidence: the specific loops and calls the estimate is based on, with positions
- methods: per-method estimates alongside the overall class`
}

func describeFraud() string {
	return `Detects submission patterns consistent with faked or prohibited work in a Java submission.

USE WHEN:
- Screening submissions for hardcoded expected output
- Enforcing a ban list of forbidden APIs or constructs

INTERPRETING RESULTS:
- risk: none (no findings), low (only invalid tokens), high (hardcoded output, forbidden constructs, or multiple finding kinds)
- hardcoded-output findings: print calls whose arguments are entirely literals
- forbidden-construct findings: matches of configured rules against code and comments, each with the rule's reason
- invalid-token findings: characters or unterminated literals the lexer could not classify
- Findings carry source positions for citing in feedback

OPTIONS:
- rules: forbidden patterns with reasons, e.g. {"pattern": "Runtime.exec", "reason": "process execution is banned"}`
}

func describeSummary() string {
	return `Produces a plain-language structural summary of a Java submission with improvement suggestions.

USE WHEN:
- Writing feedback for a student
- Getting a quick orientation before reading unfamiliar code

INTERPRETING RESULTS:
- points: observed structure (classes, methods, loops, conditionals, print statements)
- suggestions: concrete improvements, e.g. reduce nesting depth, use StringBuilder for string concatenation in loops, add error handling around risky calls`
}

func describeGraph() string {
	return `Exports the parsed AST of a Java submission as a graph in DOT (Graphviz) or Mermaid syntax.

USE WHEN:
- Visualizing program structure for teaching material
- Inspecting how the parser recovered from syntax errors (error nodes appear in the graph)

INTERPRETING RESULTS:
- Nodes are program constructs labeled by role (class, method, statement, expression)
- Solid edges are containment; dashed edges are resolved method calls
- DOT output renders with Graphviz; Mermaid output embeds in markdown

OPTIONS:
- syntax: "dot" (default) or "mermaid"`
}
