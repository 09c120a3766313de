package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/graderd/lumen/internal/output"
	"github.com/graderd/lumen/pkg/analyzer/fraud"
	"github.com/graderd/lumen/pkg/config"
	"github.com/graderd/lumen/pkg/report"
	"github.com/graderd/lumen/pkg/token"
)

// loadConfig resolves the effective configuration: the --config file when
// given, otherwise discovery in the working directory with defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

// newFormatter builds a formatter from global flags, falling back to the
// config file's output section.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := c.String("format")
	if format == "" {
		format = cfg.Output.Format
	}
	colored := cfg.Output.Color && !c.Bool("no-color")
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), colored)
}

// readSubmission reads the submission named by the first positional
// argument; "-" reads from stdin.
func readSubmission(c *cli.Context) (path, source string, err error) {
	if c.Args().Len() == 0 {
		return "", "", fmt.Errorf("expected a Java source file (or - for stdin)")
	}
	path = c.Args().First()
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return "stdin", string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return path, string(data), nil
}

// pipelineRule wraps an ad-hoc --forbid pattern as a rule.
func pipelineRule(pattern string) fraud.Rule {
	return fraud.Rule{Pattern: pattern, Reason: "forbidden by grader flag"}
}

func spanLoc(s token.Span) string {
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}

// diagnosticsTable renders recovered lexical and syntactic problems.
func diagnosticsTable(diags []report.Diagnostic, colored bool) *output.Table {
	var rows [][]string
	for _, d := range diags {
		sev := string(d.Severity)
		if colored {
			switch d.Severity {
			case report.SeverityError:
				sev = color.RedString(sev)
			case report.SeverityWarning:
				sev = color.YellowString(sev)
			}
		}
		rows = append(rows, []string{
			spanLoc(d.Span),
			sev,
			d.Stage,
			d.Message,
		})
	}

	return output.NewTable(
		"Diagnostics",
		[]string{"Location", "Severity", "Stage", "Message"},
		rows,
		[]string{fmt.Sprintf("Total: %d", len(diags)), "", "", ""},
		diags,
	)
}

// complexityTable renders per-method estimates with the overall class in
// the footer.
func complexityTable(est report.ComplexityEstimate, colored bool) *output.Table {
	var rows [][]string
	for _, m := range est.Methods {
		name := m.Method
		if m.Class != "" {
			name = m.Class + "." + m.Method
		}
		estStr := string(m.Estimate)
		if colored && m.Estimate.AtLeast(report.ClassQuadratic) {
			estStr = color.RedString(estStr)
		}
		evidence := ""
		if len(m.Evidence) > 0 {
			evidence = m.Evidence[0].Reason
			if len(m.Evidence) > 1 {
				evidence = fmt.Sprintf("%s (+%d more)", evidence, len(m.Evidence)-1)
			}
		}
		rows = append(rows, []string{name, estStr, evidence})
	}

	overall := string(est.Class)
	if colored && est.Class.AtLeast(report.ClassQuadratic) {
		overall = color.RedString(overall)
	}

	return output.NewTable(
		"Complexity Estimate",
		[]string{"Method", "Estimate", "Evidence"},
		rows,
		[]string{"Overall: " + overall, "", ""},
		est,
	)
}

// fraudTable renders findings with the risk verdict in the footer.
func fraudTable(verdict report.FraudVerdict, colored bool) *output.Table {
	var rows [][]string
	for _, f := range verdict.Findings {
		rows = append(rows, []string{
			spanLoc(f.Span),
			string(f.Kind),
			f.Description,
		})
	}

	return output.NewTable(
		"Fraud Findings",
		[]string{"Location", "Kind", "Description"},
		rows,
		[]string{"Risk: " + riskString(verdict.Risk, colored), "", ""},
		verdict,
	)
}

func riskString(r report.RiskLevel, colored bool) string {
	if !colored {
		return string(r)
	}
	switch r {
	case report.RiskHigh:
		return color.RedString(string(r))
	case report.RiskLow:
		return color.YellowString(string(r))
	default:
		return color.GreenString(string(r))
	}
}

// summarySection renders the structural summary as bulleted prose.
func summarySection(sum report.Summary) *output.Section {
	sec := &output.Section{Title: "Summary", Data: sum}
	for _, p := range sum.Points {
		sec.Content += "- " + p + "\n"
	}
	if len(sum.Suggestions) > 0 {
		sub := output.Section{Title: "Suggestions"}
		for _, s := range sum.Suggestions {
			sub.Content += "- " + s + "\n"
		}
		sec.Sections = append(sec.Sections, sub)
	}
	return sec
}

// timingsSection renders per-stage wall-clock durations.
func timingsSection(t report.Timings) *output.Section {
	return &output.Section{
		Title: "Timings",
		Content: fmt.Sprintf("lex %s, parse %s, complexity %s, fraud %s, summary %s",
			t.Lex, t.Parse, t.Complexity, t.Fraud, t.Summary),
		Data: t,
	}
}
