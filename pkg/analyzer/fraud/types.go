package fraud

// Rule is one forbidden-construct pattern with the reason it is banned.
// Patterns are matched as substrings against token text, dotted call
// chains, and comment text, so "Runtime.exec" catches both the live call
// and a commented-out copy.
type Rule struct {
	Pattern string `json:"pattern" toon:"pattern" koanf:"pattern" toml:"pattern"`
	Reason  string `json:"reason" toon:"reason" koanf:"reason" toml:"reason"`
}

// DefaultPrintCallees are the call chains treated as program output.
func DefaultPrintCallees() []string {
	return []string{
		"System.out.println",
		"System.out.print",
		"System.out.printf",
		"System.err.println",
		"System.err.print",
	}
}
