// Package intelligence holds the deterministic language heuristics of the
// coaching engine: input normalization, pattern intent classification,
// plan slot extraction, and persona scoring. Nothing in this package
// performs I/O.
package intelligence

import "strings"

// typoRules is an ordered list of domain-specific substitutions applied
// before any classification. Order matters: earlier rules run first.
var typoRules = []struct {
	from, to string
}{
	{"fartlake", "fartlek"},
	{"fartlick", "fartlek"},
	{"treshold", "threshold"},
	{"threshhold", "threshold"},
	{"marathone", "marathon"},
	{"marthon", "marathon"},
	{"tempoo", "tempo"},
	{"runing", "running"},
	{"trainning", "training"},
}

// Normalize cleans raw user input: typo corrections, whitespace collapse,
// trim. Deterministic and pure; empty input returns empty output.
func Normalize(raw string) string {
	s := raw
	lower := strings.ToLower(s)
	for _, r := range typoRules {
		for {
			i := strings.Index(lower, r.from)
			if i < 0 {
				break
			}
			s = s[:i] + r.to + s[i+len(r.from):]
			lower = lower[:i] + r.to + lower[i+len(r.from):]
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
