package checker

import (
	"regexp"
	"strings"

	"github.com/abhisek/derivacheck/internal/normalizer"
)

// labelPrefix matches a left side that names the quantity being computed,
// such as "dy/dx =" or "f'(x) =".
var labelPrefix = regexp.MustCompile(`^\s*(?:d\s*y\s*/\s*d\s*x|dy_dx|y\s*['′]|d\s*x\s*/\s*d\s*t|d\s*y\s*/\s*d\s*t|f\s*['′]\s*\(\s*x\s*\))\s*=`)

// ParseStep normalizes one learner line. A labelled line is compared by
// its right side; any other equation by lhs - rhs.
func ParseStep(raw string) StudentStep {
	text := raw
	if loc := labelPrefix.FindStringIndex(text); loc != nil && strings.Count(text, "=") == 1 {
		text = text[loc[1]:]
	}
	res, err := normalizer.Normalize(text)
	if err != nil {
		return StudentStep{Raw: raw, Err: err}
	}
	return StudentStep{Raw: raw, Expr: res.Expr}
}

// SplitSteps splits text into step lines, trimming each and dropping
// blank ones.
func SplitSteps(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
