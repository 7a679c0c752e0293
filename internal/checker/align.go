package checker

import (
	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

// Align zips learner lines with the expected sequence position by
// position. The result has max(len(steps), len(expected)) verdicts.
func (e *Engine) Align(steps []string, expected []derivation.Step) []StepVerdict {
	n := max(len(steps), len(expected))
	out := make([]StepVerdict, n)
	for i := range n {
		v := StepVerdict{Position: i}
		if i < len(expected) {
			v.Label = expected[i].Label
		}
		switch {
		case i >= len(steps):
			v.Kind = Missing
			v.Correction = expected[i].Expr
		case i >= len(expected):
			v.Kind = Extra
			v.Raw = steps[i]
		default:
			e.judge(&v, ParseStep(steps[i]), expected[i].Expr)
		}
		out[i] = v
	}
	return out
}

func (e *Engine) judge(v *StepVerdict, st StudentStep, want symbolic.Expr) {
	v.Raw = st.Raw
	if st.Err != nil {
		v.Kind = Unparseable
		v.Error = st.Err.Error()
		return
	}
	v.Student = st.Expr
	if e.simp.Equivalent(st.Expr, want) {
		v.Kind = Correct
		return
	}
	v.Kind = Incorrect
	v.Correction = want
}

// Align runs the default engine's aligner.
func Align(steps []string, expected []derivation.Step) []StepVerdict {
	return New(DefaultOptions()).Align(steps, expected)
}
