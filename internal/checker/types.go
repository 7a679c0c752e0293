// Package checker verifies a learner's differentiation working line by
// line against the reference derivation.
package checker

import (
	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/diagnosis"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

// Kind is the verdict for one aligned position.
type Kind string

const (
	Correct     Kind = "correct"
	Incorrect   Kind = "incorrect"
	Unparseable Kind = "unparseable"
	Extra       Kind = "extra"
	Missing     Kind = "missing"
)

// StudentStep is one parsed learner line. Err is set instead of Expr
// when the line could not be parsed.
type StudentStep struct {
	Raw  string
	Expr symbolic.Expr
	Err  error
}

// StepVerdict is the outcome at one position. Correction holds the
// expected expression for Incorrect and Missing verdicts.
type StepVerdict struct {
	Position   int           `json:"position"`
	Kind       Kind          `json:"kind"`
	Label      string        `json:"label,omitempty"`
	Raw        string        `json:"raw,omitempty"`
	Student    symbolic.Expr `json:"student,omitempty"`
	Correction symbolic.Expr `json:"correction,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Summary counts verdicts by kind. Passed means at least one position
// is Correct and none is Incorrect, Unparseable or Missing; Extra steps
// do not count against it.
type Summary struct {
	Correct     int  `json:"correct"`
	Incorrect   int  `json:"incorrect"`
	Unparseable int  `json:"unparseable"`
	Extra       int  `json:"extra"`
	Missing     int  `json:"missing"`
	Passed      bool `json:"passed"`
}

// Summarize counts verdicts.
func Summarize(vs []StepVerdict) Summary {
	var s Summary
	for _, v := range vs {
		switch v.Kind {
		case Correct:
			s.Correct++
		case Incorrect:
			s.Incorrect++
		case Unparseable:
			s.Unparseable++
		case Extra:
			s.Extra++
		case Missing:
			s.Missing++
		}
	}
	s.Passed = s.Correct > 0 && s.Incorrect+s.Unparseable+s.Missing == 0
	return s
}

// FeedbackReport is the result of one check. It shares nothing with the
// request it was built from.
type FeedbackReport struct {
	ID       string                  `json:"id"`
	Mode     derivation.Mode         `json:"mode"`
	Problem  string                  `json:"problem"`
	Expected []derivation.Step       `json:"expected"`
	Verdicts []StepVerdict           `json:"verdicts"`
	Hints    []diagnosis.Hint        `json:"hints"`
	Rules    []string                `json:"rules"`
	Summary  Summary                 `json:"summary"`
	Tutor    []diagnosis.Explanation `json:"tutor,omitempty"`

	problem *derivation.Problem
}

// ParsedProblem returns the parsed primary input the report was computed
// for. It is nil on a report decoded from JSON.
func (r *FeedbackReport) ParsedProblem() *derivation.Problem { return r.problem }

// IncorrectSteps returns the Incorrect verdicts in the annotator's form.
func (r *FeedbackReport) IncorrectSteps() []diagnosis.Incorrect {
	var out []diagnosis.Incorrect
	for _, v := range r.Verdicts {
		if v.Kind == Incorrect {
			out = append(out, diagnosis.Incorrect{
				Position: v.Position,
				Label:    v.Label,
				Student:  v.Student,
				Expected: v.Correction,
			})
		}
	}
	return out
}

// HintsAt returns the hints attached to position.
func (r *FeedbackReport) HintsAt(position int) []diagnosis.Hint {
	var out []diagnosis.Hint
	for _, h := range r.Hints {
		if h.Position == position {
			out = append(out, h)
		}
	}
	return out
}
