package checker

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/diagnosis"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

// Request is one check: a mode, its primary input and the learner's
// lines in order.
type Request struct {
	Mode     string   `json:"mode"`
	Function string   `json:"function,omitempty"`
	X        string   `json:"x,omitempty"`
	Y        string   `json:"y,omitempty"`
	Steps    []string `json:"steps"`
}

// Validate reports empty required fields for the request's mode. An
// unknown mode is left to Check.
func (r *Request) Validate() error {
	var missing []string
	mode, _ := derivation.ParseMode(r.Mode)
	switch mode {
	case derivation.Parametric:
		if isBlank(r.X) {
			missing = append(missing, "x")
		}
		if isBlank(r.Y) {
			missing = append(missing, "y")
		}
	default:
		if isBlank(r.Function) {
			missing = append(missing, "function")
		}
	}
	if !slices.ContainsFunc(r.Steps, func(s string) bool { return !isBlank(s) }) {
		missing = append(missing, "steps")
	}
	if len(missing) > 0 {
		return &EmptyInputError{Fields: missing}
	}
	return nil
}

// Options tunes the engine.
type Options struct {
	// MaxTerms bounds the size of intermediate canonical forms. Zero uses
	// the simplifier's default.
	MaxTerms int
}

// DefaultOptions returns the default engine options.
func DefaultOptions() Options {
	return Options{MaxTerms: symbolic.DefaultMaxTerms}
}

// Engine checks requests. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	simp      symbolic.Simplifier
	oracle    derivation.Oracle
	annotator *diagnosis.Annotator
}

// New returns an engine with the given options.
func New(opts Options) *Engine {
	simp := symbolic.Simplifier{MaxTerms: opts.MaxTerms}
	return &Engine{
		simp:      simp,
		oracle:    derivation.Oracle{Simplifier: simp},
		annotator: diagnosis.NewAnnotator(simp),
	}
}

// Check validates req, computes the expected sequence, aligns the
// learner's lines against it and annotates the incorrect ones. Errors in
// the primary input abort the check; a bad learner line only makes its
// own verdict Unparseable.
func (e *Engine) Check(req Request) (*FeedbackReport, error) {
	mode, err := derivation.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := derivation.Parse(mode, derivation.Input{Function: req.Function, X: req.X, Y: req.Y})
	if err != nil {
		return nil, fmt.Errorf("primary input: %w", err)
	}
	expected, err := e.oracle.Steps(p)
	if err != nil {
		return nil, err
	}

	steps := SplitSteps(strings.Join(req.Steps, "\n"))
	verdicts := e.Align(steps, expected)

	r := &FeedbackReport{
		ID:       uuid.NewString(),
		Mode:     mode,
		Problem:  p.String(),
		Expected: expected,
		Verdicts: verdicts,
		Rules:    diagnosis.ProblemRules(p),
		Summary:  Summarize(verdicts),
		problem:  p,
	}
	r.Hints = e.annotator.Annotate(p, r.IncorrectSteps())
	return r, nil
}

// Check runs req through an engine with default options.
func Check(req Request) (*FeedbackReport, error) {
	return New(DefaultOptions()).Check(req)
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
