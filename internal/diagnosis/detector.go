package diagnosis

import (
	"sort"

	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

// Detector recognizes a rule violation in an incorrect step by inspecting
// the learner's expression tree. It returns catalog rule IDs, or nil.
type Detector interface {
	Name() string
	Detect(c *Context) []string
}

// DefaultDetectors returns detectors in priority order. Mode-specific
// detectors come first since a missing dy/dx explains more than any
// generic slip; the power rule fallback runs last.
func DefaultDetectors() []Detector {
	return []Detector{
		&ImplicitDetector{},
		&ParametricDetector{},
		&TrigDetector{},
		&ExpLogDetector{},
		&SlipDetector{},
		&BareCompositeDetector{},
		&ConstantDetector{},
		&PowerFallbackDetector{},
	}
}

// Annotator runs detectors over incorrect steps.
type Annotator struct {
	Detectors  []Detector
	Simplifier symbolic.Simplifier
}

// NewAnnotator returns an Annotator with the default detectors.
func NewAnnotator(s symbolic.Simplifier) *Annotator {
	return &Annotator{Detectors: DefaultDetectors(), Simplifier: s}
}

// Annotate returns hints ordered by position, then detector priority.
// Each rule appears at most once per position. Zero hints is a valid
// result.
func (a *Annotator) Annotate(p *derivation.Problem, steps []Incorrect) []Hint {
	if len(steps) == 0 {
		return nil
	}
	rules := make(map[string]bool)
	for _, id := range ProblemRules(p) {
		rules[id] = true
	}

	sorted := append([]Incorrect(nil), steps...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	var hints []Hint
	for _, step := range sorted {
		if step.Student == nil || step.Expected == nil {
			continue
		}
		c := &Context{Problem: p, Step: step, Rules: rules, Simplifier: a.Simplifier}
		seen := make(map[string]bool)
		for _, d := range a.Detectors {
			for _, id := range d.Detect(c) {
				r := GetRule(id)
				if r == nil || seen[id] {
					continue
				}
				seen[id] = true
				c.matched++
				hints = append(hints, Hint{Position: step.Position, RuleID: r.ID, Title: r.Title, Text: r.Text})
			}
		}
	}
	return hints
}

// Annotate runs the default detectors with the default budget.
func Annotate(p *derivation.Problem, steps []Incorrect) []Hint {
	return NewAnnotator(symbolic.Simplifier{}).Annotate(p, steps)
}
