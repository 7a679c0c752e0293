// Package derivation computes the reference derivation a learner's working
// is checked against.
package derivation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/derivacheck/internal/normalizer"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

// Mode selects the problem family and its derivation recipe.
type Mode string

const (
	Normal     Mode = "normal"
	Implicit   Mode = "implicit"
	Parametric Mode = "parametric"
)

// Modes lists every supported mode.
var Modes = []Mode{Normal, Implicit, Parametric}

// ErrUnknownMode is returned by ParseMode for an unrecognized name.
var ErrUnknownMode = errors.New("unknown differentiation mode")

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Step labels.
const (
	LabelDerivative = "derivative"
	LabelDLHS       = "d/dx lhs"
	LabelDRHS       = "d/dx rhs"
	LabelDyDx       = "dy/dx"
	LabelDxDt       = "dx/dt"
	LabelDyDt       = "dy/dt"
)

// Step is one expected line of working.
type Step struct {
	Label string        `json:"label"`
	Expr  symbolic.Expr `json:"expr"`
}

// Input is the primary input of a problem. Normal and Implicit use
// Function (an equation for Implicit); Parametric uses X and Y, both in t.
type Input struct {
	Function string `json:"function,omitempty"`
	X        string `json:"x,omitempty"`
	Y        string `json:"y,omitempty"`
}

// UndefinedDerivativeError reports a parametric curve whose dx/dt is
// identically zero.
type UndefinedDerivativeError struct {
	X string
}

func (e *UndefinedDerivativeError) Error() string {
	return fmt.Sprintf("dy/dx is undefined: dx/dt of x(t) = %s is identically zero", e.X)
}

// UnsolvableError reports an implicit equation whose differentiated form
// cannot be solved for dy/dx.
type UnsolvableError struct {
	Equation string
	Reason   string
	Err      error
}

func (e *UnsolvableError) Error() string {
	return fmt.Sprintf("cannot solve %q for dy/dx: %s", e.Equation, e.Reason)
}

func (e *UnsolvableError) Unwrap() error { return e.Err }

// Problem is a parsed primary input.
type Problem struct {
	Mode  Mode
	Input Input

	F        symbolic.Expr // Normal
	LHS, RHS symbolic.Expr // Implicit
	X, Y     symbolic.Expr // Parametric
}

// String renders the parsed problem in canonical form.
func (p *Problem) String() string {
	switch p.Mode {
	case Normal:
		return "f(x) = " + p.F.String()
	case Implicit:
		return p.LHS.String() + " = " + p.RHS.String()
	case Parametric:
		return "x(t) = " + p.X.String() + ", y(t) = " + p.Y.String()
	}
	return string(p.Mode)
}

// YDeps makes y a function of x with derivative dy_dx.
var YDeps = map[string]symbolic.Expr{symbolic.YName: symbolic.DyDxS}

var (
	explicitPrefix = regexp.MustCompile(`^\s*(?:y|f\s*\(\s*x\s*\))\s*=`)
	xPrefix        = regexp.MustCompile(`^\s*x\s*(?:\(\s*t\s*\))?\s*=`)
	yPrefix        = regexp.MustCompile(`^\s*y\s*(?:\(\s*t\s*\))?\s*=`)
)

// Parse parses the primary input for mode.
func Parse(mode Mode, in Input) (*Problem, error) {
	p := &Problem{Mode: mode, Input: in}
	switch mode {
	case Normal:
		res, err := normalizer.Normalize(explicitPrefix.ReplaceAllString(in.Function, ""))
		if err != nil {
			return nil, err
		}
		if res.IsEquation() {
			return nil, &normalizer.EquationFormatError{
				Raw:   in.Function,
				Count: strings.Count(in.Function, "="),
				Want:  "an expression in x, optionally written as y = f(x)",
			}
		}
		p.F = res.Expr

	case Implicit:
		lhs, rhs, err := normalizer.Equation(in.Function)
		if err != nil {
			return nil, err
		}
		p.LHS, p.RHS = lhs, rhs

	case Parametric:
		x, err := normalizer.Expression(xPrefix.ReplaceAllString(in.X, ""))
		if err != nil {
			return nil, fmt.Errorf("x(t): %w", err)
		}
		y, err := normalizer.Expression(yPrefix.ReplaceAllString(in.Y, ""))
		if err != nil {
			return nil, fmt.Errorf("y(t): %w", err)
		}
		p.X, p.Y = x, y

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return p, nil
}

// Oracle differentiates problems into expected step sequences.
// The zero value uses the default simplification budget.
type Oracle struct {
	Simplifier symbolic.Simplifier
}

// Expected parses in and returns its expected step sequence.
func (o Oracle) Expected(mode Mode, in Input) ([]Step, error) {
	p, err := Parse(mode, in)
	if err != nil {
		return nil, err
	}
	return o.Steps(p)
}

// Steps returns the expected step sequence of a parsed problem. The
// sequence is never empty when err is nil.
func (o Oracle) Steps(p *Problem) ([]Step, error) {
	switch p.Mode {
	case Normal:
		return o.normal(p)
	case Implicit:
		return o.implicit(p)
	case Parametric:
		return o.parametric(p)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, p.Mode)
}

func (o Oracle) normal(p *Problem) ([]Step, error) {
	d, err := o.Simplifier.Simplify(symbolic.Diff(p.F, symbolic.XName, nil))
	if err != nil {
		return nil, fmt.Errorf("simplify derivative: %w", err)
	}
	return []Step{{Label: LabelDerivative, Expr: d}}, nil
}

func (o Oracle) implicit(p *Problem) ([]Step, error) {
	if symbolic.Contains(p.LHS, symbolic.DyDx) || symbolic.Contains(p.RHS, symbolic.DyDx) {
		return nil, &UnsolvableError{Equation: p.Input.Function, Reason: "the equation already contains dy/dx"}
	}

	dl, err := o.Simplifier.Simplify(symbolic.Diff(p.LHS, symbolic.XName, YDeps))
	if err != nil {
		return nil, fmt.Errorf("simplify d/dx lhs: %w", err)
	}
	dr, err := o.Simplifier.Simplify(symbolic.Diff(p.RHS, symbolic.XName, YDeps))
	if err != nil {
		return nil, fmt.Errorf("simplify d/dx rhs: %w", err)
	}

	sol, err := o.Simplifier.SolveLinear(symbolic.Sub(dl, dr), symbolic.DyDx)
	switch {
	case errors.Is(err, symbolic.ErrNoSolution):
		return nil, &UnsolvableError{Equation: p.Input.Function, Reason: "the coefficient of dy/dx vanishes", Err: err}
	case errors.Is(err, symbolic.ErrNotLinear):
		return nil, &UnsolvableError{Equation: p.Input.Function, Reason: "dy/dx does not enter linearly", Err: err}
	case err != nil:
		return nil, fmt.Errorf("solve for dy/dx: %w", err)
	}

	return []Step{
		{Label: LabelDLHS, Expr: dl},
		{Label: LabelDRHS, Expr: dr},
		{Label: LabelDyDx, Expr: sol},
	}, nil
}

func (o Oracle) parametric(p *Problem) ([]Step, error) {
	dx, err := o.Simplifier.Simplify(symbolic.Diff(p.X, symbolic.TName, nil))
	if err != nil {
		return nil, fmt.Errorf("simplify dx/dt: %w", err)
	}
	if symbolic.IsZero(dx) {
		return nil, &UndefinedDerivativeError{X: p.X.String()}
	}
	dy, err := o.Simplifier.Simplify(symbolic.Diff(p.Y, symbolic.TName, nil))
	if err != nil {
		return nil, fmt.Errorf("simplify dy/dt: %w", err)
	}
	dydx, err := o.Simplifier.Simplify(symbolic.Quo(dy, dx))
	if err != nil {
		return nil, fmt.Errorf("simplify dy/dx: %w", err)
	}
	return []Step{
		{Label: LabelDxDt, Expr: dx},
		{Label: LabelDyDt, Expr: dy},
		{Label: LabelDyDx, Expr: dydx},
	}, nil
}

// Expected computes the expected step sequence with the default budget.
func Expected(mode Mode, in Input) ([]Step, error) {
	return Oracle{}.Expected(mode, in)
}
