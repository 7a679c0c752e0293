// Package normalizer turns learner-typed text into canonical symbolic
// expressions.
//
// Input may use calculator glyphs (superscript digits, −, ×, ÷, π, √), the
// caret for powers, ln for the natural logarithm, dy/dx for the derivative
// of y, and implicit multiplication ("2x", "3(x+1)", "x sin x"). Only the
// symbols x, y, t, dy_dx and the constants pi and e are recognized.
package normalizer

import (
	"fmt"
	"strings"

	"github.com/abhisek/derivacheck/internal/symbolic"
)

// ParseError reports text that could not be tokenized, parsed or bound to
// the supported symbols.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Raw, e.Reason)
}

// EquationFormatError reports a primary input whose '=' signs do not fit
// the shape the mode requires.
type EquationFormatError struct {
	Raw   string
	Count int
	// Want describes the accepted shape. Empty means an equation with
	// exactly one '='.
	Want string
}

func (e *EquationFormatError) Error() string {
	want := e.Want
	if want == "" {
		want = "an equation with exactly one '='"
	}
	return fmt.Sprintf("%q: expected %s, found %d '='", e.Raw, want, e.Count)
}

// Result is a normalized line of input. For an equation, LHS and RHS hold
// the two sides and Expr holds LHS - RHS.
type Result struct {
	Expr symbolic.Expr
	LHS  symbolic.Expr
	RHS  symbolic.Expr
}

// IsEquation reports whether the input contained an '='.
func (r Result) IsEquation() bool { return r.LHS != nil }

// Normalize parses raw into a canonical expression. A single '=' yields an
// equation whose Expr is lhs - rhs; more than one is a ParseError.
func Normalize(raw string) (Result, error) {
	text := rewrite(raw)
	if strings.TrimSpace(text) == "" {
		return Result{}, &ParseError{Raw: raw, Reason: "empty expression"}
	}

	parts := strings.Split(text, "=")
	switch len(parts) {
	case 1:
		e, err := parse(raw, parts[0])
		if err != nil {
			return Result{}, err
		}
		return Result{Expr: e}, nil
	case 2:
		lhs, err := parse(raw, parts[0])
		if err != nil {
			return Result{}, err
		}
		rhs, err := parse(raw, parts[1])
		if err != nil {
			return Result{}, err
		}
		return Result{Expr: symbolic.Sub(lhs, rhs), LHS: lhs, RHS: rhs}, nil
	}
	return Result{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("found %d '=' signs, at most one is allowed", len(parts)-1)}
}

// Expression parses raw, which must not be an equation.
func Expression(raw string) (symbolic.Expr, error) {
	res, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	if res.IsEquation() {
		return nil, &ParseError{Raw: raw, Reason: "expected an expression, found an equation"}
	}
	return res.Expr, nil
}

// Equation parses raw as lhs = rhs.
func Equation(raw string) (lhs, rhs symbolic.Expr, err error) {
	if n := strings.Count(rewrite(raw), "="); n != 1 {
		return nil, nil, &EquationFormatError{Raw: raw, Count: n}
	}
	res, err := Normalize(raw)
	if err != nil {
		return nil, nil, err
	}
	return res.LHS, res.RHS, nil
}

// Canonical returns the canonical text of raw.
func Canonical(raw string) (string, error) {
	res, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	if res.IsEquation() {
		return res.LHS.String() + " = " + res.RHS.String(), nil
	}
	return res.Expr.String(), nil
}
