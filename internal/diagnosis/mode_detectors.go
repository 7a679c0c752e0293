package diagnosis

import (
	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

// ImplicitDetector flags implicit steps that drop dy/dx from y terms.
type ImplicitDetector struct{}

func (d *ImplicitDetector) Name() string { return "implicit" }

func (d *ImplicitDetector) Detect(c *Context) []string {
	if c.Mode() != derivation.Implicit {
		return nil
	}
	want := termsWith(c.Step.Expected, symbolic.DyDx)
	if want == 0 {
		return nil
	}
	switch got := termsWith(c.Step.Student, symbolic.DyDx); {
	case got == 0:
		return []string{RuleImplicitDyDx}
	case got < want:
		return []string{RuleImplicitMissingChain}
	}
	return nil
}

// ParametricDetector flags a parametric dy/dx that is not the quotient
// dy/dt over dx/dt: inverted, or one of the two rates on its own.
type ParametricDetector struct{}

func (d *ParametricDetector) Name() string { return "parametric" }

func (d *ParametricDetector) Detect(c *Context) []string {
	p := c.Problem
	if p.Mode != derivation.Parametric || c.Step.Label != derivation.LabelDyDx {
		return nil
	}
	dx := symbolic.Diff(p.X, symbolic.TName, nil)
	dy := symbolic.Diff(p.Y, symbolic.TName, nil)
	for _, wrong := range []symbolic.Expr{
		symbolic.Quo(dx, dy),
		dy,
		dx,
		symbolic.Product(dx, dy),
	} {
		if c.equivalent(c.Step.Student, wrong) {
			return []string{RuleParametric}
		}
	}
	return nil
}

// termsWith counts the summands of e that contain the symbol name.
func termsWith(e symbolic.Expr, name string) int {
	n := 0
	for _, t := range summands(e) {
		if symbolic.Contains(t, name) {
			n++
		}
	}
	return n
}

func summands(e symbolic.Expr) []symbolic.Expr {
	if a, ok := e.(*symbolic.Add); ok {
		return a.Terms()
	}
	return []symbolic.Expr{e}
}

func factors(e symbolic.Expr) []symbolic.Expr {
	if m, ok := e.(*symbolic.Mul); ok {
		return m.Factors()
	}
	return []symbolic.Expr{e}
}

// negated reports whether the summand t carries a negative coefficient.
func negated(t symbolic.Expr) bool {
	if n, ok := factors(t)[0].(*symbolic.Num); ok {
		return n.Sign() < 0
	}
	return false
}
