package diagnosis

import (
	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

// Hint attaches a catalog rule to one aligned position.
type Hint struct {
	Position int    `json:"position"`
	RuleID   string `json:"rule_id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

// Incorrect is a parsed learner step that did not match its expected step.
type Incorrect struct {
	Position int
	Label    string
	Student  symbolic.Expr
	Expected symbolic.Expr
}

// Context is what a detector sees for one incorrect step.
type Context struct {
	Problem    *derivation.Problem
	Step       Incorrect
	Rules      map[string]bool // rules the problem needs
	Simplifier symbolic.Simplifier

	matched int // rule IDs emitted so far for this step
}

// Mode returns the problem's mode.
func (c *Context) Mode() derivation.Mode { return c.Problem.Mode }

// Var returns the variable of differentiation.
func (c *Context) Var() string {
	if c.Problem.Mode == derivation.Parametric {
		return symbolic.TName
	}
	return symbolic.XName
}

// Deps returns the symbols that vary with Var.
func (c *Context) Deps() map[string]symbolic.Expr {
	if c.Problem.Mode == derivation.Implicit {
		return derivation.YDeps
	}
	return nil
}

// Sources returns the primary expressions the expected step was derived
// from.
func (c *Context) Sources() []symbolic.Expr {
	p := c.Problem
	switch p.Mode {
	case derivation.Normal:
		return []symbolic.Expr{p.F}
	case derivation.Implicit:
		switch c.Step.Label {
		case derivation.LabelDLHS:
			return []symbolic.Expr{p.LHS}
		case derivation.LabelDRHS:
			return []symbolic.Expr{p.RHS}
		}
		return []symbolic.Expr{p.LHS, p.RHS}
	case derivation.Parametric:
		switch c.Step.Label {
		case derivation.LabelDxDt:
			return []symbolic.Expr{p.X}
		case derivation.LabelDyDt:
			return []symbolic.Expr{p.Y}
		}
		return []symbolic.Expr{p.X, p.Y}
	}
	return nil
}

// Source returns the single expression whose derivative is the expected
// step, when there is one.
func (c *Context) Source() (symbolic.Expr, bool) {
	if c.Problem.Mode != derivation.Normal && c.Step.Label == derivation.LabelDyDx {
		return nil, false
	}
	srcs := c.Sources()
	if len(srcs) != 1 {
		return nil, false
	}
	return srcs[0], true
}

// SourceHas reports whether any source applies the named function.
func (c *Context) SourceHas(fn string) bool {
	for _, s := range c.Sources() {
		if symbolic.HasFunc(s, fn) {
			return true
		}
	}
	return false
}

func (c *Context) equivalent(a, b symbolic.Expr) bool {
	return c.Simplifier.Equivalent(a, b)
}
