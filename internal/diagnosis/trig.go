package diagnosis

import "github.com/abhisek/derivacheck/internal/symbolic"

// TrigDetector checks the derivative of each trigonometric function the
// problem uses against what the learner wrote.
type TrigDetector struct{}

func (d *TrigDetector) Name() string { return "trig" }

func (d *TrigDetector) Detect(c *Context) []string {
	stu, exp := c.Step.Student, c.Step.Expected
	var out []string

	// cos differentiates to -sin: a sin with no negative term lost the sign.
	if c.SourceHas(symbolic.Cos) && symbolic.HasFunc(exp, symbolic.Sin) &&
		symbolic.HasFunc(stu, symbolic.Sin) && !hasNegatedFunc(stu, symbolic.Sin) {
		out = append(out, RuleCos, RuleMissingNegative)
	}
	if c.SourceHas(symbolic.Sin) && symbolic.HasFunc(exp, symbolic.Cos) && !symbolic.HasFunc(stu, symbolic.Cos) {
		out = append(out, RuleSin)
	}
	if c.SourceHas(symbolic.Tan) && !hasFuncPower(stu, symbolic.Sec, 2) && !symbolic.HasFunc(stu, symbolic.Cos) {
		out = append(out, RuleTan)
	}
	if c.SourceHas(symbolic.Sec) && !symbolic.HasFunc(stu, symbolic.Tan) && !symbolic.HasFunc(stu, symbolic.Sin) {
		out = append(out, RuleSec)
	}
	// csc' = -csc cot = -cos/sin**2 and cot' = -csc**2 = -1/sin**2.
	if c.SourceHas(symbolic.Csc) && !symbolic.HasFunc(stu, symbolic.Cot) && !symbolic.HasFunc(stu, symbolic.Cos) {
		out = append(out, RuleCsc)
	}
	if c.SourceHas(symbolic.Cot) && !hasFuncPower(stu, symbolic.Csc, 2) && !symbolic.HasFunc(stu, symbolic.Sin) {
		out = append(out, RuleCot)
	}
	return out
}

// ExpLogDetector checks exp and log derivatives.
type ExpLogDetector struct{}

func (d *ExpLogDetector) Name() string { return "exp-log" }

func (d *ExpLogDetector) Detect(c *Context) []string {
	stu, exp := c.Step.Student, c.Step.Expected
	var out []string
	if c.SourceHas(symbolic.Exp) && symbolic.HasFunc(exp, symbolic.Exp) && !symbolic.HasFunc(stu, symbolic.Exp) {
		out = append(out, RuleExp)
	}
	if c.SourceHas(symbolic.Log) && symbolic.HasFunc(stu, symbolic.Log) && !symbolic.HasFunc(exp, symbolic.Log) {
		out = append(out, RuleLn)
	}
	return out
}

func hasNegatedFunc(e symbolic.Expr, fn string) bool {
	for _, t := range summands(e) {
		if negated(t) && symbolic.HasFunc(t, fn) {
			return true
		}
	}
	return false
}

// hasFuncPower reports whether e contains fn(...)**n.
func hasFuncPower(e symbolic.Expr, fn string, n int64) bool {
	found := false
	symbolic.Walk(e, func(node symbolic.Expr) bool {
		p, ok := node.(*symbolic.Pow)
		if !ok {
			return !found
		}
		f, fok := p.Base().(*symbolic.Func)
		k, kok := p.Exponent().(*symbolic.Num)
		if fok && kok && f.Name() == fn && k.IsInt() && k.Rat().Num().Int64() == n {
			found = true
		}
		return !found
	})
	return found
}
