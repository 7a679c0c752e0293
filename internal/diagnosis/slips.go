package diagnosis

import (
	"math/big"

	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

// slip is a systematic differentiation mistake.
type slip int

const (
	slipChain    slip = iota // inner derivative dropped
	slipProduct              // (uv)' taken as u'v'
	slipQuotient             // (u/v)' taken as u'/v'
	slipPower                // (u**n)' taken as n*u**n
)

// SlipDetector differentiates the source the way a learner making each
// common slip would, and reports the slip whose result the learner's
// step matches.
type SlipDetector struct{}

func (d *SlipDetector) Name() string { return "slip" }

func (d *SlipDetector) Detect(c *Context) []string {
	src, ok := c.Source()
	if !ok {
		return nil
	}

	chainIDs := []string{RuleChain, RuleForgotChain}
	if c.Mode() == derivation.Parametric {
		chainIDs = []string{RuleParametricMissingChain, RuleChain}
	}
	checks := []struct {
		s    slip
		need string
		ids  []string
	}{
		{slipChain, RuleChain, chainIDs},
		{slipProduct, RuleProduct, []string{RuleProduct, RuleForgotProduct}},
		{slipQuotient, RuleQuotient, []string{RuleQuotient, RuleForgotQuotient}},
		{slipPower, RulePower, []string{RulePower}},
	}

	var out []string
	for _, chk := range checks {
		if !c.Rules[chk.need] {
			continue
		}
		wrong := slipDiff(src, c.Var(), c.Deps(), chk.s)
		if c.equivalent(c.Step.Student, wrong) && !c.equivalent(wrong, c.Step.Expected) {
			out = append(out, chk.ids...)
		}
	}
	return out
}

// slipDiff differentiates e with respect to wrt, applying the slip s
// wherever it can occur.
func slipDiff(e symbolic.Expr, wrt string, deps map[string]symbolic.Expr, s slip) symbolic.Expr {
	depends := func(u symbolic.Expr) bool { return symbolic.DependsOn(u, wrt, deps) }
	d := func(u symbolic.Expr) symbolic.Expr { return slipDiff(u, wrt, deps, s) }
	if !depends(e) {
		return symbolic.Int(0)
	}

	switch v := e.(type) {
	case *symbolic.Add:
		terms := v.Terms()
		ds := make([]symbolic.Expr, len(terms))
		for i, t := range terms {
			ds[i] = d(t)
		}
		return symbolic.Sum(ds...)

	case *symbolic.Mul:
		fs := v.Factors()
		var consts, num, den []symbolic.Expr
		for _, f := range fs {
			switch {
			case !depends(f):
				consts = append(consts, f)
			case negativePower(f):
				p := f.(*symbolic.Pow)
				den = append(den, symbolic.Power(p.Base(), symbolic.Neg(p.Exponent())))
			default:
				num = append(num, f)
			}
		}
		if s == slipProduct && len(num) >= 2 && len(den) == 0 {
			parts := append([]symbolic.Expr(nil), consts...)
			for _, f := range num {
				parts = append(parts, d(f))
			}
			return symbolic.Product(parts...)
		}
		if s == slipQuotient && len(num) >= 1 && len(den) >= 1 {
			u, w := symbolic.Product(num...), symbolic.Product(den...)
			return symbolic.Product(append(consts, symbolic.Quo(d(u), d(w)))...)
		}
		terms := make([]symbolic.Expr, 0, len(fs))
		for i := range fs {
			df := d(fs[i])
			if symbolic.IsZero(df) {
				continue
			}
			cp := append([]symbolic.Expr(nil), fs...)
			cp[i] = df
			terms = append(terms, symbolic.Product(cp...))
		}
		return symbolic.Sum(terms...)

	case *symbolic.Pow:
		n, ok := v.Exponent().(*symbolic.Num)
		if !ok {
			return symbolic.Diff(e, wrt, deps)
		}
		inner := d(v.Base())
		if s == slipChain {
			inner = symbolic.Int(1)
		}
		if s == slipPower {
			return symbolic.Product(n, v, inner)
		}
		return symbolic.Product(n, symbolic.Power(v.Base(), symbolic.Sum(n, symbolic.Int(-1))), inner)

	case *symbolic.Func:
		du := d(v.Arg())
		if s == slipChain {
			du = symbolic.Int(1)
		}
		return symbolic.Product(outer(v.Name(), v.Arg()), du)
	}
	return symbolic.Diff(e, wrt, deps)
}

// outer is the derivative of the named function evaluated at u.
func outer(name string, u symbolic.Expr) symbolic.Expr {
	switch name {
	case symbolic.Sin:
		return symbolic.Call(symbolic.Cos, u)
	case symbolic.Cos:
		return symbolic.Neg(symbolic.Call(symbolic.Sin, u))
	case symbolic.Tan:
		return symbolic.Power(symbolic.Call(symbolic.Sec, u), symbolic.Int(2))
	case symbolic.Sec:
		return symbolic.Product(symbolic.Call(symbolic.Sec, u), symbolic.Call(symbolic.Tan, u))
	case symbolic.Csc:
		return symbolic.Neg(symbolic.Product(symbolic.Call(symbolic.Csc, u), symbolic.Call(symbolic.Cot, u)))
	case symbolic.Cot:
		return symbolic.Neg(symbolic.Power(symbolic.Call(symbolic.Csc, u), symbolic.Int(2)))
	case symbolic.Log:
		return symbolic.Power(u, symbolic.Int(-1))
	case symbolic.Exp:
		return symbolic.Call(symbolic.Exp, u)
	}
	return symbolic.Int(0)
}

// BareCompositeDetector flags a power of a compound base, or a function of
// a compound argument, that stands in the learner's step with no factor
// beyond the outer derivative's own coefficient.
type BareCompositeDetector struct{}

func (d *BareCompositeDetector) Name() string { return "bare-composite" }

func (d *BareCompositeDetector) Detect(c *Context) []string {
	if !c.Rules[RuleChain] || c.matched > 0 {
		return nil
	}
	wrt, deps := c.Var(), c.Deps()
	for _, t := range summands(c.Step.Student) {
		var coeff *symbolic.Num
		var composite symbolic.Expr
		bare := true
		for _, f := range factors(t) {
			switch v := f.(type) {
			case *symbolic.Num:
				coeff = v
			case *symbolic.Pow, *symbolic.Func:
				if composite == nil && compound(v, wrt, deps) {
					composite = v
					continue
				}
				bare = false
			default:
				bare = false
			}
		}
		if composite == nil || !bare {
			continue
		}
		if coeff == nil {
			return []string{RuleChain}
		}
		if k := coeff.Rat(); k.Abs(k).Cmp(powerCoefficient(composite)) == 0 {
			return []string{RuleChain}
		}
	}
	return nil
}

// compound reports whether e is a power with a non-trivial base or a
// function of a non-trivial argument.
func compound(e symbolic.Expr, wrt string, deps map[string]symbolic.Expr) bool {
	var inner symbolic.Expr
	switch v := e.(type) {
	case *symbolic.Pow:
		if _, ok := v.Exponent().(*symbolic.Num); !ok {
			return false
		}
		inner = v.Base()
	case *symbolic.Func:
		inner = v.Arg()
	default:
		return false
	}
	if s, ok := inner.(*symbolic.Sym); ok && s.Name() == wrt {
		return false
	}
	_, isAdd := inner.(*symbolic.Add)
	_, isMul := inner.(*symbolic.Mul)
	return (isAdd || isMul) && symbolic.DependsOn(inner, wrt, deps)
}

// powerCoefficient is the coefficient the power rule alone puts in front
// of u**m, namely m+1, or 1 for a function application.
func powerCoefficient(e symbolic.Expr) *big.Rat {
	if p, ok := e.(*symbolic.Pow); ok {
		m := p.Exponent().(*symbolic.Num).Rat()
		m.Add(m, big.NewRat(1, 1))
		return m.Abs(m)
	}
	return big.NewRat(1, 1)
}

// ConstantDetector flags a step that differs from the expected one by a
// non-zero constant, typically a constant term left undifferentiated.
type ConstantDetector struct{}

func (d *ConstantDetector) Name() string { return "constant" }

func (d *ConstantDetector) Detect(c *Context) []string {
	diff, err := c.Simplifier.Simplify(symbolic.Sub(c.Step.Student, c.Step.Expected))
	if err != nil {
		return nil
	}
	if n, ok := diff.(*symbolic.Num); ok && n.Sign() != 0 {
		return []string{RuleConstant}
	}
	return nil
}

// PowerFallbackDetector points at the power rule when nothing more
// specific matched and the problem needs it.
type PowerFallbackDetector struct{}

func (d *PowerFallbackDetector) Name() string { return "power-fallback" }

func (d *PowerFallbackDetector) Detect(c *Context) []string {
	if c.matched > 0 || !c.Rules[RulePower] {
		return nil
	}
	return []string{RulePower}
}
