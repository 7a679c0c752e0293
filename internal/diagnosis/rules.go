package diagnosis

import (
	"sort"

	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

var funcRules = map[string]string{
	symbolic.Sin: RuleSin,
	symbolic.Cos: RuleCos,
	symbolic.Tan: RuleTan,
	symbolic.Sec: RuleSec,
	symbolic.Csc: RuleCsc,
	symbolic.Cot: RuleCot,
	symbolic.Exp: RuleExp,
	symbolic.Log: RuleLn,
}

// RulesInvolved lists, in catalog order, the differentiation rules needed
// to differentiate e with respect to wrt. Symbols in deps vary with wrt.
func RulesInvolved(e symbolic.Expr, wrt string, deps map[string]symbolic.Expr) []string {
	found := make(map[string]bool)
	depends := func(n symbolic.Expr) bool { return symbolic.DependsOn(n, wrt, deps) }
	inner := func(u symbolic.Expr) bool {
		if s, ok := u.(*symbolic.Sym); ok && s.Name() == wrt {
			return false
		}
		return depends(u)
	}

	if !depends(e) {
		found[RuleConstant] = true
	}
	symbolic.Walk(e, func(n symbolic.Expr) bool {
		if !depends(n) {
			return false
		}
		switch v := n.(type) {
		case *symbolic.Sym:
			if _, ok := deps[v.Name()]; ok {
				found[RuleChain] = true
			}
		case *symbolic.Add:
			for _, t := range v.Terms() {
				if !depends(t) {
					found[RuleConstant] = true
				}
			}
		case *symbolic.Mul:
			num, den := 0, 0
			for _, f := range v.Factors() {
				switch {
				case !depends(f):
				case negativePower(f):
					den++
				default:
					num++
				}
			}
			if num >= 2 {
				found[RuleProduct] = true
			}
			if den >= 1 {
				found[RuleQuotient] = true
			}
		case *symbolic.Pow:
			if _, ok := v.Exponent().(*symbolic.Num); ok {
				found[RulePower] = true
				if inner(v.Base()) {
					found[RuleChain] = true
				}
			} else {
				found[RuleExp] = true
				if depends(v.Exponent()) && inner(v.Exponent()) {
					found[RuleChain] = true
				}
			}
		case *symbolic.Func:
			if id, ok := funcRules[v.Name()]; ok {
				found[id] = true
			}
			if inner(v.Arg()) {
				found[RuleChain] = true
			}
		}
		return true
	})

	out := make([]string, 0, len(found))
	for id := range found {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

// ProblemRules lists the rules a whole problem needs, including the
// mode's own rule.
func ProblemRules(p *derivation.Problem) []string {
	var sets [][]string
	switch p.Mode {
	case derivation.Normal:
		sets = append(sets, RulesInvolved(p.F, symbolic.XName, nil))
	case derivation.Implicit:
		sets = append(sets,
			RulesInvolved(p.LHS, symbolic.XName, derivation.YDeps),
			RulesInvolved(p.RHS, symbolic.XName, derivation.YDeps),
			[]string{RuleImplicitDyDx})
	case derivation.Parametric:
		sets = append(sets,
			RulesInvolved(p.X, symbolic.TName, nil),
			RulesInvolved(p.Y, symbolic.TName, nil),
			[]string{RuleParametric})
	}
	return union(sets...)
}

func union(sets ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range sets {
		for _, id := range s {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

func negativePower(e symbolic.Expr) bool {
	p, ok := e.(*symbolic.Pow)
	if !ok {
		return false
	}
	n, ok := p.Exponent().(*symbolic.Num)
	return ok && n.Sign() < 0
}
