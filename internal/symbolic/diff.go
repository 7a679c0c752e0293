package symbolic

// Diff differentiates e with respect to the symbol wrt. Symbols listed in
// deps are treated as functions of wrt whose derivative is the mapped
// expression; implicit differentiation passes {"y": dy_dx}. All other
// symbols are constants. The result is lightly simplified only.
func Diff(e Expr, wrt string, deps map[string]Expr) Expr {
	switch v := e.(type) {
	case *Num:
		return Int(0)

	case *Sym:
		if v.name == wrt {
			return Int(1)
		}
		if d, ok := deps[v.name]; ok {
			return d
		}
		return Int(0)

	case *Add:
		ds := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			ds[i] = Diff(t, wrt, deps)
		}
		return Sum(ds...)

	case *Mul:
		// Product rule: sum over each factor differentiated in turn.
		terms := make([]Expr, 0, len(v.factors))
		for i := range v.factors {
			d := Diff(v.factors[i], wrt, deps)
			if IsZero(d) {
				continue
			}
			fs := append([]Expr(nil), v.factors...)
			fs[i] = d
			terms = append(terms, Product(fs...))
		}
		return Sum(terms...)

	case *Pow:
		du := Diff(v.base, wrt, deps)
		dv := Diff(v.exp, wrt, deps)
		switch {
		case IsZero(dv):
			return Product(v.exp, Power(v.base, Sum(v.exp, Int(-1))), du)
		case IsZero(du):
			return Product(v, Call(Log, v.base), dv)
		}
		// d(u**v) = u**v * (v' log u + v u'/u)
		return Product(v, Sum(
			Product(dv, Call(Log, v.base)),
			Product(v.exp, du, Power(v.base, Int(-1))),
		))

	case *Func:
		du := Diff(v.arg, wrt, deps)
		if IsZero(du) {
			return Int(0)
		}
		u := v.arg
		switch v.name {
		case Sin:
			return Product(Call(Cos, u), du)
		case Cos:
			return Product(Int(-1), Call(Sin, u), du)
		case Tan:
			return Product(Power(Call(Sec, u), Int(2)), du)
		case Sec:
			return Product(Call(Sec, u), Call(Tan, u), du)
		case Csc:
			return Product(Int(-1), Call(Csc, u), Call(Cot, u), du)
		case Cot:
			return Product(Int(-1), Power(Call(Csc, u), Int(2)), du)
		case Log:
			return Product(du, Power(u, Int(-1)))
		case Exp:
			return Product(v, du)
		}
	}
	return Int(0)
}

// DependsOn reports whether e varies with wrt, either directly or through
// one of the dependent symbols in deps.
func DependsOn(e Expr, wrt string, deps map[string]Expr) bool {
	if Contains(e, wrt) {
		return true
	}
	for name := range deps {
		if Contains(e, name) {
			return true
		}
	}
	return false
}
