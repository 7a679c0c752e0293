package symbolic

import (
	"math"
	"math/big"
	"sort"
)

// maxFoldExp bounds the integer exponents folded into exact constants.
const maxFoldExp = 4096

var ratOne = big.NewRat(1, 1)

// Sum returns the simplified sum of terms. Nested sums are flattened,
// constants folded, like terms combined and the result ordered by
// descending degree with the constant last.
func Sum(terms ...Expr) Expr {
	type group struct {
		coeff *big.Rat
		rest  Expr
	}

	var flat []Expr
	for _, t := range terms {
		if a, ok := t.(*Add); ok {
			flat = append(flat, a.terms...)
		} else {
			flat = append(flat, t)
		}
	}

	constant := new(big.Rat)
	groups := make(map[string]*group)
	var order []string
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			constant.Add(constant, n.v)
			continue
		}
		c, rest := splitCoeff(t)
		k := rest.String()
		g, ok := groups[k]
		if !ok {
			g = &group{coeff: new(big.Rat), rest: rest}
			groups[k] = g
			order = append(order, k)
		}
		g.coeff.Add(g.coeff, c)
	}

	var out []Expr
	for _, k := range order {
		g := groups[k]
		if g.coeff.Sign() == 0 {
			continue
		}
		out = append(out, withCoeff(g.coeff, g.rest))
	}
	if constant.Sign() != 0 {
		out = append(out, &Num{v: constant})
	}

	switch len(out) {
	case 0:
		return Int(0)
	case 1:
		return out[0]
	}
	sort.SliceStable(out, func(i, j int) bool { return termLess(out[i], out[j]) })
	return &Add{terms: out}
}

// Product returns the simplified product of factors. Numeric factors are
// folded into a leading coefficient and powers of a common base are merged.
func Product(factors ...Expr) Expr {
	type group struct {
		base Expr
		exps []Expr
	}

	var flat []Expr
	for _, f := range factors {
		if m, ok := f.(*Mul); ok {
			flat = append(flat, m.factors...)
		} else {
			flat = append(flat, f)
		}
	}

	coeff := big.NewRat(1, 1)
	groups := make(map[string]*group)
	var order []string
	for _, f := range flat {
		if n, ok := f.(*Num); ok {
			coeff.Mul(coeff, n.v)
			continue
		}
		b, e := splitPow(f)
		k := b.String()
		g, ok := groups[k]
		if !ok {
			g = &group{base: b}
			groups[k] = g
			order = append(order, k)
		}
		g.exps = append(g.exps, e)
	}
	if coeff.Sign() == 0 {
		return Int(0)
	}

	var out []Expr
	regroup := false
	for _, k := range order {
		g := groups[k]
		p := Power(g.base, Sum(g.exps...))
		switch v := p.(type) {
		case *Num:
			coeff.Mul(coeff, v.v)
		case *Mul:
			out = append(out, v.factors...)
			regroup = true
		default:
			out = append(out, p)
		}
	}
	if regroup {
		return Product(append(out, &Num{v: coeff})...)
	}
	if coeff.Sign() == 0 {
		return Int(0)
	}
	if len(out) == 0 {
		return &Num{v: coeff}
	}

	sort.SliceStable(out, func(i, j int) bool { return factorLess(out[i], out[j]) })
	if coeff.Cmp(ratOne) == 0 {
		if len(out) == 1 {
			return out[0]
		}
		return &Mul{factors: out}
	}
	return &Mul{factors: append([]Expr{&Num{v: coeff}}, out...)}
}

// Power returns base**exp with constant folding and exponent merging.
// (a**m)**n becomes a**(m*n) only where that holds for negative a too, so
// sqrt(x**2) is kept as written.
func Power(base, exp Expr) Expr {
	e, eNum := exp.(*Num)
	if eNum {
		if e.v.Sign() == 0 {
			return Int(1)
		}
		if isOne(e) {
			return base
		}
	}
	if s, ok := base.(*Sym); ok && s.name == EName {
		return Call(Exp, exp)
	}

	switch b := base.(type) {
	case *Num:
		if isOne(b) {
			return Int(1)
		}
		if eNum {
			if b.v.Sign() == 0 && e.v.Sign() > 0 {
				return Int(0)
			}
			if r, ok := ratPow(b.v, e.v); ok {
				return &Num{v: r}
			}
		}
	case *Pow:
		m, inner := b.exp.(*Num)
		if eNum && (e.v.IsInt() || (inner && powMerges(m.v, e.v))) {
			return Power(b.base, Product(b.exp, exp))
		}
	case *Mul:
		if eNum && e.v.IsInt() {
			fs := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				fs[i] = Power(f, exp)
			}
			return Product(fs...)
		}
	case *Func:
		if b.name == Exp && eNum {
			return Call(Exp, Product(b.arg, exp))
		}
	}
	return &Pow{base: base, exp: exp}
}

// Call applies the named function. "ln" is accepted as an alias of log and
// sqrt becomes a power of one half.
func Call(name string, arg Expr) Expr {
	switch name {
	case "ln":
		name = Log
	case Sqrt:
		return Power(arg, Frac(1, 2))
	}

	if IsZero(arg) {
		switch name {
		case Sin, Tan:
			return Int(0)
		case Cos, Sec, Exp:
			return Int(1)
		}
	}
	if name == Log {
		if isOne(arg) {
			return Int(0)
		}
		if s, ok := arg.(*Sym); ok && s.name == EName {
			return Int(1)
		}
	}
	if f, ok := arg.(*Func); ok {
		if name == Exp && f.name == Log {
			return f.arg
		}
		if name == Log && f.name == Exp {
			return f.arg
		}
	}
	return &Func{name: name, arg: arg}
}

// Neg returns -e.
func Neg(e Expr) Expr { return Product(Int(-1), e) }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return Sum(a, Neg(b)) }

// Quo returns a / b.
func Quo(a, b Expr) Expr { return Product(a, Power(b, Int(-1))) }

// powMerges reports whether (u**m)**n = u**(m*n) for every real u where
// the left side is defined. Odd roots are real roots.
func powMerges(m, n *big.Rat) bool {
	if n.IsInt() || n.Denom().Bit(0) == 1 || m.Num().Bit(0) == 1 {
		return true
	}
	mn := new(big.Rat).Mul(m, n)
	return mn.Num().Bit(0) == 0 && mn.Denom().Bit(0) == 1
}

func splitCoeff(e Expr) (*big.Rat, Expr) {
	if m, ok := e.(*Mul); ok {
		if n, ok := m.factors[0].(*Num); ok {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return n.v, rest[0]
			}
			return n.v, &Mul{factors: rest}
		}
	}
	return ratOne, e
}

func withCoeff(c *big.Rat, rest Expr) Expr {
	if c.Cmp(ratOne) == 0 {
		return rest
	}
	n := &Num{v: new(big.Rat).Set(c)}
	if m, ok := rest.(*Mul); ok {
		return &Mul{factors: append([]Expr{n}, m.factors...)}
	}
	return &Mul{factors: []Expr{n, rest}}
}

func splitPow(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, Int(1)
}

func ratPow(b, e *big.Rat) (*big.Rat, bool) {
	if e.IsInt() {
		n := e.Num()
		if !n.IsInt64() || n.Int64() > maxFoldExp || n.Int64() < -maxFoldExp {
			return nil, false
		}
		k := n.Int64()
		if k < 0 {
			if b.Sign() == 0 {
				return nil, false
			}
			b = new(big.Rat).Inv(b)
			k = -k
		}
		num := new(big.Int).Exp(b.Num(), big.NewInt(k), nil)
		den := new(big.Int).Exp(b.Denom(), big.NewInt(k), nil)
		return new(big.Rat).SetFrac(num, den), true
	}
	if b.Sign() <= 0 {
		return nil, false
	}
	q := e.Denom()
	if !q.IsInt64() || q.Int64() > 64 {
		return nil, false
	}
	rn, ok := intRoot(b.Num(), q.Int64())
	if !ok {
		return nil, false
	}
	rd, ok := intRoot(b.Denom(), q.Int64())
	if !ok {
		return nil, false
	}
	return ratPow(new(big.Rat).SetFrac(rn, rd), new(big.Rat).SetInt(e.Num()))
}

// intRoot returns the exact q-th root of n when one exists.
func intRoot(n *big.Int, q int64) (*big.Int, bool) {
	if n.Sign() == 0 {
		return new(big.Int), true
	}
	if n.Sign() < 0 || n.BitLen() > 62 {
		return nil, false
	}
	guess := int64(math.Round(math.Pow(float64(n.Int64()), 1/float64(q))))
	for _, c := range []int64{guess - 1, guess, guess + 1} {
		if c < 1 {
			continue
		}
		r := big.NewInt(c)
		if new(big.Int).Exp(r, big.NewInt(q), nil).Cmp(n) == 0 {
			return r, true
		}
	}
	return nil, false
}

// termLess orders summands: higher degree first, constants last, then by
// the text of the non-coefficient part.
func termLess(a, b Expr) bool {
	_, an := a.(*Num)
	_, bn := b.(*Num)
	if an != bn {
		return bn
	}
	if c := degree(a).Cmp(degree(b)); c != 0 {
		return c > 0
	}
	_, ra := splitCoeff(a)
	_, rb := splitCoeff(b)
	return ra.String() < rb.String()
}

func factorLess(a, b Expr) bool {
	ba, _ := splitPow(a)
	bb, _ := splitPow(b)
	ra, rb := factorRank(ba), factorRank(bb)
	if ra != rb {
		return ra < rb
	}
	return ba.String() < bb.String()
}

func factorRank(e Expr) int {
	switch v := e.(type) {
	case *Num:
		return 0
	case *Sym:
		return symRank(v.name)
	case *Func:
		return 6
	case *Add:
		return 7
	}
	return 8
}

func symRank(name string) int {
	switch name {
	case PiName, EName:
		return 1
	case XName:
		return 2
	case YName:
		return 3
	case TName:
		return 4
	case DyDx:
		return 9
	}
	return 5
}

// degree is the polynomial degree used for ordering terms.
func degree(e Expr) *big.Rat {
	switch v := e.(type) {
	case *Sym:
		if v.name == PiName || v.name == EName {
			return new(big.Rat)
		}
		return big.NewRat(1, 1)
	case *Pow:
		if n, ok := v.exp.(*Num); ok {
			return new(big.Rat).Mul(degree(v.base), n.v)
		}
	case *Mul:
		d := new(big.Rat)
		for _, f := range v.factors {
			d.Add(d, degree(f))
		}
		return d
	case *Add:
		var best *big.Rat
		for _, t := range v.terms {
			if d := degree(t); best == nil || d.Cmp(best) > 0 {
				best = d
			}
		}
		return best
	}
	return new(big.Rat)
}
