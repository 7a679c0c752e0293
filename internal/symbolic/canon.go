package symbolic

import (
	"errors"
	"math/big"
	"sort"
	"strings"
)

var (
	// ErrBudgetExceeded is returned when normalizing an expression would
	// produce more terms than the simplifier's budget allows.
	ErrBudgetExceeded = errors.New("symbolic: computation budget exceeded")

	// ErrDivisionByZero is returned when an expression divides by a
	// quantity that is identically zero.
	ErrDivisionByZero = errors.New("symbolic: division by zero")
)

// factor is a denominator factor: a non-monomial polynomial with leading
// coefficient 1, raised to a positive power.
type factor struct {
	key string
	p   poly
	k   int
}

// rational is the normal form num / prod(den). Monomial denominators are
// folded into num as negative exponents.
type rational struct {
	num poly
	den []factor
}

func (r rational) isZero() bool { return len(r.num) == 0 }

func (r rational) denExp(key string) int {
	for _, f := range r.den {
		if f.key == key {
			return f.k
		}
	}
	return 0
}

// canon converts expression trees into rational normal form. One canon is
// used per top-level operation; it owns the atom table for that operation.
type canon struct {
	maxTerms int
	atoms    map[string]Expr
	radicals map[string]rational
}

func newCanon(maxTerms int) *canon {
	return &canon{
		maxTerms: maxTerms,
		atoms:    make(map[string]Expr),
		radicals: make(map[string]rational),
	}
}

func (c *canon) one() rational  { return rational{num: constPoly(big.NewRat(1, 1))} }
func (c *canon) zero() rational { return rational{num: poly{}} }

func (c *canon) atom(key string, e Expr) rational {
	c.atoms[key] = e
	return rational{num: monoPoly(monomial{{key, big.NewRat(1, 1)}}, big.NewRat(1, 1))}
}

func (c *canon) convert(e Expr) (rational, error) {
	switch v := e.(type) {
	case *Num:
		return rational{num: constPoly(v.v)}, nil

	case *Sym:
		if v.name == EName {
			return c.function(Exp, c.one())
		}
		return c.atom(v.name, v), nil

	case *Add:
		acc := c.zero()
		for _, t := range v.terms {
			r, err := c.convert(t)
			if err != nil {
				return rational{}, err
			}
			if acc, err = c.add(acc, r); err != nil {
				return rational{}, err
			}
		}
		return c.settle(acc)

	case *Mul:
		acc := c.one()
		for _, f := range v.factors {
			r, err := c.convert(f)
			if err != nil {
				return rational{}, err
			}
			if acc, err = c.mul(acc, r); err != nil {
				return rational{}, err
			}
		}
		return c.settle(acc)

	case *Pow:
		n, ok := v.exp.(*Num)
		if !ok {
			// u**v with a symbolic exponent is exp(v*log(u)).
			arg, err := c.convert(Product(v.exp, Call(Log, v.base)))
			if err != nil {
				return rational{}, err
			}
			return c.function(Exp, arg)
		}
		base, err := c.convert(v.base)
		if err != nil {
			return rational{}, err
		}
		var r rational
		if n.v.IsInt() {
			r, err = c.powInt(base, n.v.Num())
		} else {
			r, err = c.powFrac(base, n.v)
		}
		if err != nil {
			return rational{}, err
		}
		return c.settle(r)

	case *Func:
		arg, err := c.convert(v.arg)
		if err != nil {
			return rational{}, err
		}
		r, err := c.function(v.name, arg)
		if err != nil {
			return rational{}, err
		}
		return c.settle(r)
	}
	return rational{}, errors.New("symbolic: unknown expression node")
}

func (c *canon) polyMul(a, b poly) (poly, error) {
	if len(a)*len(b) > 4*c.maxTerms {
		return nil, ErrBudgetExceeded
	}
	out := poly{}
	for _, x := range a {
		for _, y := range b {
			m, mc := x.mono.mul(y.mono)
			addTo(out, m, new(big.Rat).Mul(new(big.Rat).Mul(x.coeff, y.coeff), mc))
		}
	}
	if len(out) > c.maxTerms {
		return nil, ErrBudgetExceeded
	}
	return out, nil
}

func mergeDen(a, b []factor, combine func(x, y int) int) []factor {
	byKey := make(map[string]factor)
	for _, f := range a {
		byKey[f.key] = f
	}
	for _, f := range b {
		if old, ok := byKey[f.key]; ok {
			old.k = combine(old.k, f.k)
			byKey[f.key] = old
			continue
		}
		byKey[f.key] = f
	}
	out := make([]factor, 0, len(byKey))
	for _, f := range byKey {
		if f.k > 0 {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

func (c *canon) mul(a, b rational) (rational, error) {
	if a.isZero() || b.isZero() {
		return c.zero(), nil
	}
	num, err := c.polyMul(a.num, b.num)
	if err != nil {
		return rational{}, err
	}
	den := mergeDen(a.den, b.den, func(x, y int) int { return x + y })
	return c.cancel(rational{num: num, den: den})
}

func (c *canon) add(a, b rational) (rational, error) {
	if a.isZero() {
		return b, nil
	}
	if b.isZero() {
		return a, nil
	}
	lcm := mergeDen(a.den, b.den, func(x, y int) int { return max(x, y) })
	na, err := c.lift(a, lcm)
	if err != nil {
		return rational{}, err
	}
	nb, err := c.lift(b, lcm)
	if err != nil {
		return rational{}, err
	}
	sum := polyAdd(na, nb)
	if len(sum) > c.maxTerms {
		return rational{}, ErrBudgetExceeded
	}
	return c.cancel(rational{num: sum, den: lcm})
}

// lift returns the numerator of r rewritten over the denominator den,
// which must be a multiple of r's denominator.
func (c *canon) lift(r rational, den []factor) (poly, error) {
	out := r.num
	for _, f := range den {
		for i := r.denExp(f.key); i < f.k; i++ {
			var err error
			if out, err = c.polyMul(out, f.p); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// expandDen multiplies out the denominator of r.
func (c *canon) expandDen(r rational) (poly, error) {
	return c.lift(rational{num: constPoly(big.NewRat(1, 1))}, r.den)
}

func (c *canon) inv(r rational) (rational, error) {
	if r.isZero() {
		return rational{}, ErrDivisionByZero
	}
	lc, mono, prim := splitContent(r.num)
	d, err := c.expandDen(r)
	if err != nil {
		return rational{}, err
	}
	im, ic := mono.inv()
	scale := new(big.Rat).Quo(ic, lc)
	out := rational{num: polyScale(d, scale, im)}
	if prim != nil {
		out.den = []factor{c.newFactor(prim, 1)}
	}
	return c.cancel(out)
}

func (c *canon) newFactor(p poly, k int) factor {
	return factor{key: c.polyExpr(p).String(), p: p, k: k}
}

func (c *canon) neg(r rational) rational {
	return rational{num: polyScale(r.num, big.NewRat(-1, 1), nil), den: r.den}
}

// powInt raises r to the integer power n. A power whose expansion would
// exceed the term budget is kept as a compound atom instead.
func (c *canon) powInt(r rational, n *big.Int) (rational, error) {
	out, err := c.expandInt(r, n)
	if !errors.Is(err, ErrBudgetExceeded) || (len(r.num) == 1 && len(r.den) == 0) {
		return out, err
	}
	return c.powAtom(r, n)
}

// expandInt raises r to the integer power n by repeated squaring.
func (c *canon) expandInt(r rational, n *big.Int) (rational, error) {
	if len(r.num) == 1 && len(r.den) == 0 {
		for _, t := range r.num {
			return c.monoPow(t, n)
		}
	}
	if n.Sign() < 0 {
		var err error
		if r, err = c.inv(r); err != nil {
			return rational{}, err
		}
		n = new(big.Int).Neg(n)
		if len(r.num) == 1 && len(r.den) == 0 {
			for _, t := range r.num {
				return c.monoPow(t, n)
			}
		}
	}
	if !n.IsInt64() {
		return rational{}, ErrBudgetExceeded
	}
	k := n.Int64()
	out := c.one()
	sq := r
	for k > 0 {
		var err error
		if k&1 == 1 {
			if out, err = c.mul(out, sq); err != nil {
				return rational{}, err
			}
		}
		k >>= 1
		if k > 0 {
			if sq, err = c.mul(sq, sq); err != nil {
				return rational{}, err
			}
		}
	}
	return out, nil
}

// monoPow raises a single term to the integer power n. Only the numeric
// parts are bounded: a coefficient other than 1 or -1, or a prime radical,
// may not be raised beyond maxFoldExp.
func (c *canon) monoPow(t term, n *big.Int) (rational, error) {
	cv, ok := coeffPow(t.coeff, n)
	if !ok {
		return rational{}, ErrBudgetExceeded
	}
	if !n.IsInt64() || n.Int64() > maxFoldExp || n.Int64() < -maxFoldExp {
		for _, pw := range t.mono {
			if isRadicalAtom(pw.atom) {
				return rational{}, ErrBudgetExceeded
			}
		}
	}
	m, mc := t.mono.scale(new(big.Rat).SetInt(n))
	return rational{num: monoPoly(m, cv.Mul(cv, mc))}, nil
}

func coeffPow(v *big.Rat, n *big.Int) (*big.Rat, bool) {
	if v.Sign() != 0 && v.IsInt() && v.Num().CmpAbs(big.NewInt(1)) == 0 {
		if v.Sign() < 0 && n.Bit(0) == 1 {
			return big.NewRat(-1, 1), true
		}
		return big.NewRat(1, 1), true
	}
	return ratPow(v, new(big.Rat).SetInt(n))
}

// powAtom writes r**n as content**n * [prim]**n / prod([f]**(k*n)), with
// every polynomial part held as a compound atom.
func (c *canon) powAtom(r rational, n *big.Int) (rational, error) {
	lc, mono, prim := splitContent(r.num)
	out, err := c.monoPow(term{mono, lc}, n)
	if err != nil {
		return rational{}, err
	}
	e := new(big.Rat).SetInt(n)
	var m monomial
	if prim != nil {
		m, _ = m.mul(monomial{{c.compoundKey(prim), e}})
	}
	for _, f := range r.den {
		fe := new(big.Rat).Mul(e, big.NewRat(int64(-f.k), 1))
		m, _ = m.mul(monomial{{c.compoundKey(f.p), fe}})
	}
	out.num = polyScale(out.num, ratOne, m)
	return out, nil
}

// powFrac raises r to a non-integer rational power. A positive numeric
// content is always split off. For an even root the remaining factors are
// split only where that holds for negative values too; otherwise the rest
// of the radicand becomes a single radical atom.
func (c *canon) powFrac(r rational, q *big.Rat) (rational, error) {
	if r.isZero() {
		if q.Sign() > 0 {
			return c.zero(), nil
		}
		return rational{}, ErrDivisionByZero
	}
	lc, mono, prim := splitContent(r.num)
	if lc.Sign() < 0 {
		return c.compound(r, q)
	}

	out, err := c.numericPow(lc, q)
	if err != nil {
		return rational{}, err
	}
	if q.Denom().Bit(0) == 0 && !rootSplits(mono, prim != nil, r.den, q) {
		rest := rational{num: polyScale(r.num, new(big.Rat).Inv(lc), nil), den: r.den}
		cr, err := c.compound(rest, q)
		if err != nil {
			return rational{}, err
		}
		return c.mul(out, cr)
	}

	sm, sc := mono.scale(q)
	if out, err = c.mul(out, rational{num: monoPoly(sm, sc)}); err != nil {
		return rational{}, err
	}
	if prim != nil {
		pr, err := c.compoundPoly(prim, q)
		if err != nil {
			return rational{}, err
		}
		if out, err = c.mul(out, pr); err != nil {
			return rational{}, err
		}
	}
	for _, f := range r.den {
		fr, err := c.compoundPoly(f.p, new(big.Rat).Mul(q, big.NewRat(int64(-f.k), 1)))
		if err != nil {
			return rational{}, err
		}
		if out, err = c.mul(out, fr); err != nil {
			return rational{}, err
		}
	}
	return out, nil
}

// rootSplits reports whether an even root q of mono * prim / den equals
// the product of the roots of its factors. Factors under an odd power
// force the radicand to be non-negative only when there is just one of
// them; every other factor must come out of the root as an even power.
func rootSplits(mono monomial, prim bool, den []factor, q *big.Rat) bool {
	odd := 0
	ok := func(e *big.Rat) bool {
		if e.Num().Bit(0) == 1 {
			odd++
			return odd <= 1
		}
		return powMerges(e, q)
	}
	for _, pw := range mono {
		if positiveAtom(pw.atom) {
			continue
		}
		if !ok(pw.exp) {
			return false
		}
	}
	if prim && !ok(ratOne) {
		return false
	}
	for _, f := range den {
		if !ok(big.NewRat(int64(-f.k), 1)) {
			return false
		}
	}
	return true
}

// positiveAtom reports whether an atom only takes positive values.
func positiveAtom(a string) bool {
	return isRadicalAtom(a) || a == PiName || strings.HasPrefix(a, Exp+"(")
}

// numericPow returns v**q for v > 0 with the fractional part of every
// prime exponent kept as a radical atom.
func (c *canon) numericPow(v, q *big.Rat) (rational, error) {
	coeff := big.NewRat(1, 1)
	var m monomial
	apply := func(n *big.Int, sign int64) {
		for p, e := range factorInt(n) {
			total := new(big.Rat).Mul(q, big.NewRat(sign*e, 1))
			pm, pc := monomial(nil).mul(monomial{{"#" + p, total}})
			coeff.Mul(coeff, pc)
			var mc *big.Rat
			m, mc = m.mul(pm)
			coeff.Mul(coeff, mc)
		}
	}
	apply(v.Num(), 1)
	apply(v.Denom(), -1)
	return rational{num: monoPoly(m, coeff)}, nil
}

// compoundPoly returns p**e for a primitive polynomial p, keeping the
// fractional part of e on a radical atom in [0, 1).
func (c *canon) compoundPoly(p poly, e *big.Rat) (rational, error) {
	return c.radical(c.polyExpr(p).String(), c.polyExpr(p), rational{num: p}, e)
}

// compoundKey registers p as a compound atom and returns its key.
func (c *canon) compoundKey(p poly) string {
	ex := c.polyExpr(p)
	key := "[" + ex.String() + "]"
	c.atoms[key] = ex
	c.radicals[key] = rational{num: p}
	return key
}

// compound is used when no content can be split off, e.g. a radicand with
// negative leading coefficient.
func (c *canon) compound(r rational, e *big.Rat) (rational, error) {
	ex := c.rebuild(r)
	return c.radical(ex.String(), ex, r, e)
}

func (c *canon) radical(text string, ex Expr, base rational, e *big.Rat) (rational, error) {
	key := "[" + text + "]"
	c.atoms[key] = ex
	c.radicals[key] = base

	n := floorRat(e)
	frac := new(big.Rat).Sub(e, new(big.Rat).SetInt(n))
	out := c.one()
	if frac.Sign() != 0 {
		out = rational{num: monoPoly(monomial{{key, frac}}, big.NewRat(1, 1))}
	}
	if n.Sign() != 0 {
		bn, err := c.powInt(base, n)
		if err != nil {
			return rational{}, err
		}
		return c.mul(out, bn)
	}
	return out, nil
}

// function applies a function to an argument in normal form.
func (c *canon) function(name string, arg rational) (rational, error) {
	switch name {
	case Tan:
		s, err := c.trig(Sin, arg)
		if err != nil {
			return rational{}, err
		}
		co, err := c.trig(Cos, arg)
		if err != nil {
			return rational{}, err
		}
		ico, err := c.inv(co)
		if err != nil {
			return rational{}, err
		}
		return c.mul(s, ico)

	case Sec:
		co, err := c.trig(Cos, arg)
		if err != nil {
			return rational{}, err
		}
		return c.inv(co)

	case Csc:
		s, err := c.trig(Sin, arg)
		if err != nil {
			return rational{}, err
		}
		return c.inv(s)

	case Cot:
		co, err := c.trig(Cos, arg)
		if err != nil {
			return rational{}, err
		}
		s, err := c.trig(Sin, arg)
		if err != nil {
			return rational{}, err
		}
		is, err := c.inv(s)
		if err != nil {
			return rational{}, err
		}
		return c.mul(co, is)

	case Sin, Cos:
		return c.trig(name, arg)

	case Log:
		if v, ok := arg.num.constant(); ok && len(arg.den) == 0 && v.Cmp(ratOne) == 0 {
			return c.zero(), nil
		}
		if r, ok, err := c.logOfExp(arg); ok || err != nil {
			return r, err
		}
		return c.funcAtom(Log, arg), nil

	case Exp:
		return c.exp(arg)
	}
	return rational{}, errors.New("symbolic: unknown function " + name)
}

// trig applies sin or cos, normalizing the sign of the argument.
func (c *canon) trig(name string, arg rational) (rational, error) {
	if arg.isZero() {
		if name == Sin {
			return c.zero(), nil
		}
		return c.one(), nil
	}
	if arg.num.leading().coeff.Sign() < 0 {
		r := c.funcAtom(name, c.neg(arg))
		if name == Sin {
			return c.neg(r), nil
		}
		return r, nil
	}
	return c.funcAtom(name, arg), nil
}

func (c *canon) funcAtom(name string, arg rational) rational {
	return rational{num: monoPoly(monomial{{c.funcKey(name, arg), big.NewRat(1, 1)}}, big.NewRat(1, 1))}
}

func (c *canon) funcKey(name string, arg rational) string {
	f := &Func{name: name, arg: c.rebuild(arg)}
	key := f.String()
	c.atoms[key] = f
	return key
}

// exp splits a polynomial argument term by term, so that exp(c*m) becomes
// exp(m)**c for a coefficient-free monomial m and exp(c*log(u)) becomes
// u**c.
func (c *canon) exp(arg rational) (rational, error) {
	if len(arg.den) > 0 {
		return c.funcAtom(Exp, arg), nil
	}
	out := c.one()
	for _, t := range arg.num.sorted() {
		var f rational
		var err error
		if lf, ok := c.logAtom(t.mono); ok {
			base, err := c.convert(lf.arg)
			if err != nil {
				return rational{}, err
			}
			if t.coeff.IsInt() {
				f, err = c.powInt(base, t.coeff.Num())
			} else {
				f, err = c.powFrac(base, t.coeff)
			}
			if err != nil {
				return rational{}, err
			}
		} else {
			key := c.funcKey(Exp, rational{num: monoPoly(t.mono, big.NewRat(1, 1))})
			f = rational{num: monoPoly(monomial{{key, new(big.Rat).Set(t.coeff)}}, big.NewRat(1, 1))}
		}
		if out, err = c.mul(out, f); err != nil {
			return rational{}, err
		}
	}
	return out, nil
}

func (c *canon) logAtom(m monomial) (*Func, bool) {
	if len(m) != 1 || m[0].exp.Cmp(ratOne) != 0 {
		return nil, false
	}
	f, ok := c.atoms[m[0].atom].(*Func)
	return f, ok && f.name == Log
}

// logOfExp simplifies log(exp(m1)**c1 * exp(m2)**c2 ...) to c1*m1 + c2*m2 + ...
func (c *canon) logOfExp(arg rational) (rational, bool, error) {
	if len(arg.den) > 0 || len(arg.num) != 1 {
		return rational{}, false, nil
	}
	var t term
	for _, v := range arg.num {
		t = v
	}
	if t.coeff.Cmp(ratOne) != 0 || len(t.mono) == 0 {
		return rational{}, false, nil
	}
	var args []*Func
	for _, pw := range t.mono {
		f, ok := c.atoms[pw.atom].(*Func)
		if !ok || f.name != Exp {
			return rational{}, false, nil
		}
		args = append(args, f)
	}
	out := c.zero()
	for i, f := range args {
		inner, err := c.convert(f.arg)
		if err != nil {
			return rational{}, true, err
		}
		scaled := rational{num: polyScale(inner.num, t.mono[i].exp, nil), den: inner.den}
		if out, err = c.add(out, scaled); err != nil {
			return rational{}, true, err
		}
	}
	return out, true, nil
}

// cancel divides out denominator factors that divide the numerator.
func (c *canon) cancel(r rational) (rational, error) {
	if r.isZero() {
		return c.zero(), nil
	}
	num := r.num
	var den []factor
	for _, f := range r.den {
		k := f.k
		for k > 0 {
			q, ok := c.exactDiv(num, f.p)
			if !ok {
				break
			}
			num = q
			k--
		}
		if k > 0 {
			den = append(den, factor{key: f.key, p: f.p, k: k})
		}
	}
	return rational{num: num, den: den}, nil
}

// exactDiv divides a by the monic polynomial b, succeeding only when the
// remainder vanishes within a bounded number of steps.
func (c *canon) exactDiv(a, b poly) (poly, bool) {
	lb := b.leading()
	im, ic := lb.mono.inv()
	rem := a.clone()
	q := poly{}
	limit := 2*(len(a)+len(b)) + 32
	for range limit {
		if len(rem) == 0 {
			return q, true
		}
		lt := rem.leading()
		m, mc := lt.mono.mul(im)
		coef := new(big.Rat).Mul(lt.coeff, ic)
		coef.Mul(coef, mc)
		coef.Quo(coef, lb.coeff)
		addTo(q, m, coef)
		for _, t := range b {
			mm, cc := t.mono.mul(m)
			d := new(big.Rat).Mul(coef, t.coeff)
			d.Mul(d, cc)
			addTo(rem, mm, d.Neg(d))
		}
		if len(rem) > c.maxTerms {
			return nil, false
		}
	}
	return nil, false
}

// settle applies the Pythagorean reduction and re-expands radical atoms
// whose exponents left [0, 1), until the form is stable.
func (c *canon) settle(r rational) (rational, error) {
	for range 8 {
		num, reduced, err := c.pythagorean(r.num)
		if err != nil {
			return rational{}, err
		}
		r.num = num
		next, expanded, err := c.expandRadicals(r)
		if err != nil {
			return rational{}, err
		}
		r = next
		if !reduced && !expanded {
			break
		}
	}
	return c.cancel(r)
}

// pythagorean rewrites sin(u)**k for k >= 2 using sin**2 = 1 - cos**2, so
// that sine appears at most linearly in every term.
func (c *canon) pythagorean(p poly) (poly, bool, error) {
	changed := false
	out := poly{}
	work := p.sorted()
	for len(work) > 0 {
		t := work[len(work)-1]
		work = work[:len(work)-1]

		idx := -1
		for i, pw := range t.mono {
			if strings.HasPrefix(pw.atom, Sin+"(") && pw.exp.IsInt() && pw.exp.Cmp(big.NewRat(2, 1)) >= 0 {
				idx = i
				break
			}
		}
		if idx < 0 {
			addTo(out, t.mono, t.coeff)
			continue
		}
		changed = true

		sinKey := t.mono[idx].atom
		cosKey := Cos + sinKey[len(Sin):]
		if _, ok := c.atoms[cosKey]; !ok {
			f := c.atoms[sinKey].(*Func)
			c.atoms[cosKey] = &Func{name: Cos, arg: f.arg}
		}
		reduced := t.mono.withExp(sinKey, new(big.Rat).Sub(t.mono[idx].exp, big.NewRat(2, 1)))
		withCos, cc := reduced.mul(monomial{{cosKey, big.NewRat(2, 1)}})
		work = append(work,
			term{reduced, t.coeff},
			term{withCos, new(big.Rat).Neg(new(big.Rat).Mul(t.coeff, cc))},
		)
		if len(work)+len(out) > c.maxTerms {
			return nil, false, ErrBudgetExceeded
		}
	}
	return out, changed, nil
}

// expandRadicals moves the whole part of every compound radical exponent
// back into polynomial form.
func (c *canon) expandRadicals(r rational) (rational, bool, error) {
	keep := poly{}
	var extra []rational
	for _, t := range r.num {
		var prod rational
		found := false
		for _, pw := range t.mono {
			if !isCompoundAtom(pw.atom) || (pw.exp.Sign() >= 0 && pw.exp.Cmp(ratOne) < 0) {
				continue
			}
			n := floorRat(pw.exp)
			bn, err := c.expandInt(c.radicals[pw.atom], n)
			if errors.Is(err, ErrBudgetExceeded) {
				// Too large to expand: the power stays an atom.
				continue
			}
			if err != nil {
				return rational{}, false, err
			}
			frac := new(big.Rat).Sub(pw.exp, new(big.Rat).SetInt(n))
			rest := rational{num: monoPoly(t.mono.withExp(pw.atom, frac), t.coeff)}
			if prod, err = c.mul(rest, bn); err != nil {
				return rational{}, false, err
			}
			found = true
			break
		}
		if !found {
			addTo(keep, t.mono, t.coeff)
			continue
		}
		extra = append(extra, prod)
	}
	if len(extra) == 0 {
		return r, false, nil
	}

	out := rational{num: keep, den: r.den}
	overDen := rational{num: constPoly(big.NewRat(1, 1)), den: r.den}
	for _, e := range extra {
		scaled, err := c.mul(e, overDen)
		if err != nil {
			return rational{}, false, err
		}
		if out, err = c.add(out, scaled); err != nil {
			return rational{}, false, err
		}
	}
	return out, true, nil
}
