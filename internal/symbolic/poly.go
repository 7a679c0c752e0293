package symbolic

import (
	"math/big"
	"sort"
	"strings"
)

// Atoms are the indeterminates of the normal form. Their keys are:
//
//	x, y, t, pi, dy_dx   plain symbols
//	sin(ARG) ...         function applications with a canonical argument
//	#p                   the prime p under a fractional exponent
//	[BASE]               a compound radicand under a fractional exponent
func atomRank(a string) int {
	switch {
	case strings.HasPrefix(a, "#"):
		return 0
	case strings.HasPrefix(a, "["):
		return 7
	case strings.Contains(a, "("):
		return 6
	}
	return symRank(a)
}

func atomLess(a, b string) bool {
	ra, rb := atomRank(a), atomRank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

func isRadicalAtom(a string) bool { return strings.HasPrefix(a, "#") }

func isCompoundAtom(a string) bool { return strings.HasPrefix(a, "[") }

// power is one atom raised to a non-zero rational exponent.
type power struct {
	atom string
	exp  *big.Rat
}

// monomial is a product of atom powers sorted by atomLess. Exponents may
// be negative or fractional. Exponents of prime radicals stay in [0, 1).
type monomial []power

func (m monomial) key() string {
	var b strings.Builder
	for i, p := range m {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteString(p.atom)
		b.WriteByte('^')
		b.WriteString(p.exp.RatString())
	}
	return b.String()
}

func (m monomial) expOf(atom string) *big.Rat {
	for _, p := range m {
		if p.atom == atom {
			return p.exp
		}
	}
	return new(big.Rat)
}

func (m monomial) without(atom string) monomial {
	out := make(monomial, 0, len(m))
	for _, p := range m {
		if p.atom != atom {
			out = append(out, p)
		}
	}
	return out
}

// withExp returns a copy of m with atom's exponent replaced by e.
func (m monomial) withExp(atom string, e *big.Rat) monomial {
	if e.Sign() == 0 {
		return m.without(atom)
	}
	out := make(monomial, 0, len(m)+1)
	done := false
	for _, p := range m {
		if !done && atomLess(atom, p.atom) {
			out = append(out, power{atom, e})
			done = true
		}
		if p.atom == atom {
			out = append(out, power{atom, e})
			done = true
			continue
		}
		out = append(out, p)
	}
	if !done {
		out = append(out, power{atom, e})
	}
	return out
}

// degree ignores prime radicals, which may fold into the coefficient.
func (m monomial) degree() *big.Rat {
	d := new(big.Rat)
	for _, p := range m {
		if !isRadicalAtom(p.atom) {
			d.Add(d, p.exp)
		}
	}
	return d
}

// mul returns the product of two monomials together with the rational
// factor produced when prime radicals reach whole exponents.
func (m monomial) mul(o monomial) (monomial, *big.Rat) {
	coeff := big.NewRat(1, 1)
	out := make(monomial, 0, len(m)+len(o))
	push := func(atom string, e *big.Rat) {
		if e.Sign() == 0 {
			return
		}
		if isRadicalAtom(atom) {
			n := floorRat(e)
			if n.Sign() != 0 {
				coeff.Mul(coeff, intPow(primeOf(atom), n))
				e = new(big.Rat).Sub(e, new(big.Rat).SetInt(n))
			}
			if e.Sign() == 0 {
				return
			}
		}
		out = append(out, power{atom, e})
	}

	i, j := 0, 0
	for i < len(m) || j < len(o) {
		switch {
		case j >= len(o) || (i < len(m) && atomLess(m[i].atom, o[j].atom)):
			push(m[i].atom, m[i].exp)
			i++
		case i >= len(m) || atomLess(o[j].atom, m[i].atom):
			push(o[j].atom, o[j].exp)
			j++
		default:
			push(m[i].atom, new(big.Rat).Add(m[i].exp, o[j].exp))
			i++
			j++
		}
	}
	return out, coeff
}

func (m monomial) inv() (monomial, *big.Rat) {
	neg := make(monomial, len(m))
	for i, p := range m {
		neg[i] = power{p.atom, new(big.Rat).Neg(p.exp)}
	}
	return monomial(nil).mul(neg)
}

func (m monomial) scale(q *big.Rat) (monomial, *big.Rat) {
	sc := make(monomial, len(m))
	for i, p := range m {
		sc[i] = power{p.atom, new(big.Rat).Mul(p.exp, q)}
	}
	return monomial(nil).mul(sc)
}

// monoCmp is a graded lexicographic order; it is compatible with
// multiplication except across prime radicals.
func monoCmp(a, b monomial) int {
	if c := a.degree().Cmp(b.degree()); c != 0 {
		return c
	}
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && atomLess(a[i].atom, b[j].atom)):
			return a[i].exp.Sign()
		case i >= len(a) || atomLess(b[j].atom, a[i].atom):
			return -b[j].exp.Sign()
		default:
			if c := a[i].exp.Cmp(b[j].exp); c != 0 {
				return c
			}
			i++
			j++
		}
	}
	return 0
}

type term struct {
	mono  monomial
	coeff *big.Rat
}

// poly is a Laurent polynomial with rational coefficients, keyed by
// monomial key. Zero coefficients are never stored.
type poly map[string]term

func constPoly(c *big.Rat) poly {
	p := poly{}
	addTo(p, nil, c)
	return p
}

func monoPoly(m monomial, c *big.Rat) poly {
	p := poly{}
	addTo(p, m, c)
	return p
}

func addTo(p poly, m monomial, c *big.Rat) {
	if c.Sign() == 0 {
		return
	}
	k := m.key()
	if old, ok := p[k]; ok {
		s := new(big.Rat).Add(old.coeff, c)
		if s.Sign() == 0 {
			delete(p, k)
			return
		}
		p[k] = term{old.mono, s}
		return
	}
	p[k] = term{m, new(big.Rat).Set(c)}
}

func (p poly) clone() poly {
	out := make(poly, len(p))
	for k, t := range p {
		out[k] = t
	}
	return out
}

func polyAdd(a, b poly) poly {
	out := a.clone()
	for _, t := range b {
		addTo(out, t.mono, t.coeff)
	}
	return out
}

// polyScale multiplies every term of p by c*m.
func polyScale(p poly, c *big.Rat, m monomial) poly {
	out := poly{}
	for _, t := range p {
		mm, mc := t.mono.mul(m)
		addTo(out, mm, new(big.Rat).Mul(new(big.Rat).Mul(t.coeff, c), mc))
	}
	return out
}

// constant returns the value of p when p has no non-constant terms.
func (p poly) constant() (*big.Rat, bool) {
	switch len(p) {
	case 0:
		return new(big.Rat), true
	case 1:
		if t, ok := p[""]; ok {
			return t.coeff, true
		}
	}
	return nil, false
}

func (p poly) sorted() []term {
	ts := make([]term, 0, len(p))
	for _, t := range p {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return monoCmp(ts[i].mono, ts[j].mono) > 0 })
	return ts
}

func (p poly) leading() term {
	var best term
	first := true
	for _, t := range p {
		if first || monoCmp(t.mono, best.mono) > 0 {
			best = t
			first = false
		}
	}
	return best
}

// atoms returns every atom key used by p.
func (p poly) atoms() map[string]bool {
	out := make(map[string]bool)
	for _, t := range p {
		for _, pw := range t.mono {
			out[pw.atom] = true
		}
	}
	return out
}

// splitContent writes p as coeff * mono * prim where mono is the monomial
// gcd of the terms and prim has leading coefficient 1. prim is nil when p
// is a single term.
func splitContent(p poly) (*big.Rat, monomial, poly) {
	if len(p) == 1 {
		for _, t := range p {
			return new(big.Rat).Set(t.coeff), t.mono, nil
		}
	}

	var gcd monomial
	first := true
	for _, t := range p {
		if first {
			gcd = append(monomial(nil), t.mono...)
			first = false
			continue
		}
		gcd = monoMin(gcd, t.mono)
	}

	im, ic := gcd.inv()
	divided := poly{}
	for _, t := range p {
		mm, mc := t.mono.mul(im)
		addTo(divided, mm, new(big.Rat).Mul(new(big.Rat).Mul(t.coeff, ic), mc))
	}
	lc := new(big.Rat).Set(divided.leading().coeff)
	prim := polyScale(divided, new(big.Rat).Inv(lc), nil)
	return lc, gcd, prim
}

// monoMin takes the smaller exponent of every atom, treating a missing
// atom as exponent zero.
func monoMin(a, b monomial) monomial {
	out := monomial{}
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && atomLess(a[i].atom, b[j].atom)):
			if a[i].exp.Sign() < 0 {
				out = append(out, a[i])
			}
			i++
		case i >= len(a) || atomLess(b[j].atom, a[i].atom):
			if b[j].exp.Sign() < 0 {
				out = append(out, b[j])
			}
			j++
		default:
			e := a[i].exp
			if b[j].exp.Cmp(e) < 0 {
				e = b[j].exp
			}
			out = append(out, power{a[i].atom, e})
			i++
			j++
		}
	}
	return out
}

func floorRat(e *big.Rat) *big.Int {
	// big.Int.Div is Euclidean, which is floor division for a positive
	// denominator.
	return new(big.Int).Div(e.Num(), e.Denom())
}

func primeOf(atom string) *big.Int {
	n, _ := new(big.Int).SetString(atom[1:], 10)
	return n
}

func intPow(p *big.Int, n *big.Int) *big.Rat {
	k := new(big.Int).Abs(n)
	v := new(big.Int).Exp(p, k, nil)
	r := new(big.Rat).SetInt(v)
	if n.Sign() < 0 {
		r.Inv(r)
	}
	return r
}

// factorInt returns the prime factorization of n > 0. A cofactor left
// after bounded trial division is reported as if it were prime.
func factorInt(n *big.Int) map[string]int64 {
	out := make(map[string]int64)
	rem := new(big.Int).Set(n)
	if rem.Sign() <= 0 {
		return out
	}
	d := big.NewInt(2)
	mod := new(big.Int)
	limit := big.NewInt(100000)
	for rem.Cmp(big.NewInt(1)) > 0 && d.Cmp(limit) <= 0 {
		if new(big.Int).Mul(d, d).Cmp(rem) > 0 {
			break
		}
		for {
			q, r := new(big.Int).QuoRem(rem, d, mod)
			if r.Sign() != 0 {
				break
			}
			out[d.String()]++
			rem = q
		}
		d = new(big.Int).Add(d, big.NewInt(1))
	}
	if rem.Cmp(big.NewInt(1)) > 0 {
		out[rem.String()]++
	}
	return out
}
