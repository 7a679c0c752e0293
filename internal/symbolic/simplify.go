package symbolic

import (
	"errors"
	"math/big"
	"strings"
)

// DefaultMaxTerms is the term budget used when Simplifier.MaxTerms is zero.
const DefaultMaxTerms = 2000

var (
	// ErrNotLinear is returned by SolveLinear when the unknown appears
	// other than to the first power of a polynomial term.
	ErrNotLinear = errors.New("symbolic: equation is not linear in the unknown")

	// ErrNoSolution is returned by SolveLinear when the coefficient of the
	// unknown is identically zero.
	ErrNoSolution = errors.New("symbolic: coefficient of the unknown vanishes")
)

// Simplifier reduces expressions to a canonical rational normal form.
//
// The normal form treats sin, cos, log, exp applications and radicals of
// non-monomial radicands as independent atoms, after rewriting tan, sec,
// csc and cot through sin and cos, applying sin**2 = 1 - cos**2, and
// normalizing the sign of trigonometric arguments. It is sound but
// incomplete: values it reports equal are equal, while identities such as
// exp(a)*exp(b) = exp(a+b) or log(a*b) = log(a) + log(b) are not found.
// Even roots are split over a product only when no sign is lost, so
// sqrt(x**2) is not x. Powers too large to expand within MaxTerms are held
// as atoms, which costs completeness but never soundness.
//
// A Simplifier holds no state and is safe for concurrent use.
type Simplifier struct {
	// MaxTerms bounds the size of every intermediate polynomial.
	// Zero selects DefaultMaxTerms.
	MaxTerms int
}

// Default is the Simplifier used by the package-level helpers.
var Default = Simplifier{}

func (s Simplifier) canon() *canon {
	n := s.MaxTerms
	if n <= 0 {
		n = DefaultMaxTerms
	}
	return newCanon(n)
}

// Simplify returns the canonical form of e, or e itself when the
// canonical form is no smaller. A factored result such as 6*x*(x**2 + 1)**2
// is therefore kept rather than multiplied out.
func (s Simplifier) Simplify(e Expr) (Expr, error) {
	c := s.canon()
	r, err := c.convert(e)
	if err != nil {
		return nil, err
	}
	out := c.rebuild(r)
	if size(out) >= size(e) {
		return e, nil
	}
	return out, nil
}

// IsZero reports whether e simplifies to the additive identity.
func (s Simplifier) IsZero(e Expr) (bool, error) {
	r, err := s.canon().convert(e)
	if err != nil {
		return false, err
	}
	return r.isZero(), nil
}

// Equivalent reports whether a - b simplifies to zero. Failures such as an
// exhausted budget report false.
func (s Simplifier) Equivalent(a, b Expr) bool {
	if a.Equal(b) {
		return true
	}
	zero, err := s.IsZero(Sub(a, b))
	return err == nil && zero
}

// SolveLinear solves e = 0 for the symbol sym, which must occur linearly
// and only outside function arguments, radicands and denominators.
func (s Simplifier) SolveLinear(e Expr, sym string) (Expr, error) {
	c := s.canon()
	r, err := c.convert(e)
	if err != nil {
		return nil, err
	}
	for _, f := range r.den {
		for a := range f.p.atoms() {
			if strings.Contains(a, sym) {
				return nil, ErrNotLinear
			}
		}
	}

	coef, rest := poly{}, poly{}
	for _, t := range r.num {
		for _, pw := range t.mono {
			if pw.atom != sym && strings.Contains(pw.atom, sym) {
				return nil, ErrNotLinear
			}
		}
		switch e := t.mono.expOf(sym); {
		case e.Sign() == 0:
			addTo(rest, t.mono, t.coeff)
		case e.Cmp(ratOne) == 0:
			addTo(coef, t.mono.without(sym), t.coeff)
		default:
			return nil, ErrNotLinear
		}
	}
	if len(coef) == 0 {
		return nil, ErrNoSolution
	}

	inv, err := c.inv(rational{num: coef})
	if err != nil {
		return nil, err
	}
	sol, err := c.mul(c.neg(rational{num: rest}), inv)
	if err != nil {
		return nil, err
	}
	if sol, err = c.settle(sol); err != nil {
		return nil, err
	}
	return c.rebuild(sol), nil
}

// size counts the nodes of e.
func size(e Expr) int {
	n := 0
	Walk(e, func(Expr) bool {
		n++
		return true
	})
	return n
}

// Simplify simplifies e with the default budget.
func Simplify(e Expr) (Expr, error) { return Default.Simplify(e) }

// Equivalent compares a and b with the default budget.
func Equivalent(a, b Expr) bool { return Default.Equivalent(a, b) }

// rebuild turns a normal form back into an expression tree.
func (c *canon) rebuild(r rational) Expr {
	if len(r.den) == 0 {
		return c.polyExpr(r.num)
	}

	var fs []Expr
	den := r.den
	if len(r.num) == 1 {
		// Fold a radical of a denominator factor into that factor, so that
		// sqrt(u)/u prints as 1/sqrt(u).
		for _, t := range r.num {
			mono := t.mono
			den = nil
			for _, f := range r.den {
				key := "[" + f.key + "]"
				if e := mono.expOf(key); e.Sign() > 0 {
					mono = mono.withExp(key, new(big.Rat).Sub(e, big.NewRat(int64(f.k), 1)))
					continue
				}
				den = append(den, f)
			}
			fs = append(fs, c.termExpr(mono, t.coeff))
		}
	} else {
		fs = append(fs, c.polyExpr(r.num))
	}
	for _, f := range den {
		fs = append(fs, Power(c.polyExpr(f.p), Int(int64(-f.k))))
	}
	return Product(fs...)
}

func (c *canon) polyExpr(p poly) Expr {
	ts := p.sorted()
	terms := make([]Expr, len(ts))
	for i, t := range ts {
		terms[i] = c.termExpr(t.mono, t.coeff)
	}
	return Sum(terms...)
}

func (c *canon) termExpr(m monomial, coeff *big.Rat) Expr {
	fs := make([]Expr, 0, len(m)+1)
	fs = append(fs, NewNum(coeff))
	for _, pw := range m {
		fs = append(fs, Power(c.atomExpr(pw.atom), NewNum(pw.exp)))
	}
	return Product(fs...)
}

func (c *canon) atomExpr(key string) Expr {
	if isRadicalAtom(key) {
		return &Num{v: new(big.Rat).SetInt(primeOf(key))}
	}
	if e, ok := c.atoms[key]; ok {
		return e
	}
	return NewSym(key)
}
