package symbolic

import (
	"math/big"
	"strings"
)

var half = big.NewRat(1, 2)

func (n *Num) String() string { return n.v.RatString() }

func (s *Sym) String() string { return s.name }

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.terms {
		neg, abs := negated(t)
		switch {
		case i == 0 && neg:
			b.WriteString("-" + abs)
		case i == 0:
			b.WriteString(t.String())
		case neg:
			b.WriteString(" - " + abs)
		default:
			b.WriteString(" + " + t.String())
		}
	}
	return b.String()
}

func (m *Mul) String() string {
	c, fs := mulParts(m)
	return formatProduct(c, fs)
}

func (p *Pow) String() string {
	if e, ok := p.exp.(*Num); ok {
		if e.v.Sign() < 0 {
			return formatProduct(ratOne, []Expr{p})
		}
		if e.v.Cmp(half) == 0 {
			return "sqrt(" + p.base.String() + ")"
		}
	}
	return powBase(p.base) + "**" + powExp(p.exp)
}

// negated reports whether t prints with a leading minus and, if so, the
// text of -t.
func negated(t Expr) (bool, string) {
	switch v := t.(type) {
	case *Num:
		if v.v.Sign() < 0 {
			return true, new(big.Rat).Neg(v.v).RatString()
		}
	case *Mul:
		c, fs := mulParts(v)
		if c.Sign() < 0 {
			return true, formatProduct(new(big.Rat).Neg(c), fs)
		}
	}
	return false, ""
}

func mulParts(m *Mul) (*big.Rat, []Expr) {
	if n, ok := m.factors[0].(*Num); ok {
		return n.v, m.factors[1:]
	}
	return ratOne, m.factors
}

// formatProduct prints coeff*factors as a single fraction, moving factors
// with negative numeric exponents below the bar.
func formatProduct(coeff *big.Rat, factors []Expr) string {
	sign := ""
	c := coeff
	if c.Sign() < 0 {
		sign = "-"
		c = new(big.Rat).Neg(c)
	}

	var num, den []string
	if c.Num().Cmp(big.NewInt(1)) != 0 {
		num = append(num, c.Num().String())
	}
	if !c.IsInt() {
		den = append(den, c.Denom().String())
	}
	for _, f := range factors {
		if p, ok := f.(*Pow); ok {
			if e, ok := p.exp.(*Num); ok && e.v.Sign() < 0 {
				den = append(den, factorString(Power(p.base, &Num{v: new(big.Rat).Neg(e.v)})))
				continue
			}
		}
		num = append(num, factorString(f))
	}

	out := strings.Join(num, "*")
	if out == "" {
		out = "1"
	}
	if len(den) == 0 {
		return sign + out
	}
	d := strings.Join(den, "*")
	if len(den) > 1 {
		d = "(" + d + ")"
	}
	return sign + out + "/" + d
}

func factorString(e Expr) string {
	switch e.(type) {
	case *Add, *Mul:
		return "(" + e.String() + ")"
	}
	return e.String()
}

func powBase(e Expr) string {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return "(" + e.String() + ")"
	case *Num:
		if v.v.Sign() < 0 || !v.v.IsInt() {
			return "(" + e.String() + ")"
		}
	}
	return e.String()
}

func powExp(e Expr) string {
	switch v := e.(type) {
	case *Sym, *Func:
		return e.String()
	case *Num:
		if v.v.Sign() >= 0 && v.v.IsInt() {
			return e.String()
		}
	}
	return "(" + e.String() + ")"
}
