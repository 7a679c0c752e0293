package symbolic

import (
	"encoding/json"
	"math/big"
)

// Expr is an immutable symbolic expression tree. Values are built through
// the package constructors (Sum, Product, Power, Call), which apply light
// simplification so that structurally equal inputs produce equal trees.
type Expr interface {
	// String renders the expression in the engine's canonical text form,
	// which the normalizer parses back into an equal tree.
	String() string

	// Equal reports structural equality.
	Equal(other Expr) bool

	isExpr()
}

// Symbol names understood by the engine.
const (
	XName  = "x"
	YName  = "y"
	TName  = "t"
	DyDx   = "dy_dx"
	PiName = "pi"
	EName  = "e"
)

// Function names understood by the engine. The natural logarithm is "log".
const (
	Sin  = "sin"
	Cos  = "cos"
	Tan  = "tan"
	Sec  = "sec"
	Csc  = "csc"
	Cot  = "cot"
	Log  = "log"
	Exp  = "exp"
	Sqrt = "sqrt"
)

// IsFunction reports whether name is a supported function. Sqrt is accepted
// as input but is represented as a power.
func IsFunction(name string) bool {
	switch name {
	case Sin, Cos, Tan, Sec, Csc, Cot, Log, Exp, Sqrt:
		return true
	}
	return false
}

// Num is an exact rational constant.
type Num struct{ v *big.Rat }

// Sym is a named symbol: a variable, dy_dx, or one of the constants pi and e.
type Sym struct{ name string }

// Add is a sum of two or more terms.
type Add struct{ terms []Expr }

// Mul is a product of two or more factors. A numeric coefficient, when
// present, is always the first factor.
type Mul struct{ factors []Expr }

// Pow is base raised to exp.
type Pow struct{ base, exp Expr }

// Func is a single-argument function application.
type Func struct {
	name string
	arg  Expr
}

func (*Num) isExpr()  {}
func (*Sym) isExpr()  {}
func (*Add) isExpr()  {}
func (*Mul) isExpr()  {}
func (*Pow) isExpr()  {}
func (*Func) isExpr() {}

// Commonly used symbols.
var (
	X     = &Sym{name: XName}
	Y     = &Sym{name: YName}
	T     = &Sym{name: TName}
	DyDxS = &Sym{name: DyDx}
	Pi    = &Sym{name: PiName}
	E     = &Sym{name: EName}
)

// NewSym returns the symbol with the given name.
func NewSym(name string) *Sym { return &Sym{name: name} }

// NewNum returns a constant holding a copy of r.
func NewNum(r *big.Rat) *Num { return &Num{v: new(big.Rat).Set(r)} }

// Int returns the integer constant n.
func Int(n int64) *Num { return &Num{v: big.NewRat(n, 1)} }

// Frac returns the rational constant a/b.
func Frac(a, b int64) *Num { return &Num{v: big.NewRat(a, b)} }

// Rat returns a copy of the constant's value.
func (n *Num) Rat() *big.Rat { return new(big.Rat).Set(n.v) }

// Sign returns -1, 0 or +1.
func (n *Num) Sign() int { return n.v.Sign() }

// IsInt reports whether the constant is an integer.
func (n *Num) IsInt() bool { return n.v.IsInt() }

// Name returns the symbol name.
func (s *Sym) Name() string { return s.name }

// Terms returns a copy of the summands.
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

// Factors returns a copy of the factors.
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

// Base returns the base of the power.
func (p *Pow) Base() Expr { return p.base }

// Exponent returns the exponent of the power.
func (p *Pow) Exponent() Expr { return p.exp }

// Name returns the function name.
func (f *Func) Name() string { return f.name }

// Arg returns the function argument.
func (f *Func) Arg() Expr { return f.arg }

func (n *Num) Equal(o Expr) bool {
	v, ok := o.(*Num)
	return ok && n.v.Cmp(v.v) == 0
}

func (s *Sym) Equal(o Expr) bool {
	v, ok := o.(*Sym)
	return ok && s.name == v.name
}

func (a *Add) Equal(o Expr) bool {
	v, ok := o.(*Add)
	return ok && equalList(a.terms, v.terms)
}

func (m *Mul) Equal(o Expr) bool {
	v, ok := o.(*Mul)
	return ok && equalList(m.factors, v.factors)
}

func (p *Pow) Equal(o Expr) bool {
	v, ok := o.(*Pow)
	return ok && p.base.Equal(v.base) && p.exp.Equal(v.exp)
}

func (f *Func) Equal(o Expr) bool {
	v, ok := o.(*Func)
	return ok && f.name == v.name && f.arg.Equal(v.arg)
}

func equalList(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (n *Num) MarshalJSON() ([]byte, error)  { return json.Marshal(n.String()) }
func (s *Sym) MarshalJSON() ([]byte, error)  { return json.Marshal(s.String()) }
func (a *Add) MarshalJSON() ([]byte, error)  { return json.Marshal(a.String()) }
func (m *Mul) MarshalJSON() ([]byte, error)  { return json.Marshal(m.String()) }
func (p *Pow) MarshalJSON() ([]byte, error)  { return json.Marshal(p.String()) }
func (f *Func) MarshalJSON() ([]byte, error) { return json.Marshal(f.String()) }

// Walk calls fn for e and every subexpression in depth-first pre-order.
// Returning false from fn skips the children of that node.
func Walk(e Expr, fn func(Expr) bool) {
	if !fn(e) {
		return
	}
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			Walk(t, fn)
		}
	case *Mul:
		for _, f := range v.factors {
			Walk(f, fn)
		}
	case *Pow:
		Walk(v.base, fn)
		Walk(v.exp, fn)
	case *Func:
		Walk(v.arg, fn)
	}
}

// Contains reports whether the symbol name occurs anywhere in e.
func Contains(e Expr, name string) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if s, ok := n.(*Sym); ok && s.name == name {
			found = true
		}
		return !found
	})
	return found
}

// HasFunc reports whether e applies the named function anywhere.
func HasFunc(e Expr, name string) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if f, ok := n.(*Func); ok && f.name == name {
			found = true
		}
		return !found
	})
	return found
}

// IsZero reports whether e is the literal constant 0. Use Simplifier.IsZero
// for a semantic test.
func IsZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.v.Sign() == 0
}

func isOne(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.v.IsInt() && n.v.Num().IsInt64() && n.v.Num().Int64() == 1
}
