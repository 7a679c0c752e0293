package symbolic

import (
	"errors"
	"testing"
)

var (
	x  = X
	y  = Y
	tt = T
)

func pow(b Expr, n int64) Expr { return Power(b, Int(n)) }

func TestConstructors_String(t *testing.T) {
	tests := []struct {
		name string
		e    Expr
		want string
	}{
		{"like terms", Sum(x, x), "2*x"},
		{"polynomial", Sum(Int(4), Product(Int(3), pow(x, 2))), "3*x**2 + 4"},
		{"fraction", Quo(Neg(x), y), "-x/y"},
		{"rational coefficient", Product(Frac(3, 2), tt), "3*t/2"},
		{"subtraction", Sub(pow(x, 2), x), "x**2 - x"},
		{"powers merge", Product(x, pow(x, 2)), "x**3"},
		{"cancel to one", Product(x, Power(x, Int(-1))), "1"},
		{"sqrt", Call(Sqrt, x), "sqrt(x)"},
		{"e power", Power(E, x), "exp(x)"},
		{"ln alias", Call("ln", x), "log(x)"},
		{"log of e", Call(Log, E), "1"},
		{"exp of log", Call(Exp, Call(Log, x)), "x"},
		{"cos of zero", Call(Cos, Int(0)), "1"},
		{"numeric root", Power(Int(4), Frac(1, 2)), "2"},
		{"sqrt of square kept", Call(Sqrt, pow(x, 2)), "sqrt(x**2)"},
		{"root of square kept", Power(pow(x, 2), Frac(3, 2)), "(x**2)**(3/2)"},
		{"sqrt of fourth power", Call(Sqrt, pow(x, 4)), "x**2"},
		{"sqrt of cube", Call(Sqrt, pow(x, 3)), "x**(3/2)"},
		{"square of sqrt", pow(Call(Sqrt, x), 2), "x"},
		{"cube root of square", Power(pow(x, 2), Frac(1, 3)), "x**(2/3)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.e.String(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		e    Expr
		wrt  string
		want Expr
	}{
		{"power rule", pow(x, 3), XName, Product(Int(3), pow(x, 2))},
		{"constant", Int(7), XName, Int(0)},
		{"other symbol", y, XName, Int(0)},
		{"chain sin", Call(Sin, pow(x, 2)), XName, Product(Int(2), x, Call(Cos, pow(x, 2)))},
		{"cos", Call(Cos, x), XName, Neg(Call(Sin, x))},
		{"tan", Call(Tan, x), XName, pow(Call(Sec, x), 2)},
		{"log", Call(Log, x), XName, Power(x, Int(-1))},
		{"csc", Call(Csc, x), XName, Neg(Product(Call(Csc, x), Call(Cot, x)))},
		{"cot", Call(Cot, x), XName, Neg(Quo(Int(1), pow(Call(Sin, x), 2)))},
		{"sqrt of square", Call(Sqrt, pow(x, 2)), XName, Quo(x, Call(Sqrt, pow(x, 2)))},
		{"exp chain", Call(Exp, Product(Int(2), x)), XName, Product(Int(2), Call(Exp, Product(Int(2), x)))},
		{"in t", Product(Int(3), pow(tt, 2)), TName, Product(Int(6), tt)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Diff(tc.e, tc.wrt, nil)
			if !Equivalent(got, tc.want) {
				t.Errorf("d/d%s %s = %s, want %s", tc.wrt, tc.e, got, tc.want)
			}
		})
	}
}

func TestDiff_Implicit(t *testing.T) {
	deps := map[string]Expr{YName: DyDxS}
	got := Diff(Sum(pow(x, 2), pow(y, 2)), XName, deps)
	want := Sum(Product(Int(2), x), Product(Int(2), y, DyDxS))
	if !Equivalent(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
	if !DependsOn(y, XName, deps) {
		t.Error("y should depend on x through dy_dx")
	}
	if DependsOn(tt, XName, deps) {
		t.Error("t should not depend on x")
	}
}

func TestEquivalent(t *testing.T) {
	sin, cos := Call(Sin, x), Call(Cos, x)
	tests := []struct {
		name string
		a, b Expr
		want bool
	}{
		{"expanded square", pow(Sum(x, Int(1)), 2), Sum(pow(x, 2), Product(Int(2), x), Int(1)), true},
		{"rational cancel", Quo(Sub(pow(x, 2), Int(1)), Sub(x, Int(1))), Sum(x, Int(1)), true},
		{"pythagorean", Sum(pow(sin, 2), pow(cos, 2)), Int(1), true},
		{"tan and sec", Sum(Int(1), pow(Call(Tan, x), 2)), pow(Call(Sec, x), 2), true},
		{"tan quotient", Call(Tan, x), Quo(sin, cos), true},
		{"sin parity", Call(Sin, Neg(x)), Neg(sin), true},
		{"cos parity", Call(Cos, Neg(x)), cos, true},
		{"sqrt squared", Product(Call(Sqrt, x), Call(Sqrt, x)), x, true},
		{"sqrt of eight", Call(Sqrt, Int(8)), Product(Int(2), Call(Sqrt, Int(2))), true},
		{"exp square", pow(Call(Exp, x), 2), Call(Exp, Product(Int(2), x)), true},
		{"exp of sum", Call(Exp, Sum(x, Int(1))), Product(E, Call(Exp, x)), true},
		{"cot quotient", Call(Cot, x), Quo(cos, sin), true},
		{"csc reciprocal", Product(Call(Csc, x), sin), Int(1), true},
		{"sqrt of square is not x", Call(Sqrt, pow(x, 2)), x, false},
		{"root of square is not x", Power(pow(x, 2), Frac(1, 2)), x, false},
		{"sqrt does not split a product", Product(Call(Sqrt, x), Call(Sqrt, y)), Call(Sqrt, Product(x, y)), false},
		{"sqrt of scaled square", Call(Sqrt, Product(Int(3), pow(x, 2))), Product(Call(Sqrt, Int(3)), Call(Sqrt, pow(x, 2))), true},
		{"sqrt of square times itself", Product(Call(Sqrt, pow(x, 2)), Call(Sqrt, Sum(pow(x, 2), Int(0)))), pow(x, 2), true},
		{"sqrt of square over x", Quo(Call(Sqrt, pow(x, 2)), x), Int(1), false},
		{"sqrt keeps a common square factor", Call(Sqrt, Sum(pow(x, 3), pow(x, 2))), Product(x, Call(Sqrt, Sum(x, Int(1)))), false},
		{"sqrt splits an even power", Call(Sqrt, Product(pow(x, 4), Sum(x, Int(1)))), Product(pow(x, 2), Call(Sqrt, Sum(x, Int(1)))), true},
		{"cube root splits a product", Power(Product(x, y), Frac(1, 3)), Product(Power(x, Frac(1, 3)), Power(y, Frac(1, 3))), true},
		{"power vs double", pow(x, 2), Product(Int(2), x), false},
		{"sin vs cos", sin, cos, false},
		{"off by constant", Sum(x, Int(1)), x, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equivalent(tc.a, tc.b); got != tc.want {
				t.Errorf("Equivalent(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := Equivalent(tc.b, tc.a); got != tc.want {
				t.Errorf("Equivalent(%s, %s) = %v, want %v", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestEquivalent_Reflexive(t *testing.T) {
	exprs := []Expr{
		x,
		Call(Log, Sum(pow(x, 2), Int(1))),
		Quo(Call(Sin, x), Sum(Call(Cos, x), Int(2))),
		Power(Sum(x, y), Frac(1, 3)),
	}
	for _, e := range exprs {
		if !Equivalent(e, e) {
			t.Errorf("%s not equivalent to itself", e)
		}
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name string
		e    Expr
		want string
	}{
		{"collect", Sum(Product(Int(3), pow(x, 2)), Int(4)), "3*x**2 + 4"},
		{"cancel", Quo(Product(Int(2), x, y), Product(Int(4), y)), "x/2"},
		{"zero", Sub(Call(Sin, x), Call(Sin, x)), "0"},
		{"quotient", Quo(Neg(x), y), "-x/y"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Simplify(tc.e)
			if err != nil {
				t.Fatalf("Simplify(%s): %v", tc.e, err)
			}
			if got.String() != tc.want {
				t.Errorf("Simplify(%s) = %q, want %q", tc.e, got, tc.want)
			}
		})
	}
}

func TestSimplify_Idempotent(t *testing.T) {
	e := Quo(Sum(pow(x, 3), Neg(x)), Sum(x, Int(1)))
	once, err := Simplify(e)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	twice, err := Simplify(once)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if once.String() != twice.String() {
		t.Errorf("not idempotent: %q then %q", once, twice)
	}
}

func TestSimplify_DivisionByZero(t *testing.T) {
	_, err := Simplify(Quo(x, Sub(x, x)))
	if !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("got %v, want ErrDivisionByZero", err)
	}
}

func TestSimplify_KeepsFactoredForm(t *testing.T) {
	tests := []struct {
		name string
		e    Expr
		want string
	}{
		{"chain rule result", Diff(pow(Sum(pow(x, 2), Int(1)), 3), XName, nil), "6*x*(x**2 + 1)**2"},
		{"tan stays", Call(Tan, x), "tan(x)"},
		{"smaller when expanded", Sub(pow(Sum(x, Int(1)), 2), pow(x, 2)), "2*x + 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Simplify(tc.e)
			if err != nil {
				t.Fatalf("Simplify(%s): %v", tc.e, err)
			}
			if got.String() != tc.want {
				t.Errorf("Simplify(%s) = %q, want %q", tc.e, got, tc.want)
			}
		})
	}
}

func TestSimplify_Budget(t *testing.T) {
	s := Simplifier{MaxTerms: 6}
	big := Product(Sum(x, y, tt, Int(1)), Sum(x, Product(Int(2), y), Product(Int(3), tt), Int(1)))
	if _, err := s.Simplify(big); !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("got %v, want ErrBudgetExceeded", err)
	}
	if s.Equivalent(big, Sum(big, Int(1))) {
		t.Error("an exhausted budget must not report equivalence")
	}
}

func TestLargePowers(t *testing.T) {
	u := Sum(Product(Int(2), x), Int(1))
	w := Sum(x, Int(1))
	v := Sum(pow(x, 2), Int(1))
	vv := Sum(pow(x, 4), Product(Int(2), pow(x, 2)), Int(1))
	tests := []struct {
		name string
		e    Expr
		want Expr
	}{
		{"linear base", Diff(pow(u, 100), XName, nil),
			Product(Int(200), pow(Int(2), 99), pow(Sum(x, Frac(1, 2)), 99))},
		{"unit base", Diff(pow(w, 100), XName, nil),
			Product(Int(100), pow(w, 97), Sum(pow(x, 2), Product(Int(2), x), Int(1)))},
		{"quadratic base", Diff(pow(v, 70), XName, nil), Product(Int(140), x, pow(v, 67), vv)},
		{"huge monomial", Diff(pow(x, 1000000), XName, nil), Product(Int(1000000), pow(x, 999999))},
		{"negative power", Diff(pow(v, -80), XName, nil), Quo(Product(Int(-160), x), Product(pow(v, 79), vv))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !Equivalent(tc.e, tc.want) {
				t.Errorf("%s is not equivalent to %s", tc.e, tc.want)
			}
			if Equivalent(tc.e, Sum(tc.want, x)) {
				t.Errorf("%s reported equal to a different expression", tc.e)
			}
		})
	}
}

func TestLargePowers_HeldAsAtoms(t *testing.T) {
	s := Simplifier{MaxTerms: 10}
	sum := Sum(x, y, tt, Int(1))
	big := pow(sum, 6)
	got, err := s.Simplify(big)
	if err != nil {
		t.Fatalf("Simplify(%s): %v", big, err)
	}
	if got.String() != "(t + x + y + 1)**6" {
		t.Errorf("Simplify(%s) = %q", big, got)
	}

	scaled := pow(Sum(Product(Int(2), x), Product(Int(2), y), Product(Int(2), tt), Int(2)), 6)
	if !s.Equivalent(scaled, Product(Int(64), big)) {
		t.Errorf("%s should equal 64*%s", scaled, big)
	}
	if s.Equivalent(big, Sum(big, Int(1))) {
		t.Error("a held power must not absorb a constant")
	}
	if !s.Equivalent(Diff(big, XName, nil), Product(Int(6), pow(sum, 5))) {
		t.Errorf("d/dx %s is not 6*%s**5", big, sum)
	}
}

func TestSolveLinear(t *testing.T) {
	// 2x + 2y*dy_dx = 0
	e := Sum(Product(Int(2), x), Product(Int(2), y, DyDxS))
	got, err := Default.SolveLinear(e, DyDx)
	if err != nil {
		t.Fatalf("SolveLinear: %v", err)
	}
	if got.String() != "-x/y" {
		t.Errorf("got %q, want %q", got, "-x/y")
	}
}

func TestSolveLinear_Errors(t *testing.T) {
	tests := []struct {
		name string
		e    Expr
		want error
	}{
		{"quadratic", Sum(pow(DyDxS, 2), x), ErrNotLinear},
		{"inside function", Sum(Call(Sin, DyDxS), x), ErrNotLinear},
		{"absent", Sum(x, y), ErrNoSolution},
		{"cancels", Sum(DyDxS, Neg(DyDxS), x), ErrNoSolution},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Default.SolveLinear(tc.e, DyDx)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestWalkHelpers(t *testing.T) {
	e := Sum(Call(Sin, pow(x, 2)), y)
	if !Contains(e, XName) || !Contains(e, YName) || Contains(e, TName) {
		t.Errorf("Contains gave wrong answers for %s", e)
	}
	if !HasFunc(e, Sin) || HasFunc(e, Cos) {
		t.Errorf("HasFunc gave wrong answers for %s", e)
	}
}
