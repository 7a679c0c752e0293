package normalizer

import (
	"errors"
	"testing"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"x**3 + 4*x", "x**3 + 4*x"},
		{"3x² + 4", "3*x**2 + 4"},
		{"x^2", "x**2"},
		{"2x", "2*x"},
		{"3(x+1)", "3*(x + 1)"},
		{"(x+1)(x-1)", "(x + 1)*(x - 1)"},
		{"x sin x", "x*sin(x)"},
		{"sin x cos x", "cos(x)*sin(x)"},
		{"sin 2x", "sin(2*x)"},
		{"sin²x", "sin(x)**2"},
		{"sin**2(x)", "sin(x)**2"},
		{"cos x + 1", "cos(x) + 1"},
		{"ln x", "log(x)"},
		{"e^x", "exp(x)"},
		{"√x", "sqrt(x)"},
		{"2π", "2*pi"},
		{"x⁻¹", "1/x"},
		{"6 ÷ 3 × x", "2*x"},
		{"x − 1", "x - 1"},
		{"0.5x", "x/2"},
		{"2y dy/dx", "2*y*dy_dx"},
		{"dy / dx", "dy_dx"},
		{"x = y", "x = y"},
		{"[x + 1]/2", "(x + 1)/2"},
		{"-cot t", "-cot(t)"},
		{"csc x cot x", "cot(x)*csc(x)"},
		{"csc²x", "csc(x)**2"},
		{"√(x²)", "sqrt(x**2)"},
		{"(x^2)^(3/2)", "(x**2)**(3/2)"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Canonical(tc.in)
			if err != nil {
				t.Fatalf("Canonical(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("Canonical(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"x³ + 4x",
		"2x cos(x²)",
		"-x/y",
		"3t/2",
		"sqrt(x + 1)",
		"exp(2x) - log(x)/x",
		"(x + 1)**(1/3)",
		"2*y*dy_dx + 2*x",
		"sin(x)**2 + tan(x)",
		"pi*x**(-2)",
		"-csc(t)*cot(t)",
		"sqrt(x**2)/x",
		"(x**2 + 1)**70",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first, err := Expression(in)
			if err != nil {
				t.Fatalf("Expression(%q): %v", in, err)
			}
			second, err := Expression(first.String())
			if err != nil {
				t.Fatalf("reparse %q: %v", first.String(), err)
			}
			if !first.Equal(second) {
				t.Errorf("%q -> %q -> %q", in, first, second)
			}
		})
	}
}

func TestNormalize_Equation(t *testing.T) {
	res, err := Normalize("x**2 + y**2 = 25")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !res.IsEquation() {
		t.Fatal("expected an equation")
	}
	if got := res.Expr.String(); got != "x**2 + y**2 - 25" {
		t.Errorf("Expr = %q", got)
	}
	if got := res.RHS.String(); got != "25" {
		t.Errorf("RHS = %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not an expression (((",
		"x +",
		"(x + 1",
		"x + 1)",
		"z**2",
		"2 3",
		"sin",
		"x = y = 1",
		"x $ 2",
		"sin**x(x)",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Normalize(in)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Normalize(%q) err = %v, want *ParseError", in, err)
			}
			if pe.Raw != in {
				t.Errorf("Raw = %q, want %q", pe.Raw, in)
			}
		})
	}
}

func TestExpression_RejectsEquation(t *testing.T) {
	var pe *ParseError
	if _, err := Expression("y = x"); !errors.As(err, &pe) {
		t.Errorf("got %v, want *ParseError", err)
	}
}

func TestEquation(t *testing.T) {
	lhs, rhs, err := Equation("x y = 1")
	if err != nil {
		t.Fatalf("Equation: %v", err)
	}
	if lhs.String() != "x*y" || rhs.String() != "1" {
		t.Errorf("got %s = %s", lhs, rhs)
	}

	for in, count := range map[string]int{"x + y": 0, "x = y = 2": 2} {
		_, _, err := Equation(in)
		var efe *EquationFormatError
		if !errors.As(err, &efe) {
			t.Fatalf("Equation(%q) err = %v, want *EquationFormatError", in, err)
		}
		if efe.Count != count {
			t.Errorf("Equation(%q) count = %d, want %d", in, efe.Count, count)
		}
	}
}
