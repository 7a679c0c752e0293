package derivation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/derivacheck/internal/normalizer"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

func labels(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Label
	}
	return out
}

func texts(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Expr.String()
	}
	return out
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"normal":       Normal,
		"Implicit":     Implicit,
		" PARAMETRIC ": Parametric,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseMode("polar")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestExpected_Normal(t *testing.T) {
	tests := []struct {
		function string
		want     string
	}{
		{"x**3 + 4*x", "3*x**2 + 4"},
		{"x**2", "2*x"},
		{"x³ + 4x", "3*x**2 + 4"},
		{"y = x^2", "2*x"},
		{"f(x) = 5", "0"},
		{"sin(x)", "cos(x)"},
		{"ln x", "1/x"},
		{"(x**2 + 1)**3", "6*x*(x**2 + 1)**2"},
		{"(2x + 1)**100", "200*(2*x + 1)**99"},
		{"cot x", "-csc(x)**2"},
		{"sqrt(x**2)", "x/sqrt(x**2)"},
	}
	for _, tc := range tests {
		t.Run(tc.function, func(t *testing.T) {
			steps, err := Expected(Normal, Input{Function: tc.function})
			require.NoError(t, err)
			assert.Equal(t, []string{LabelDerivative}, labels(steps))
			assert.Equal(t, tc.want, steps[0].Expr.String())
		})
	}
}

func TestExpected_NormalRejectsEquation(t *testing.T) {
	_, err := Expected(Normal, Input{Function: "x**2 = 3"})
	var efe *normalizer.EquationFormatError
	require.True(t, errors.As(err, &efe), "got %v", err)
	assert.Equal(t, 1, efe.Count)
}

func TestExpected_Implicit(t *testing.T) {
	steps, err := Expected(Implicit, Input{Function: "x**2 + y**2 = 25"})
	require.NoError(t, err)
	assert.Equal(t, []string{LabelDLHS, LabelDRHS, LabelDyDx}, labels(steps))

	want := symbolic.Sum(
		symbolic.Product(symbolic.Int(2), symbolic.X),
		symbolic.Product(symbolic.Int(2), symbolic.Y, symbolic.DyDxS),
	)
	assert.True(t, symbolic.Equivalent(steps[0].Expr, want), "d/dx lhs = %s", steps[0].Expr)
	assert.Equal(t, "0", steps[1].Expr.String())
	assert.Equal(t, "-x/y", steps[2].Expr.String())
}

func TestExpected_ImplicitErrors(t *testing.T) {
	t.Run("no equals", func(t *testing.T) {
		_, err := Expected(Implicit, Input{Function: "x**2 + y**2"})
		var efe *normalizer.EquationFormatError
		require.True(t, errors.As(err, &efe), "got %v", err)
		assert.Equal(t, 0, efe.Count)
	})

	t.Run("two equals", func(t *testing.T) {
		_, err := Expected(Implicit, Input{Function: "x = y = 1"})
		var efe *normalizer.EquationFormatError
		require.True(t, errors.As(err, &efe), "got %v", err)
		assert.Equal(t, 2, efe.Count)
	})

	t.Run("no y", func(t *testing.T) {
		_, err := Expected(Implicit, Input{Function: "x**2 = 4"})
		var ue *UnsolvableError
		require.True(t, errors.As(err, &ue), "got %v", err)
		assert.ErrorIs(t, err, symbolic.ErrNoSolution)
	})

	t.Run("already differentiated", func(t *testing.T) {
		_, err := Expected(Implicit, Input{Function: "y*dy/dx = x"})
		var ue *UnsolvableError
		assert.True(t, errors.As(err, &ue), "got %v", err)
	})
}

func TestExpected_Parametric(t *testing.T) {
	steps, err := Expected(Parametric, Input{X: "t**2", Y: "t**3"})
	require.NoError(t, err)
	assert.Equal(t, []string{LabelDxDt, LabelDyDt, LabelDyDx}, labels(steps))
	assert.Equal(t, []string{"2*t", "3*t**2", "3*t/2"}, texts(steps))
}

func TestExpected_ParametricPrefixes(t *testing.T) {
	steps, err := Expected(Parametric, Input{X: "x(t) = cos t", Y: "y = sin t"})
	require.NoError(t, err)
	assert.True(t, symbolic.Equivalent(steps[2].Expr,
		symbolic.Neg(symbolic.Quo(symbolic.Call(symbolic.Cos, symbolic.T), symbolic.Call(symbolic.Sin, symbolic.T)))),
		"dy/dx = %s", steps[2].Expr)
}

func TestExpected_ParametricConstantX(t *testing.T) {
	steps, err := Expected(Parametric, Input{X: "5", Y: "t**3"})
	assert.Nil(t, steps)
	var ude *UndefinedDerivativeError
	assert.True(t, errors.As(err, &ude), "got %v", err)
}

func TestExpected_ParseErrors(t *testing.T) {
	_, err := Expected(Normal, Input{Function: "not an expression((("})
	var pe *normalizer.ParseError
	assert.True(t, errors.As(err, &pe), "got %v", err)

	_, err = Expected(Parametric, Input{X: "t", Y: "q"})
	assert.True(t, errors.As(err, &pe), "got %v", err)
	assert.Contains(t, err.Error(), "y(t)")
}

func TestOracle_Budget(t *testing.T) {
	o := Oracle{Simplifier: symbolic.Simplifier{MaxTerms: 4}}
	_, err := o.Expected(Normal, Input{Function: "(x + y + 1)(x - y + 2)(x + 2y + 3)"})
	assert.ErrorIs(t, err, symbolic.ErrBudgetExceeded)
}
