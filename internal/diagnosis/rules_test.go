package diagnosis

import (
	"slices"
	"testing"

	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/normalizer"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

func TestRulesInvolved(t *testing.T) {
	tests := []struct {
		f    string
		want []string
	}{
		{"x**3 + 4x", []string{RulePower}},
		{"x**3 + 4", []string{RulePower, RuleConstant}},
		{"5", []string{RuleConstant}},
		{"sin(x**2)", []string{RuleSin, RulePower, RuleChain}},
		{"x sin(x)", []string{RuleSin, RuleProduct}},
		{"sin(x)/x", []string{RuleSin, RulePower, RuleQuotient}},
		{"exp(2x)", []string{RuleChain, RuleExp}},
		{"cos(x)", []string{RuleCos}},
		{"cot x", []string{RuleCot}},
		{"csc(x**2) + 1", []string{RuleCsc, RulePower, RuleConstant, RuleChain}},
	}
	for _, tt := range tests {
		e, err := normalizer.Expression(tt.f)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.f, err)
		}
		got := RulesInvolved(e, symbolic.XName, nil)
		if !slices.Equal(got, tt.want) {
			t.Errorf("RulesInvolved(%s) = %v, want %v", tt.f, got, tt.want)
		}
	}
}

func TestProblemRules(t *testing.T) {
	tests := []struct {
		name string
		mode derivation.Mode
		in   derivation.Input
		want []string
	}{
		{"normal", derivation.Normal, derivation.Input{Function: "x**2"}, []string{RulePower}},
		{
			"implicit", derivation.Implicit, derivation.Input{Function: "x**2 + y**2 = 25"},
			[]string{RulePower, RuleConstant, RuleChain, RuleImplicitDyDx},
		},
		{
			"parametric", derivation.Parametric, derivation.Input{X: "t**2", Y: "t**3"},
			[]string{RulePower, RuleParametric},
		},
	}
	for _, tt := range tests {
		p, err := derivation.Parse(tt.mode, tt.in)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got := ProblemRules(p); !slices.Equal(got, tt.want) {
			t.Errorf("%s: ProblemRules = %v, want %v", tt.name, got, tt.want)
		}
	}
}
