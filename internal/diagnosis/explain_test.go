package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/llm"
	"github.com/abhisek/derivacheck/internal/symbolic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func powerRequest() *ExplainRequest {
	return &ExplainRequest{
		Position:   0,
		Mode:       "normal",
		Problem:    "f(x) = x**2",
		Label:      derivation.LabelDerivative,
		Student:    "3*x",
		Expected:   "2*x",
		Candidates: []*Rule{GetRule(RulePower)},
	}
}

func TestExplainer_Explain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"rule_id":"power_rule","explanation":"Bring the exponent 2 down, not 3.","confidence":0.9}`),
	})
	ex, err := NewExplainer(mock, DefaultExplainerConfig()).Explain(context.Background(), powerRequest())
	require.NoError(t, err)

	assert.Equal(t, &Explanation{Position: 0, RuleID: RulePower, Text: "Bring the exponent 2 down, not 3.", Confidence: 0.9}, ex)

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Same(t, ExplanationSchema, call.Schema)
	assert.Equal(t, 256, call.MaxTokens)
	assert.InDelta(t, 0.3, call.Temperature, 1e-9)
	require.Len(t, call.Messages, 1)
	user := call.Messages[0].Content
	assert.Contains(t, user, "Problem: f(x) = x**2")
	assert.Contains(t, user, "Line 1 (derivative)")
	assert.Contains(t, user, "Learner wrote: 3*x")
	assert.Contains(t, user, "- power_rule: ")
}

func TestExplainer_RuleOutsideCandidates(t *testing.T) {
	for _, content := range []string{
		`{"rule_id":"chain_rule","explanation":"e","confidence":0.4}`,
		`{"rule_id":"made_up","explanation":"e","confidence":0.4}`,
		`{"rule_id":null,"explanation":"e","confidence":0.1}`,
	} {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(content)})
		ex, err := NewExplainer(mock, DefaultExplainerConfig()).Explain(context.Background(), powerRequest())
		require.NoError(t, err)
		assert.Empty(t, ex.RuleID, content)
		assert.Equal(t, "e", ex.Text)
	}
}

func TestExplainer_Errors(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider failure", llm.MockResponse{Err: errors.New("boom")}},
		{"unparseable content", llm.MockResponse{Content: json.RawMessage(`not json`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.resp)
			_, err := NewExplainer(mock, DefaultExplainerConfig()).Explain(context.Background(), powerRequest())
			assert.Error(t, err)
		})
	}
}

func TestService_WithoutProvider(t *testing.T) {
	svc := NewService(symbolic.Simplifier{}, nil)
	assert.False(t, svc.CanExplain())

	p, step := wrongStep(t, derivation.Normal, derivation.Input{Function: "x**2"}, 0, "3x")
	hints := svc.Annotate(p, []Incorrect{step})
	assert.Equal(t, []string{RulePower}, ruleIDs(hints))

	out, err := svc.Explain(context.Background(), p, []Incorrect{step}, hints)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestService_Explain(t *testing.T) {
	reply := llm.MockResponse{Content: json.RawMessage(`{"rule_id":"cos_rule","explanation":"Mind the sign.","confidence":0.8}`)}
	mock := llm.NewMockProvider(reply, reply)
	svc := NewService(symbolic.Simplifier{}, mock)
	require.True(t, svc.CanExplain())

	p, first := wrongStep(t, derivation.Normal, derivation.Input{Function: "cos(x)"}, 0, "sin(x)")
	second := first
	second.Position = 1
	steps := []Incorrect{first, second}
	hints := svc.Annotate(p, steps)

	out, err := svc.Explain(context.Background(), p, steps, hints)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Position)
	assert.Equal(t, 1, out[1].Position)
	for _, ex := range out {
		assert.Equal(t, RuleCos, ex.RuleID)
	}
	assert.Equal(t, 2, mock.CallCount())
}

func TestService_ExplainPartialFailure(t *testing.T) {
	// One reply for two steps: one explanation comes back with the error
	// for the other.
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"rule_id":null,"explanation":"Check again.","confidence":0.2}`),
	})
	svc := NewService(symbolic.Simplifier{}, mock)

	p, first := wrongStep(t, derivation.Normal, derivation.Input{Function: "x**2"}, 0, "3x")
	second := first
	second.Position = 1

	out, err := svc.Explain(context.Background(), p, []Incorrect{first, second}, nil)
	assert.Error(t, err)
	assert.Len(t, out, 1)
}

func TestCandidates(t *testing.T) {
	p, err := derivation.Parse(derivation.Normal, derivation.Input{Function: "sin(x**2)"})
	require.NoError(t, err)

	hinted := candidates(p, 2, []Hint{{Position: 2, RuleID: RuleChain}, {Position: 0, RuleID: RuleSin}})
	require.Len(t, hinted, 1)
	assert.Equal(t, RuleChain, hinted[0].ID)

	fallback := candidates(p, 5, nil)
	ids := make([]string, len(fallback))
	for i, r := range fallback {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{RuleSin, RulePower, RuleChain}, ids)
}
