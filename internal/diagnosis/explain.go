package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/abhisek/derivacheck/internal/llm"
)

// ExplainerConfig tunes tutor requests.
type ExplainerConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultExplainerConfig returns short, mostly deterministic replies.
func DefaultExplainerConfig() ExplainerConfig {
	return ExplainerConfig{MaxTokens: 256, Temperature: 0.3}
}

// Explainer asks an LLM to explain an incorrect step in prose.
type Explainer struct {
	provider llm.Provider
	cfg      ExplainerConfig
}

// NewExplainer creates an Explainer.
func NewExplainer(provider llm.Provider, cfg ExplainerConfig) *Explainer {
	return &Explainer{provider: provider, cfg: cfg}
}

// ExplainRequest describes one incorrect step.
type ExplainRequest struct {
	Position   int
	Mode       string
	Problem    string
	Label      string
	Student    string
	Expected   string
	Candidates []*Rule
}

// Explanation is the tutor's answer for one step. RuleID is empty when
// the tutor named no rule or named one outside the candidates.
type Explanation struct {
	Position   int     `json:"position"`
	RuleID     string  `json:"rule_id,omitempty"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Line is the 1-based line number shown to the learner.
func (r *ExplainRequest) Line() int { return r.Position + 1 }

type explanationOutput struct {
	RuleID      *string `json:"rule_id"`
	Explanation string  `json:"explanation"`
	Confidence  float64 `json:"confidence"`
}

// Explain sends one step to the provider.
func (e *Explainer) Explain(ctx context.Context, req *ExplainRequest) (*Explanation, error) {
	ctx = llm.WithPurpose(ctx, "step-explanation")

	var user bytes.Buffer
	if err := explainTemplate.Execute(&user, req); err != nil {
		return nil, fmt.Errorf("build explanation prompt: %w", err)
	}

	prompt := llm.UserPrompt(explainSystemPrompt, user.String())
	prompt.Schema = ExplanationSchema
	prompt.MaxTokens = e.cfg.MaxTokens
	prompt.Temperature = e.cfg.Temperature

	resp, err := e.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("LLM explanation failed: %w", err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse explanation response: %w", err)
	}

	ex := &Explanation{Position: req.Position, Text: out.Explanation, Confidence: out.Confidence}
	if out.RuleID != nil {
		for _, c := range req.Candidates {
			if c.ID == *out.RuleID {
				ex.RuleID = c.ID
				break
			}
		}
	}
	return ex, nil
}

const explainSystemPrompt = `You are a patient calculus tutor. A learner is differentiating step by step and one of their lines is wrong. Explain the mistake to them.

Instructions:
- If one of the listed rules explains the mistake, return its ID as rule_id. Otherwise return null.
- Never invent rule IDs.
- Address the learner directly in at most two sentences. Do not give the full answer.
- Expressions use ** for powers and dy_dx for dy/dx.`

var explainTemplate = template.Must(template.New("explain").Parse(`Mode: {{.Mode}}
Problem: {{.Problem}}
Line {{.Line}} ({{.Label}})
Learner wrote: {{.Student}}
Correct expression: {{.Expected}}

Candidate rules:
{{range .Candidates}}- {{.ID}}: {{.Title}}
{{end}}`))
