package diagnosis

import (
	"context"
	"sync"

	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/llm"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

// maxConcurrentExplanations bounds in-flight tutor requests per call.
const maxConcurrentExplanations = 4

// Service pairs the rule-based annotator with the optional LLM tutor.
type Service struct {
	annotator *Annotator
	explainer *Explainer
}

// NewService creates a Service. With a nil provider only rule-based
// hints are available and Explain returns nothing.
func NewService(s symbolic.Simplifier, provider llm.Provider) *Service {
	svc := &Service{annotator: NewAnnotator(s)}
	if provider != nil {
		svc.explainer = NewExplainer(provider, DefaultExplainerConfig())
	}
	return svc
}

// CanExplain reports whether a tutor is configured.
func (s *Service) CanExplain() bool { return s.explainer != nil }

// Annotate returns rule-based hints for the incorrect steps.
func (s *Service) Annotate(p *derivation.Problem, steps []Incorrect) []Hint {
	return s.annotator.Annotate(p, steps)
}

// Explain asks the tutor about each incorrect step, a few at a time.
// Candidates for a step are the rules hinted at its position, or every
// rule the problem needs when there are none. Steps the tutor fails on
// are left out; the first such error is returned with the rest.
func (s *Service) Explain(ctx context.Context, p *derivation.Problem, steps []Incorrect, hints []Hint) ([]Explanation, error) {
	if s.explainer == nil || len(steps) == 0 {
		return nil, nil
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([]*Explanation, len(steps))
		first   error
		slots   = make(chan struct{}, maxConcurrentExplanations)
	)
	for i, step := range steps {
		req := &ExplainRequest{
			Position:   step.Position,
			Mode:       string(p.Mode),
			Problem:    p.String(),
			Label:      step.Label,
			Student:    str(step.Student),
			Expected:   str(step.Expected),
			Candidates: candidates(p, step.Position, hints),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			slots <- struct{}{}
			defer func() { <-slots }()

			ex, err := s.explainer.Explain(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if first == nil {
					first = err
				}
				return
			}
			results[i] = ex
		}()
	}
	wg.Wait()

	var out []Explanation
	for _, ex := range results {
		if ex != nil {
			out = append(out, *ex)
		}
	}
	return out, first
}

func candidates(p *derivation.Problem, pos int, hints []Hint) []*Rule {
	var out []*Rule
	for _, h := range hints {
		if h.Position == pos {
			out = append(out, GetRule(h.RuleID))
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, id := range ProblemRules(p) {
		out = append(out, GetRule(id))
	}
	return out
}

func str(e symbolic.Expr) string {
	if e == nil {
		return "(unparseable)"
	}
	return e.String()
}
