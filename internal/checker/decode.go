package checker

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/diagnosis"
	"github.com/abhisek/derivacheck/internal/normalizer"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

// exprText is an expression in its canonical text form.
type exprText string

func (e exprText) parse() (symbolic.Expr, error) {
	if e == "" {
		return nil, nil
	}
	return normalizer.Expression(string(e))
}

type stepJSON struct {
	Label string   `json:"label"`
	Expr  exprText `json:"expr"`
}

type verdictJSON struct {
	Position   int      `json:"position"`
	Kind       Kind     `json:"kind"`
	Label      string   `json:"label"`
	Raw        string   `json:"raw"`
	Student    exprText `json:"student"`
	Correction exprText `json:"correction"`
	Error      string   `json:"error"`
}

// UnmarshalJSON decodes a report written by json.Marshal, reparsing every
// expression from its canonical text.
func (r *FeedbackReport) UnmarshalJSON(b []byte) error {
	var w struct {
		ID       string                  `json:"id"`
		Mode     derivation.Mode         `json:"mode"`
		Problem  string                  `json:"problem"`
		Expected []stepJSON              `json:"expected"`
		Verdicts []verdictJSON           `json:"verdicts"`
		Hints    []diagnosis.Hint        `json:"hints"`
		Rules    []string                `json:"rules"`
		Summary  Summary                 `json:"summary"`
		Tutor    []diagnosis.Explanation `json:"tutor"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	out := FeedbackReport{
		ID:      w.ID,
		Mode:    w.Mode,
		Problem: w.Problem,
		Hints:   w.Hints,
		Rules:   w.Rules,
		Summary: w.Summary,
		Tutor:   w.Tutor,
	}
	for i, s := range w.Expected {
		e, err := s.Expr.parse()
		if err != nil {
			return fmt.Errorf("expected step %d: %w", i, err)
		}
		out.Expected = append(out.Expected, derivation.Step{Label: s.Label, Expr: e})
	}
	for _, v := range w.Verdicts {
		student, err := v.Student.parse()
		if err != nil {
			return fmt.Errorf("verdict %d: %w", v.Position, err)
		}
		correction, err := v.Correction.parse()
		if err != nil {
			return fmt.Errorf("verdict %d: %w", v.Position, err)
		}
		out.Verdicts = append(out.Verdicts, StepVerdict{
			Position:   v.Position,
			Kind:       v.Kind,
			Label:      v.Label,
			Raw:        v.Raw,
			Student:    student,
			Correction: correction,
			Error:      v.Error,
		})
	}
	*r = out
	return nil
}
