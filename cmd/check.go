package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/abhisek/derivacheck/internal/checker"
	"github.com/abhisek/derivacheck/internal/diagnosis"
	"github.com/abhisek/derivacheck/internal/history"
	"github.com/abhisek/derivacheck/internal/llm"
	"github.com/abhisek/derivacheck/internal/store"
	"github.com/abhisek/derivacheck/internal/symbolic"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check differentiation working against the expected derivation",
	Example: `  derivacheck check --function "x**3 + 4x" --steps "3x² + 4"
  derivacheck check --mode implicit --function "x² + y² = 25" --steps "2x + 2y dy/dx = 0" --steps 0 --steps "dy/dx = -x/y"
  derivacheck check --mode parametric --x "t**2" --y "t**3" --steps-file working.txt
  printf '2t\n3t²\n3t/2\n' | derivacheck check --mode parametric --x t^2 --y t^3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		function, _ := cmd.Flags().GetString("function")
		x, _ := cmd.Flags().GetString("x")
		y, _ := cmd.Flags().GetString("y")
		maxTerms, _ := cmd.Flags().GetInt("max-terms")
		asJSON, _ := cmd.Flags().GetBool("json")
		explain, _ := cmd.Flags().GetBool("explain")
		noSave, _ := cmd.Flags().GetBool("no-save")

		steps, err := readSteps(cmd)
		if err != nil {
			return err
		}

		engine := checker.New(checker.Options{MaxTerms: maxTerms})
		rep, err := engine.Check(checker.Request{Mode: mode, Function: function, X: x, Y: y, Steps: steps})
		if err != nil {
			return fmt.Errorf("check failed (%s): %w", checker.ErrorKind(err), err)
		}

		var st *store.Store
		if !noSave || explain {
			if st, err = openStore(cmd); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v; history and LLM logging disabled\n", err)
			} else {
				defer st.Close()
			}
		}

		ctx := cmd.Context()
		if explain {
			rep.Tutor = explainReport(ctx, st, rep, maxTerms)
		}
		if st != nil && !noSave {
			if _, err := history.Save(ctx, st.Events(), rep); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to save check: %v\n", err)
			}
		}

		if asJSON {
			return writeJSON(cmd, rep)
		}
		r := newRenderer(cmd)
		fmt.Fprint(cmd.OutOrStdout(), r.Card(r.Report(rep)))
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

// readSteps collects step lines from --steps, then --steps-file, then
// stdin when it is not a terminal.
func readSteps(cmd *cobra.Command) ([]string, error) {
	steps, _ := cmd.Flags().GetStringArray("steps")
	if len(steps) > 0 {
		return steps, nil
	}

	if path, _ := cmd.Flags().GetString("steps-file"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read steps file: %w", err)
		}
		return checker.SplitSteps(string(b)), nil
	}

	if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return nil, nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read steps from stdin: %w", err)
	}
	return checker.SplitSteps(string(b)), nil
}

// explainReport asks the configured LLM tutor about each incorrect step.
// Failures are reported as warnings; the rule-based report stands alone.
func explainReport(ctx context.Context, st *store.Store, rep *checker.FeedbackReport, maxTerms int) []diagnosis.Explanation {
	if rep.Summary.Incorrect == 0 {
		return nil
	}
	cfg, ok := llm.ResolveConfig()
	if !ok {
		fmt.Fprintln(os.Stderr, "LLM provider not configured: set DERIVACHECK_LLM_PROVIDER or a provider API key.")
		fmt.Fprintln(os.Stderr, "Tutor explanations will be unavailable.")
		return nil
	}

	var events store.EventRepo
	if st != nil {
		events = st.Events()
	}
	provider, err := llm.NewProvider(ctx, cfg, events)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		return nil
	}

	svc := diagnosis.NewService(symbolic.Simplifier{MaxTerms: maxTerms}, provider)
	out, err := svc.Explain(ctx, rep.ParsedProblem(), rep.IncorrectSteps(), rep.Hints)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: tutor explanation failed: %v\n", err)
	}
	return out
}

func init() {
	checkCmd.Flags().StringP("mode", "m", "normal", "Problem type: normal, implicit or parametric")
	checkCmd.Flags().StringP("function", "f", "", "Function of x (normal) or equation in x and y (implicit)")
	checkCmd.Flags().String("x", "", "x(t) for parametric mode")
	checkCmd.Flags().String("y", "", "y(t) for parametric mode")
	checkCmd.Flags().StringArrayP("steps", "s", nil, "One line of working; repeat for each line")
	checkCmd.Flags().String("steps-file", "", "Read lines of working from a file, one per line")
	checkCmd.Flags().Int("max-terms", checker.DefaultOptions().MaxTerms, "Simplification budget in terms")
	checkCmd.Flags().Bool("json", false, "Print the raw report as JSON")
	checkCmd.Flags().Bool("explain", false, "Ask the configured LLM tutor to explain incorrect steps")
	checkCmd.Flags().Bool("no-save", false, "Do not record the check in history")
}
