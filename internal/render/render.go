// Package render formats check reports, history and the rule catalog for
// the terminal.
package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/derivacheck/internal/checker"
	"github.com/abhisek/derivacheck/internal/diagnosis"
	"github.com/abhisek/derivacheck/internal/store"
	"github.com/abhisek/derivacheck/internal/ui/theme"
)

// Renderer turns engine output into terminal text. With Color off it
// emits no escape sequences.
type Renderer struct {
	Color bool
	Width int
}

// New returns a renderer of the given width.
func New(color bool, width int) *Renderer {
	if width < 40 {
		width = 40
	}
	return &Renderer{Color: color, Width: width}
}

func (r *Renderer) paint(s lipgloss.Style, text string) string {
	if !r.Color {
		return text
	}
	return s.Render(text)
}

var verdictMarks = map[checker.Kind]struct {
	mark  string
	style lipgloss.Style
}{
	checker.Correct:     {"✓", theme.Correct},
	checker.Incorrect:   {"✗", theme.Incorrect},
	checker.Unparseable: {"?", theme.Unparseable},
	checker.Extra:       {"+", theme.Extra},
	checker.Missing:     {"…", theme.Missing},
}

// Report renders a feedback report: the problem, one block per position
// with its hints and tutor notes, then the summary.
func (r *Renderer) Report(rep *checker.FeedbackReport) string {
	var b strings.Builder

	b.WriteString(r.paint(theme.Title, rep.Problem))
	b.WriteString("  ")
	b.WriteString(r.paint(theme.Subtitle, string(rep.Mode)))
	b.WriteString("\n")
	if len(rep.Rules) > 0 {
		b.WriteString(r.paint(theme.Hint, "rules: "+strings.Join(rep.Rules, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, v := range rep.Verdicts {
		b.WriteString(r.verdict(v))
		for _, h := range rep.HintsAt(v.Position) {
			b.WriteString("      ")
			b.WriteString(r.paint(theme.Label, h.Title+": "))
			b.WriteString(r.paint(theme.Hint, h.Text))
			b.WriteString("\n")
		}
		for _, e := range rep.Tutor {
			if e.Position == v.Position {
				b.WriteString("      ")
				b.WriteString(r.paint(theme.Body, "tutor: "+e.Text))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(r.Summary(rep.Summary, len(rep.Expected)))
	return b.String()
}

func (r *Renderer) verdict(v checker.StepVerdict) string {
	m := verdictMarks[v.Kind]
	line := fmt.Sprintf("  %s %d. ", r.paint(m.style, m.mark), v.Position+1)
	if v.Label != "" {
		line += r.paint(theme.Label, v.Label) + "  "
	}

	switch v.Kind {
	case checker.Correct:
		line += r.paint(theme.Expr, v.Student.String())
	case checker.Incorrect:
		line += r.paint(theme.Incorrect, v.Student.String()) +
			r.paint(theme.Subtitle, "  expected ") + r.paint(theme.Expr, v.Correction.String())
	case checker.Unparseable:
		line += r.paint(theme.Unparseable, v.Raw) + r.paint(theme.Hint, "  "+v.Error)
	case checker.Extra:
		line += r.paint(theme.Extra, v.Raw+"  (extra line)")
	case checker.Missing:
		line += r.paint(theme.Missing, "missing, expected ") + r.paint(theme.Expr, v.Correction.String())
	}
	return line + "\n"
}

// Summary renders the verdict counts and a score bar over the expected
// steps.
func (r *Renderer) Summary(s checker.Summary, expected int) string {
	status := r.paint(theme.Incorrect, "needs work")
	if s.Passed {
		status = r.paint(theme.Correct, "all steps correct")
	}
	counts := fmt.Sprintf("%d correct, %d incorrect, %d unparseable, %d missing, %d extra",
		s.Correct, s.Incorrect, s.Unparseable, s.Missing, s.Extra)

	score := 0.0
	if expected > 0 {
		score = float64(s.Correct) / float64(expected)
	}
	return status + "  " + r.paint(theme.Subtitle, counts) + "\n" + r.Bar(score, r.Width/2) + "\n"
}

// Bar renders a horizontal bar filled to fraction of width cells,
// followed by the percentage.
func (r *Renderer) Bar(fraction float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := min(max(int(float64(width)*fraction), 0), width)
	pct := fmt.Sprintf("  %d%%", int(fraction*100))
	if !r.Color {
		return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]" + pct
	}
	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", width-filled)) +
		r.paint(theme.Subtitle, pct)
}

// Rules renders the catalog grouped by rule group.
func (r *Renderer) Rules() string {
	var b strings.Builder
	for _, g := range diagnosis.Groups {
		rules := diagnosis.RulesByGroup(g)
		if len(rules) == 0 {
			continue
		}
		b.WriteString(r.paint(theme.Title, string(g)))
		b.WriteString("\n")
		for _, rule := range rules {
			fmt.Fprintf(&b, "  %s  %s\n", r.paint(theme.Label, fmt.Sprintf("%-26s", rule.ID)), r.paint(theme.Expr, rule.Title))
			fmt.Fprintf(&b, "  %-26s  %s\n", "", r.paint(theme.Hint, rule.Text))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d rules\n", len(diagnosis.AllRules()))
	return b.String()
}

// History renders stored checks, newest first, one per line.
func (r *Renderer) History(recs []store.CheckRecord) string {
	if len(recs) == 0 {
		return r.paint(theme.Subtitle, "No checks recorded yet.") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s  %-8s  %-19s  %-10s  %-7s  %s\n", "ID", "Check", "Time", "Mode", "Score", "Problem")
	b.WriteString(strings.Repeat("─", min(r.Width, 100)))
	b.WriteString("\n")
	for _, rec := range recs {
		mark := verdictMarks[checker.Incorrect]
		if rec.Passed {
			mark = verdictMarks[checker.Correct]
		}
		fmt.Fprintf(&b, "%-5d  %-8s  %-19s  %-10s  %s %-5s  %s\n",
			rec.ID,
			short(rec.CheckID, 8),
			rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
			rec.Mode,
			r.paint(mark.style, mark.mark),
			fmt.Sprintf("%d/%d", rec.Correct, rec.Steps),
			short(rec.Function, 40),
		)
	}
	fmt.Fprintf(&b, "\n%d checks\n", len(recs))
	return b.String()
}

// Card frames s in the theme's rounded border.
func (r *Renderer) Card(s string) string {
	if !r.Color {
		return s
	}
	return theme.Card.Width(min(r.Width, lipgloss.Width(s)+4)).Render(strings.TrimRight(s, "\n"))
}

func short(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
